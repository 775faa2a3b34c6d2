package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo(t *testing.T) {
	info := Info()
	assert.True(t, strings.HasPrefix(info, "Hostscout "))
	assert.Contains(t, info, Version)
	assert.Contains(t, info, Commit)
}

func TestGet(t *testing.T) {
	got := Get()
	assert.Equal(t, Version, got.Version)
	assert.Equal(t, Commit, got.Commit)
	assert.Equal(t, BuildDate, got.BuildDate)
}
