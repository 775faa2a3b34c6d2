package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePorts_TopAndEmpty(t *testing.T) {
	top, err := ParsePorts("top")
	require.NoError(t, err)
	assert.Equal(t, topPorts, top)

	empty, err := ParsePorts("")
	require.NoError(t, err)
	assert.Equal(t, topPorts, empty)

	// Callers get a copy, not the shared default slice.
	top[0] = 9999
	assert.NotEqual(t, topPorts[0], top[0])
}

func TestParsePorts_List(t *testing.T) {
	got, err := ParsePorts("443,22,80,22")
	require.NoError(t, err)
	assert.Equal(t, []int{22, 80, 443}, got)
}

func TestParsePorts_RangeAndMix(t *testing.T) {
	got, err := ParsePorts("8000-8002,22")
	require.NoError(t, err)
	assert.Equal(t, []int{22, 8000, 8001, 8002}, got)
}

func TestParsePorts_Invalid(t *testing.T) {
	for _, spec := range []string{"abc", "0", "70000", "80-22", "1-999999", "-5"} {
		_, err := ParsePorts(spec)
		assert.Error(t, err, "spec %q", spec)
	}
}

func TestServiceName(t *testing.T) {
	assert.Equal(t, "ssh", ServiceName(22))
	assert.Equal(t, "jetdirect", ServiceName(9100))
	assert.Equal(t, "upnp", ServiceName(1900))
	assert.Empty(t, ServiceName(12345))
}

func TestOSHintFromBanner(t *testing.T) {
	cases := map[string]string{
		"SSH-2.0-OpenSSH_8.9p1 Ubuntu-3ubuntu0.6": "Linux (SSH-2.0-OpenSSH_8.9p1 Ubuntu-3ubuntu0.6)",
		"SSH-2.0-OpenSSH_9.2 Debian-2":            "Linux (SSH-2.0-OpenSSH_9.2 Debian-2)",
		"SSH-2.0-OpenSSH_7.4":                     "Unix-like (SSH-2.0-OpenSSH_7.4)",
		"SSH-2.0-Microsoft.SSH":                   "Windows (SSH-2.0-Microsoft.SSH)",
		"SSH-2.0-ROSSSH mikrotik":                 "RouterOS (SSH-2.0-ROSSSH mikrotik)",
		"something else":                          "",
		"":                                        "",
	}
	for banner, want := range cases {
		assert.Equal(t, want, osHintFromBanner(banner), "banner %q", banner)
	}
}
