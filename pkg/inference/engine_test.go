package inference

import (
	"reflect"
	"testing"
)

func testEngine() *Engine {
	return NewEngine(testTable())
}

func TestInfer_EmptyFactsScoreZero(t *testing.T) {
	eng := testEngine()

	res := eng.Infer(HostFacts{MACAddress: MACUnknown})
	if res.Score != 0 {
		t.Fatalf("score = %d, want 0", res.Score)
	}
	if res.Tier != TierVeryLow {
		t.Fatalf("tier = %q, want %q", res.Tier, TierVeryLow)
	}
	if res.Label != LabelUnidentified {
		t.Fatalf("label = %q, want %q", res.Label, LabelUnidentified)
	}
	if len(res.Methods) != 0 {
		t.Fatalf("methods = %v, want none", res.Methods)
	}
}

func TestInfer_Idempotent(t *testing.T) {
	eng := testEngine()
	facts := HostFacts{
		MACAddress:    "A4:5E:60:01:02:03",
		OpenPorts:     []PortRecord{{Port: 22, Protocol: "tcp", Service: "ssh"}},
		OSFingerprint: "Linux 5.10",
	}

	first := eng.Infer(facts)
	second := eng.Infer(facts)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("inference is not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestInfer_MonotonicScoreGrowth(t *testing.T) {
	eng := testEngine()

	base := eng.Infer(HostFacts{MACAddress: MACUnknown}).Score
	cases := []HostFacts{
		{MACAddress: MACUnknown, OpenPorts: ports(9100)},
		{MACAddress: MACUnknown, OSFingerprint: "Windows Server 2019"},
		{MACAddress: MACUnknown, VendorHint: "Samsung Electronics"},
		{MACAddress: MACUnknown, OpenPorts: ports(554), VendorHint: "GenericCam"},
		{MACAddress: "A4:5E:60:00:00:01"},
	}
	for _, facts := range cases {
		if got := eng.Infer(facts).Score; got < base {
			t.Fatalf("adding evidence %+v decreased score: %d < %d", facts, got, base)
		}
	}
}

func TestInfer_MACOUIWinsConflictWithBonus(t *testing.T) {
	eng := testEngine()

	// Known Apple prefix plus SMB port: the port family says Windows,
	// MAC evidence wins and earns the cross-validation bonus.
	res := eng.Infer(HostFacts{
		MACAddress: "A4:5E:60:11:22:33",
		OpenPorts:  ports(445),
	})
	if res.Label != "Apple Device" {
		t.Fatalf("label = %q, want Apple Device", res.Label)
	}
	if res.Score != 85 { // 40 MAC + 35 ports + 10 bonus
		t.Fatalf("score = %d, want 85", res.Score)
	}
	if res.Tier != TierHigh {
		t.Fatalf("tier = %q, want %q", res.Tier, TierHigh)
	}
	wantMethods := []string{MethodMACOUI, MethodPortAnalysis}
	if !reflect.DeepEqual(res.Methods, wantMethods) {
		t.Fatalf("methods = %v, want %v", res.Methods, wantMethods)
	}
}

func TestInfer_SSHLinuxHost(t *testing.T) {
	eng := testEngine()

	res := eng.Infer(HostFacts{
		MACAddress:    MACUnknown,
		OpenPorts:     []PortRecord{{Port: 22, Protocol: "tcp", Service: "ssh"}},
		OSFingerprint: "Linux 5.10",
	})
	if res.Label != LabelSSHHost {
		t.Fatalf("label = %q, want %q", res.Label, LabelSSHHost)
	}
	if res.Score != 55 { // 30 port+OS, 25 service
		t.Fatalf("score = %d, want 55", res.Score)
	}
	if res.Tier != TierMedium {
		t.Fatalf("tier = %q, want %q", res.Tier, TierMedium)
	}
}

func TestInfer_SSHLinuxHostWithoutServiceName(t *testing.T) {
	eng := testEngine()

	// Port 22 open but the service column empty: only the port+OS case
	// fires.
	res := eng.Infer(HostFacts{
		MACAddress:    MACUnknown,
		OpenPorts:     ports(22),
		OSFingerprint: "Linux 5.10",
	})
	if res.Label != LabelSSHHost {
		t.Fatalf("label = %q, want %q", res.Label, LabelSSHHost)
	}
	if res.Score != 30 {
		t.Fatalf("score = %d, want 30", res.Score)
	}
	if res.Tier != TierLow {
		t.Fatalf("tier = %q, want %q", res.Tier, TierLow)
	}
}

func TestInfer_IoTCameraLowTier(t *testing.T) {
	eng := testEngine()

	res := eng.Infer(HostFacts{
		MACAddress: MACUnknown,
		OpenPorts:  ports(554),
		VendorHint: "GenericCam",
	})
	if res.Label != LabelIoT {
		t.Fatalf("label = %q, want %q", res.Label, LabelIoT)
	}
	if res.Score != 25 {
		t.Fatalf("score = %d, want 25", res.Score)
	}
	if res.Tier != TierLow {
		t.Fatalf("tier = %q, want %q", res.Tier, TierLow)
	}
}

func TestInfer_RouterEvidenceFromBothSources(t *testing.T) {
	eng := testEngine()

	// Router-vendor prefix plus a UPnP port. The labels differ textually
	// ("Router/Network Device" vs "Router / Gateway"), so the cross-check
	// prefers the MAC category and applies the confirmation bonus.
	res := eng.Infer(HostFacts{
		MACAddress: "50:C7:BF:00:00:01",
		OpenPorts:  ports(1900),
	})
	if res.Label != "Router/Network Device" {
		t.Fatalf("label = %q, want Router/Network Device", res.Label)
	}
	if res.Score != 85 { // 40 MAC + 35 ports + 10 bonus
		t.Fatalf("score = %d, want 85", res.Score)
	}
}

func TestInfer_OSOnlyStaysLowTier(t *testing.T) {
	eng := testEngine()

	res := eng.Infer(HostFacts{MACAddress: MACUnknown, OSFingerprint: "Microsoft Windows 10"})
	if res.Label != LabelWindows {
		t.Fatalf("label = %q, want %q", res.Label, LabelWindows)
	}
	if res.Score != 20 || res.Tier != TierLow {
		t.Fatalf("score/tier = %d/%q, want 20/Low", res.Score, res.Tier)
	}
}

func TestInfer_VeryLowOverridesPartialLabel(t *testing.T) {
	eng := testEngine()

	// A single sub-20 contribution would keep a partial label; no family
	// scores below 20, so the nearest case is zero evidence with a vendor
	// hint that matches nothing.
	res := eng.Infer(HostFacts{MACAddress: MACUnknown, VendorHint: "Acme Industrial"})
	if res.Score != 0 || res.Label != LabelUnidentified || res.Tier != TierVeryLow {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestInfer_NilTableFallsBackToDefault(t *testing.T) {
	eng := NewEngine(nil)
	if eng.Table().Len() == 0 {
		t.Fatalf("default table is empty")
	}
	res := eng.Infer(HostFacts{MACAddress: "B8:27:EB:00:00:01"})
	if res.Label != "Raspberry Pi" {
		t.Fatalf("label = %q, want Raspberry Pi", res.Label)
	}
}

func TestTierForScore_Thresholds(t *testing.T) {
	cases := map[int]Tier{
		0:   TierVeryLow,
		19:  TierVeryLow,
		20:  TierLow,
		39:  TierLow,
		40:  TierMedium,
		59:  TierMedium,
		60:  TierHigh,
		100: TierHigh,
	}
	for score, want := range cases {
		if got := TierForScore(score); got != want {
			t.Fatalf("TierForScore(%d) = %q, want %q", score, got, want)
		}
	}
}
