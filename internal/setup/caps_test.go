package setup

import "testing"

func TestHasRequiredCaps(t *testing.T) {
	cases := []struct {
		name string
		out  string
		want bool
	}{
		{"modern getcap", "/usr/local/bin/ifctl cap_net_admin,cap_net_raw=ep", true},
		{"legacy getcap", "/usr/local/bin/ifctl = cap_net_admin,cap_net_raw+ep", true},
		{"no caps", "", false},
		{"missing net_raw", "/usr/local/bin/ifctl cap_net_admin=ep", false},
		{"permitted only", "/usr/local/bin/ifctl cap_net_admin,cap_net_raw=p", false},
		{"unrelated caps", "/usr/bin/ping cap_net_raw=ep", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := hasRequiredCaps(tc.out); got != tc.want {
				t.Errorf("hasRequiredCaps(%q) = %v, want %v", tc.out, got, tc.want)
			}
		})
	}
}

func TestParseCapEff(t *testing.T) {
	status := "Name:\tifctl\nCapPrm:\t0000000000003000\nCapEff:\t0000000000003000\n"
	mask, err := parseCapEff(status)
	if err != nil {
		t.Fatalf("parseCapEff: %v", err)
	}
	if mask != 0x3000 {
		t.Errorf("mask = %#x, want 0x3000", mask)
	}
	if !effectiveCapsOK(mask) {
		t.Error("0x3000 carries both net_admin and net_raw")
	}

	if _, err := parseCapEff("Name:\tifctl\n"); err == nil {
		t.Error("missing CapEff should error")
	}
}

func TestEffectiveCapsOK(t *testing.T) {
	// Full root mask.
	if !effectiveCapsOK(0x1ffffffffff) {
		t.Error("root mask should pass")
	}
	// net_admin without net_raw.
	if effectiveCapsOK(1 << capNetAdmin) {
		t.Error("net_admin alone should fail")
	}
	if effectiveCapsOK(0) {
		t.Error("empty mask should fail")
	}
}
