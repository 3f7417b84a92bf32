package wireless

import "testing"

func TestInterfaceTypeString(t *testing.T) {
	cases := map[InterfaceType]string{
		TypeStation:        "station",
		TypeAP:             "ap",
		TypeMonitor:        "monitor",
		InterfaceType(250): "unknown(250)",
	}
	for typ, want := range cases {
		if got := typ.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", uint32(typ), got, want)
		}
	}
}

func TestPhySupports(t *testing.T) {
	phy := Phy{
		Index:          0,
		Name:           "phy0",
		SupportedTypes: []InterfaceType{TypeStation, TypeAP},
	}

	if !phy.Supports(TypeStation) {
		t.Error("station should be supported")
	}
	if phy.Supports(TypeP2PGO) {
		t.Error("p2p-go should not be supported")
	}
}
