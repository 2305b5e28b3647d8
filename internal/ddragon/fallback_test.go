package ddragon

import "testing"

// TestFallbackName covers the documented prefix-strip derivation.
func TestFallbackName(t *testing.T) {
	cases := []struct {
		id   string
		want string
	}{
		{"TFT14_Ahri", "Ahri"},
		{"TFT14_TwistedFate", "Twisted Fate"},
		{"TFT_Item_InfinityEdge", "Infinity Edge"},
		{"TFT_Item_JeweledGauntlet", "Jeweled Gauntlet"},
		{"TFT9_Augment_CyberneticUplink", "Cybernetic Uplink"},
		{"Poppy", "Poppy"},
		{"", ""},
		{"TFT14_", "TFT14_"}, // degenerate id keeps its raw form
	}

	for _, tc := range cases {
		if got := FallbackName(tc.id); got != tc.want {
			t.Errorf("FallbackName(%q) = %q, want %q", tc.id, got, tc.want)
		}
	}
}

// TestFallbackName_Deterministic pins that derivation is stable across calls.
func TestFallbackName_Deterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		if got := FallbackName("TFT14_MissFortune"); got != "Miss Fortune" {
			t.Fatalf("FallbackName changed across runs: %q", got)
		}
	}
}
