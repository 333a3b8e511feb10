package util

import "testing"

func TestClosestMatches(t *testing.T) {
	candidates := []string{"alpha", "beta", "alpah", "gamma"}
	got := ClosestMatches("alpha", candidates, 2)
	if len(got) != 2 || got[0] != "alpha" {
		t.Fatalf("ClosestMatches = %v, want [alpha ...]", got)
	}
}
