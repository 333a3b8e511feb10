package util

import "testing"

func TestRomanToArity(t *testing.T) {
	cases := map[string]int{
		"i": 1, "ii": 2, "iii": 3, "iv": 4, "v": 5,
		"vi": 6, "vii": 7, "viii": 8, "ix": 9, "x": 10,
	}
	for roman, want := range cases {
		got, err := RomanToArity(roman)
		if err != nil {
			t.Fatalf("RomanToArity(%q): %v", roman, err)
		}
		if got != want {
			t.Errorf("RomanToArity(%q) = %d, want %d", roman, got, want)
		}
	}
}

func TestRomanToArityInvalid(t *testing.T) {
	for _, bad := range []string{"", "iz", "abc"} {
		if _, err := RomanToArity(bad); err == nil {
			t.Errorf("RomanToArity(%q) expected error", bad)
		}
	}
}
