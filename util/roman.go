package util

import "fmt"

var romanValues = []struct {
	symbol string
	value  int
}{
	{"x", 10},
	{"ix", 9},
	{"v", 5},
	{"iv", 4},
	{"i", 1},
}

// RomanToArity decodes the lowercase roman-numeral suffix used by
// trefi/defi/symi environment names (e.g. "iii" -> 3) into the number of
// arguments the environment expects. It decodes any non-empty string of
// the letters i, v and x greedily from the left (so "xx" -> 20 and
// "iiii" -> 4 are accepted too); any other letter is an error.
func RomanToArity(roman string) (int, error) {
	if roman == "" {
		return 0, fmt.Errorf("empty roman numeral")
	}
	total := 0
	for i := 0; i < len(roman); {
		matched := false
		for _, rv := range romanValues {
			if i+len(rv.symbol) <= len(roman) && roman[i:i+len(rv.symbol)] == rv.symbol {
				total += rv.value
				i += len(rv.symbol)
				matched = true
				break
			}
		}
		if !matched {
			return 0, fmt.Errorf("invalid roman numeral %q", roman)
		}
	}
	return total, nil
}
