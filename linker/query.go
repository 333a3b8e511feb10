package linker

import (
	"stexls/compiler"
	"stexls/span"
	"stexls/symtab"
)

// Definitions returns the locations of every symbol a reference at
// (file, pos) resolves to, per §6: among every reference whose range
// contains pos, only the reference(s) tied for the smallest range are
// considered (the innermost, most specific match at that position).
func (l *Linker) Definitions(obj *compiler.Object, pos span.Position) []span.Location {
	var best []compiler.Reference
	var bestLen uint64
	for _, r := range obj.References {
		if !r.Range.Contains(pos) {
			continue
		}
		switch {
		case len(best) == 0 || r.Range.Length() < bestLen:
			best = []compiler.Reference{r}
			bestLen = r.Range.Length()
		case r.Range.Length() == bestLen:
			best = append(best, r)
		}
	}

	var locs []span.Location
	for _, r := range best {
		for _, s := range symtab.Lookup(r.Scope, r.Name, r.Kind) {
			locs = append(locs, s.Location())
		}
	}
	return locs
}

// References returns every reference in obj whose resolved target's
// qualified name matches symbol.
func (l *Linker) References(obj *compiler.Object, symbolQualified []string) []span.Range {
	var ranges []span.Range
	for _, r := range obj.References {
		for _, s := range symtab.Lookup(r.Scope, r.Name, r.Kind) {
			if qualifiedEquals(symtab.Qualified(s), symbolQualified) {
				ranges = append(ranges, r.Range)
			}
		}
	}
	return ranges
}

// Diagnostics returns obj's per-range error map as is, keyed by the
// Range each diagnostic is attached to.
func (l *Linker) Diagnostics(obj *compiler.Object) map[span.Range][]error {
	return obj.Errors
}

func qualifiedEquals(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
