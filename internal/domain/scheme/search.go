package scheme

import "strings"

// Find returns the first scheme, in source order, whose name equals the
// trimmed input exactly. Duplicated names resolve to the first row.
func Find(t Table, name string) (Scheme, bool) {
	name = strings.TrimSpace(name)
	for _, s := range t.schemes {
		if s.name == name {
			return s, true
		}
	}
	return Scheme{}, false
}
