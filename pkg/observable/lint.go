package observable

import "fmt"

// DeclarationIssue is a declared name that resolves to nothing.
type DeclarationIssue struct {
	Declared  string // property or command carrying the declaration
	Reference string // the unresolvable name
	Kind      string // "cascades-from", "notifies" or "requery-on"
}

func (i DeclarationIssue) String() string {
	return fmt.Sprintf("%s %s %q: no such property", i.Declared, i.Kind, i.Reference)
}

// Lint reports declared names that match neither a declared property or
// command nor one of known. Propagation never calls it; an unresolvable name
// is only a dead branch at runtime.
func (m *Metadata) Lint(known ...string) []DeclarationIssue {
	resolvable := make(map[string]bool, len(m.properties)+len(m.commands)+len(known))
	for _, list := range [][]string{m.properties, m.commands, known} {
		for _, n := range list {
			resolvable[n] = true
		}
	}

	var issues []DeclarationIssue
	check := func(declared, kind string, refs []string) {
		for _, ref := range refs {
			if !resolvable[ref] {
				issues = append(issues, DeclarationIssue{Declared: declared, Reference: ref, Kind: kind})
			}
		}
	}

	for _, p := range m.properties {
		check(p, "cascades-from", m.cascadesFrom[p])
		check(p, "notifies", m.forced[p])
	}
	for _, c := range m.commands {
		check(c, "requery-on", m.requeryOn[c])
	}
	return issues
}
