package explorer

import "sort"

// SelectionSet tracks which entry names are selected. Names, not
// indices, so a refresh that reorders the listing keeps the selection.
type SelectionSet struct {
	names map[string]struct{}
}

func NewSelectionSet() *SelectionSet {
	return &SelectionSet{names: make(map[string]struct{})}
}

func (s *SelectionSet) Toggle(name string) {
	if _, ok := s.names[name]; ok {
		delete(s.names, name)
	} else {
		s.names[name] = struct{}{}
	}
}

func (s *SelectionSet) Has(name string) bool {
	_, ok := s.names[name]
	return ok
}

func (s *SelectionSet) Len() int { return len(s.names) }

func (s *SelectionSet) Clear() {
	s.names = make(map[string]struct{})
}

// SelectAll replaces the selection with the given names, typically the
// currently visible entries.
func (s *SelectionSet) SelectAll(names []string) {
	s.names = make(map[string]struct{}, len(names))
	for _, n := range names {
		s.names[n] = struct{}{}
	}
}

// Names returns the selection in stable order.
func (s *SelectionSet) Names() []string {
	out := make([]string, 0, len(s.names))
	for n := range s.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Retain drops selected names that no longer appear in the listing, so a
// remote delete cannot leave phantom selections behind.
func (s *SelectionSet) Retain(present []string) {
	keep := make(map[string]struct{}, len(present))
	for _, n := range present {
		keep[n] = struct{}{}
	}
	for n := range s.names {
		if _, ok := keep[n]; !ok {
			delete(s.names, n)
		}
	}
}
