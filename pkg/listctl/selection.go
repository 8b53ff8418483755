package listctl

// selection is the set of checked ids. Order follows the current page so
// snapshots are stable.
type selection[ID comparable] map[ID]struct{}

func (s selection[ID]) has(id ID) bool {
	_, ok := s[id]
	return ok
}

// reconcile drops every id that is not in present.
func (s selection[ID]) reconcile(present map[ID]struct{}) (dropped int) {
	for id := range s {
		if _, ok := present[id]; !ok {
			delete(s, id)
			dropped++
		}
	}
	return dropped
}

func (s selection[ID]) clear() {
	for id := range s {
		delete(s, id)
	}
}

// ordered returns the selected ids in the order they appear in ids.
func (s selection[ID]) ordered(ids []ID) []ID {
	out := make([]ID, 0, len(s))
	for _, id := range ids {
		if s.has(id) {
			out = append(out, id)
		}
	}
	return out
}
