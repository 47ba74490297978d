package domain

import "sort"

// IDSet is a sorted, duplicate-free list of ids. It is treated as a value:
// With returns a new set and never modifies the receiver, so a set shared
// between two snapshots stays stable.
type IDSet []string

// NewIDSet builds a set from ids, dropping empties and duplicates.
func NewIDSet(ids ...string) IDSet {
	var s IDSet
	for _, id := range ids {
		s = s.With(id)
	}
	return s
}

// Has reports whether id is a member.
func (s IDSet) Has(id string) bool {
	i := sort.SearchStrings(s, id)
	return i < len(s) && s[i] == id
}

// With returns the union of s and {id}. Adding an existing member returns an
// equal copy.
func (s IDSet) With(id string) IDSet {
	if id == "" {
		return s.Clone()
	}
	i := sort.SearchStrings(s, id)
	if i < len(s) && s[i] == id {
		return s.Clone()
	}
	out := make(IDSet, 0, len(s)+1)
	out = append(out, s[:i]...)
	out = append(out, id)
	out = append(out, s[i:]...)
	return out
}

// Len returns the number of members.
func (s IDSet) Len() int { return len(s) }

func (s IDSet) Clone() IDSet {
	if s == nil {
		return nil
	}
	out := make(IDSet, len(s))
	copy(out, s)
	return out
}

// SubsetOf reports whether every member of s is in other.
func (s IDSet) SubsetOf(other IDSet) bool {
	for _, id := range s {
		if !other.Has(id) {
			return false
		}
	}
	return true
}
