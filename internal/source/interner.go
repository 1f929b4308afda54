package source

import "slices"

// StringID names an interned string. Every name the resolver binds or reads
// passes through an Interner so scopes can key maps on a cheap uint32 instead
// of a string header.
type StringID uint32

// NoStringID is reserved for the empty string and doubles as a sentinel.
const NoStringID StringID = 0

// Interner deduplicates strings and hands back stable IDs.
type Interner struct {
	byID  []string
	index map[string]StringID
}

// NewInterner returns an interner pre-seeded with NoStringID -> "".
func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": NoStringID},
	}
}

// Intern inserts s if unseen and returns its (possibly pre-existing) ID.
func (i *Interner) Intern(s string) StringID {
	if id, ok := i.index[s]; ok {
		return id
	}
	// Copy so the interner does not keep a slice of the caller's buffer alive.
	cpy := string([]byte(s))
	id := StringID(len(i.byID))
	i.byID = append(i.byID, cpy)
	i.index[cpy] = id
	return id
}

// Lookup returns the string for id, or ("", false) if id is out of range.
func (i *Interner) Lookup(id StringID) (string, bool) {
	if !i.Has(id) {
		return "", false
	}
	return i.byID[id], true
}

// MustLookup panics if id is not valid.
func (i *Interner) MustLookup(id StringID) string {
	s, ok := i.Lookup(id)
	if !ok {
		panic("source: invalid string ID")
	}
	return s
}

func (i *Interner) Has(id StringID) bool { return int(id) < len(i.byID) }

// Len returns the number of strings in the interner, NoStringID included.
func (i *Interner) Len() int { return len(i.byID) }

// Snapshot returns a copy of every interned string, indexed by StringID.
func (i *Interner) Snapshot() []string { return slices.Clone(i.byID) }
