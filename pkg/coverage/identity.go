package coverage

import (
	"encoding/json"
	"strings"
)

// Identity is a blame author or reviewer handle with case-insensitive semantics.
// It keeps the original representation for display and a normalized form for
// comparisons. A leading @ is not significant, so "@Dev" and "dev" are equal.
type Identity struct {
	original   string
	normalized string
}

func NewIdentity(name string) Identity {
	name = strings.TrimSpace(name)
	return Identity{
		original:   name,
		normalized: strings.ToLower(strings.TrimPrefix(name, "@")),
	}
}

func (i Identity) Equals(other Identity) bool {
	return i.normalized == other.normalized
}

func (i Identity) EqualsString(str string) bool {
	return i.Equals(NewIdentity(str))
}

func (i Identity) Original() string {
	return i.original
}

func (i Identity) Normalized() string {
	return i.normalized
}

func (i Identity) String() string {
	return i.original
}

// MarshalJSON serializes the original string to preserve case
func (i Identity) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.original)
}

// aliasMap resolves blame identities to display names, ignoring case
type aliasMap map[string]Identity

func newAliasMap(aliases map[string]string) aliasMap {
	m := make(aliasMap, len(aliases))
	for from, to := range aliases {
		if strings.TrimSpace(to) == "" {
			continue
		}
		m[NewIdentity(from).Normalized()] = NewIdentity(to)
	}
	return m
}

func (m aliasMap) resolve(author string) Identity {
	id := NewIdentity(author)
	if alias, ok := m[id.Normalized()]; ok {
		return alias
	}
	return id
}
