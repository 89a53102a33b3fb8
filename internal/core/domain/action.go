package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Action is one selectable operation in a target's catalog.
type Action struct {
	Flag          string
	Description   string
	ValueRequired bool
}

// Catalog is the ordered list of actions offered for a target.
type Catalog []Action

// Lookup returns the action with the given flag.
func (c Catalog) Lookup(flag string) (Action, bool) {
	for _, a := range c {
		if a.Flag == flag {
			return a, true
		}
	}
	return Action{}, false
}

// Flags returns the flag ids in catalog order.
func (c Catalog) Flags() []string {
	flags := make([]string, len(c))
	for i, a := range c {
		flags[i] = a.Flag
	}
	return flags
}

// Intersect keeps the actions of c whose flag also appears in other, preserving c's order.
func (c Catalog) Intersect(other Catalog) Catalog {
	out := make(Catalog, 0, len(c))
	for _, a := range c {
		if _, ok := other.Lookup(a.Flag); ok {
			out = append(out, a)
		}
	}
	return out
}

// Selection is one action chosen by the caller, optionally carrying a value.
type Selection struct {
	Flag     string
	Value    string
	HasValue bool
}

// String renders the selection as flag or flag=value.
func (s Selection) String() string {
	if !s.HasValue {
		return s.Flag
	}
	return s.Flag + "=" + s.Value
}

// SelectionSet is the ordered list of selections for one run.
type SelectionSet []Selection

// Has reports whether flag was selected.
func (s SelectionSet) Has(flag string) bool {
	for _, sel := range s {
		if sel.Flag == flag {
			return true
		}
	}
	return false
}

// ParseSelection parses "flag" or "flag=value" tokens in order.
func ParseSelection(tokens []string) (SelectionSet, error) {
	set := make(SelectionSet, 0, len(tokens))
	for _, tok := range tokens {
		flag, value, hasValue := strings.Cut(tok, "=")
		flag = strings.TrimSpace(flag)
		if flag == "" {
			return nil, zerr.With(zerr.Wrap(ErrUnknownAction, "empty action in selection"), "token", tok)
		}
		set = append(set, Selection{Flag: flag, Value: value, HasValue: hasValue})
	}
	return set, nil
}

// Validate checks the selection against the catalog. Every flag must exist in the catalog
// exactly once and value-required flags must carry a non-empty value.
func (s SelectionSet) Validate(c Catalog) error {
	seen := make(map[string]struct{}, len(s))
	for _, sel := range s {
		action, ok := c.Lookup(sel.Flag)
		if !ok {
			return zerr.With(zerr.Wrap(ErrUnknownAction, "action not offered for this target"), "flag", sel.Flag)
		}
		if _, dup := seen[sel.Flag]; dup {
			return zerr.With(zerr.Wrap(ErrDuplicateAction, "action selected more than once"), "flag", sel.Flag)
		}
		seen[sel.Flag] = struct{}{}
		if action.ValueRequired && (!sel.HasValue || sel.Value == "") {
			return zerr.With(zerr.Wrap(ErrMissingValue, "action requires a value"), "flag", sel.Flag)
		}
	}
	return nil
}
