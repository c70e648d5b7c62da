package boundary

import (
	"fmt"
	"strings"
)

// Filter is a firewall on the link to a parent Loader. It stores nothing
// itself; permitted lookups are answered by the parent.
type Filter struct {
	parent    Loader
	rules     Rules
	pathRules Rules
}

// NewFilter creates a Filter in front of parent. It fails with
// ErrCoreNotCovered when the rules would hide the core prefix.
func NewFilter(parent Loader, rules Rules) (*Filter, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if parent == nil {
		parent = NewNamespace()
	}
	rules = rules.Normalize()
	return &Filter{parent: parent, rules: rules, pathRules: rules.pathForm()}, nil
}

// Rules returns the normalized rules of the filter.
func (f *Filter) Rules() Rules {
	return f.rules
}

// LoadSymbol forwards name to the parent when the rules permit it.
func (f *Filter) LoadSymbol(name string) (any, error) {
	switch d, prefix := evaluate(f.rules, name); d {
	case Blocked:
		return nil, fmt.Errorf("%w: %s (rule %q)", ErrDenied, name, prefix)
	case NotAllowed:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return f.parent.LoadSymbol(name)
}

// LoadResource forwards the resource lookup to the parent when the path-form
// rules permit it.
func (f *Filter) LoadResource(name string) (string, bool) {
	name = strings.TrimPrefix(name, "/")
	if d, _ := evaluate(f.pathRules, name); d != Delegate {
		return "", false
	}
	return f.parent.LoadResource(name)
}
