package boundary

import (
	"fmt"
	"strings"
)

// CorePrefix is the namespace of platform primitives.
const CorePrefix = "std."

// Rules are the ordered allow and block prefix lists of a Filter.
// A trailing "*" on a prefix is ignored.
type Rules struct {
	Allow []string `json:"allow,omitempty" yaml:"allow,omitempty"`
	Block []string `json:"block,omitempty" yaml:"block,omitempty"`
}

// DefaultRules lets the platform and the shared contract through and keeps
// the host's own implementation packages and the SOAP framework out.
func DefaultRules() Rules {
	return Rules{
		Allow: []string{"std.", "mockrunner.api."},
		Block: []string{"mockrunner.internal.", "soap."},
	}
}

// Normalize returns the rules with blanks trimmed and trailing "*" removed.
func (r Rules) Normalize() Rules {
	return Rules{Allow: normalizePrefixes(r.Allow), Block: normalizePrefixes(r.Block)}
}

func normalizePrefixes(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	for i, p := range in {
		out[i] = strings.TrimSuffix(strings.TrimSpace(p), "*")
	}
	return out
}

// Validate checks that the core prefix stays reachable. It is covered when
// there is no allow list or an allow prefix covers all of it, and it is lost
// when any block prefix covers it.
func (r Rules) Validate() error {
	r = r.Normalize()

	covered := r.Allow == nil
	for _, p := range r.Allow {
		if strings.HasPrefix(CorePrefix, p) {
			covered = true
			break
		}
	}
	for _, b := range r.Block {
		if strings.HasPrefix(CorePrefix, b) {
			return fmt.Errorf("%w: blocked by %q", ErrCoreNotCovered, b)
		}
	}
	if !covered {
		return ErrCoreNotCovered
	}
	return nil
}

// Decision is the outcome of evaluating a name against Rules.
type Decision int

const (
	// Delegate means the lookup is forwarded to the parent loader.
	Delegate Decision = iota
	// Blocked means a block prefix matched.
	Blocked
	// NotAllowed means an allow list exists and no prefix in it matched.
	NotAllowed
)

// String returns "allow", "block" or "not-allowed".
func (d Decision) String() string {
	switch d {
	case Delegate:
		return "allow"
	case Blocked:
		return "block"
	case NotAllowed:
		return "not-allowed"
	default:
		return fmt.Sprintf("Decision(%d)", int(d))
	}
}

// Evaluate decides a symbol name and returns the prefix that decided it,
// which is empty when no allow list exists or nothing matched.
func (r Rules) Evaluate(name string) (Decision, string) {
	return evaluate(r.Normalize(), name)
}

// EvaluateResource decides a resource path. The rules are translated to
// path form and a leading "/" of name is ignored.
func (r Rules) EvaluateResource(name string) (Decision, string) {
	return evaluate(r.Normalize().pathForm(), strings.TrimPrefix(name, "/"))
}

func (r Rules) pathForm() Rules {
	conv := func(in []string) []string {
		if in == nil {
			return nil
		}
		out := make([]string, len(in))
		for i, p := range in {
			out[i] = strings.ReplaceAll(p, ".", "/")
		}
		return out
	}
	return Rules{Allow: conv(r.Allow), Block: conv(r.Block)}
}

// evaluate expects normalized rules.
func evaluate(r Rules, name string) (Decision, string) {
	for _, b := range r.Block {
		if strings.HasPrefix(name, b) {
			return Blocked, b
		}
	}
	if r.Allow == nil {
		return Delegate, ""
	}
	for _, a := range r.Allow {
		if strings.HasPrefix(name, a) {
			return Delegate, a
		}
	}
	return NotAllowed, ""
}
