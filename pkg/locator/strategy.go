package locator

import (
	"fmt"
	"sort"
	"strings"
)

// Strategy identifies how a Rule matches an element.
type Strategy string

const (
	ByID            Strategy = "id"             // ByID matches a fixed id attribute.
	ByTestID        Strategy = "test_id"        // ByTestID matches the data-testid attribute.
	ByAriaLabel     Strategy = "aria_label"     // ByAriaLabel matches the aria-label attribute exactly.
	ByClassContains Strategy = "class_contains" // ByClassContains matches a substring of the class attribute.
	ByIDPrefix      Strategy = "id_prefix"      // ByIDPrefix matches the beginning of the id attribute.
)

// TestIDAttribute is the attribute used by ByTestID rules.
const TestIDAttribute = "data-testid"

// Rank orders strategies by stability; lower is more stable. Unknown
// strategies rank last.
func (s Strategy) Rank() int {
	switch s {
	case ByID:
		return 1
	case ByTestID:
		return 2
	case ByAriaLabel:
		return 3
	case ByClassContains, ByIDPrefix:
		return 4
	default:
		return 99
	}
}

// Partial reports whether the strategy only matches part of a generated name.
func (s Strategy) Partial() bool {
	return s == ByClassContains || s == ByIDPrefix
}

// Valid reports whether s is a known strategy.
func (s Strategy) Valid() bool {
	return s.Rank() < 99
}

// Rule is a single element-matching policy.
type Rule struct {
	Strategy Strategy `yaml:"strategy" json:"strategy"`
	Value    string   `yaml:"value" json:"value"`

	// Tag optionally restricts the match to one element name, e.g. "button".
	Tag string `yaml:"tag,omitempty" json:"tag,omitempty"`
}

// ID returns a ByID rule.
func ID(id string) Rule { return Rule{Strategy: ByID, Value: id} }

// TestID returns a ByTestID rule.
func TestID(id string) Rule { return Rule{Strategy: ByTestID, Value: id} }

// AriaLabel returns a ByAriaLabel rule restricted to tag (which may be empty).
func AriaLabel(tag, label string) Rule { return Rule{Strategy: ByAriaLabel, Value: label, Tag: tag} }

// ClassContains returns a ByClassContains rule.
func ClassContains(fragment string) Rule { return Rule{Strategy: ByClassContains, Value: fragment} }

// IDPrefix returns a ByIDPrefix rule restricted to tag (which may be empty).
func IDPrefix(tag, prefix string) Rule { return Rule{Strategy: ByIDPrefix, Value: prefix, Tag: tag} }

// Selector compiles the rule into a CSS selector.
func (r Rule) Selector() string {
	switch r.Strategy {
	case ByID:
		return r.Tag + "[id=" + cssString(r.Value) + "]"
	case ByTestID:
		return r.Tag + "[" + TestIDAttribute + "=" + cssString(r.Value) + "]"
	case ByAriaLabel:
		return r.Tag + "[aria-label=" + cssString(r.Value) + "]"
	case ByClassContains:
		return r.Tag + "[class*=" + cssString(r.Value) + "]"
	case ByIDPrefix:
		return r.Tag + "[id^=" + cssString(r.Value) + "]"
	default:
		return ""
	}
}

func (r Rule) String() string {
	return fmt.Sprintf("%s(%s)", r.Strategy, r.Selector())
}

// Validate checks that the rule can be compiled.
func (r Rule) Validate() error {
	if !r.Strategy.Valid() {
		return fmt.Errorf("unknown locator strategy %q", r.Strategy)
	}
	if strings.TrimSpace(r.Value) == "" {
		return fmt.Errorf("%s rule has an empty value", r.Strategy)
	}
	return nil
}

// cssString quotes v as a CSS string literal.
func cssString(v string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, c := range v {
		switch c {
		case '\'', '\\':
			b.WriteByte('\\')
			b.WriteRune(c)
		case '\n':
			b.WriteString(`\A `)
		default:
			b.WriteRune(c)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// Target is a named element description with its candidate rules.
type Target struct {
	Name  string `yaml:"name" json:"name"`
	Rules []Rule `yaml:"rules" json:"rules"`
}

// NewTarget creates a target with the given rules.
func NewTarget(name string, rules ...Rule) Target {
	return Target{Name: name, Rules: rules}
}

// Ranked returns the rules ordered from most to least stable. The sort is
// stable, so rules of equal rank keep their declared order.
func (t Target) Ranked() []Rule {
	out := make([]Rule, len(t.Rules))
	copy(out, t.Rules)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Strategy.Rank() < out[j].Strategy.Rank()
	})
	return out
}

// Selectors returns the compiled selectors in rank order.
func (t Target) Selectors() []string {
	ranked := t.Ranked()
	out := make([]string, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.Selector())
	}
	return out
}

// Validate checks that the target has at least one valid rule.
func (t Target) Validate() error {
	if len(t.Rules) == 0 {
		return fmt.Errorf("target %q has no rules", t.Name)
	}
	for _, r := range t.Rules {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("target %q: %w", t.Name, err)
		}
	}
	return nil
}
