package auth

import (
	"strings"

	"github.com/gobwas/glob"
	"github.com/goliatone/go-errors"
)

// Rule grants access to the routes matching a glob pattern. Methods is a
// method whitelist, empty meaning any. Public routes skip authentication
// entirely; otherwise MinRole is the minimum role required, empty meaning
// any authenticated principal.
type Rule struct {
	Pattern string
	Methods []string
	Public  bool
	MinRole Role
}

type compiledRule struct {
	Rule
	matcher glob.Glob
	// a pattern like "/admin/**" should also cover "/admin" itself
	exact string
}

// Policy is an ordered route-access table: first matching rule wins, and a
// request matching no rule at all still requires authentication. Deny by
// default is the safety invariant; there is no way to express "allow
// everything unmatched".
//
// Rules are plain data so the table can be unit-tested without an HTTP stack.
type Policy struct {
	rules []compiledRule
}

// NewPolicy compiles the rule table. Patterns use path globs where `*` stays
// within one segment and `**` crosses segments.
func NewPolicy(rules ...Rule) (*Policy, error) {
	compiled := make([]compiledRule, 0, len(rules))

	for _, rule := range rules {
		matcher, err := glob.Compile(rule.Pattern, '/')
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryBadInput, "invalid route pattern").
				WithMetadata(map[string]any{"pattern": rule.Pattern})
		}

		cr := compiledRule{Rule: rule, matcher: matcher}
		if trimmed, ok := strings.CutSuffix(rule.Pattern, "/**"); ok {
			cr.exact = trimmed
		}

		compiled = append(compiled, cr)
	}

	return &Policy{rules: compiled}, nil
}

// MustPolicy is NewPolicy that panics on an invalid pattern, for static tables
func MustPolicy(rules ...Rule) *Policy {
	p, err := NewPolicy(rules...)
	if err != nil {
		panic(err)
	}
	return p
}

// Match returns the first rule covering method+path
func (p *Policy) Match(method, path string) (Rule, bool) {
	for _, rule := range p.rules {
		if !rule.allowsMethod(method) {
			continue
		}
		if rule.matcher.Match(path) || (rule.exact != "" && rule.exact == path) {
			return rule.Rule, true
		}
	}
	return Rule{}, false
}

// IsPublic reports whether the route can be served without any credentials
func (p *Policy) IsPublic(method, path string) bool {
	rule, ok := p.Match(method, path)
	return ok && rule.Public
}

// Allows decides the request's fate given its resolved role. Anonymous
// requests pass only on public routes; authenticated ones additionally need
// to clear the rule's minimum role.
func (p *Policy) Allows(method, path string, role Role, authenticated bool) error {
	rule, ok := p.Match(method, path)

	if ok && rule.Public {
		return nil
	}

	if !authenticated {
		return ErrAuthRequired
	}

	if !ok {
		// unmatched routes fall back to authenticated-any-role
		return nil
	}

	if rule.MinRole == "" {
		return nil
	}

	if !role.IsAtLeast(rule.MinRole) {
		return ErrRouteForbidden.Clone().
			WithMetadata(map[string]any{
				"required": string(rule.MinRole),
				"role":     string(role),
				"pattern":  rule.Pattern,
			})
	}

	return nil
}

func (r compiledRule) allowsMethod(method string) bool {
	if len(r.Methods) == 0 {
		return true
	}
	for _, m := range r.Methods {
		if strings.EqualFold(m, method) {
			return true
		}
	}
	return false
}
