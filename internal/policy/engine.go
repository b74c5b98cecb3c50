package policy

import (
	"net/http"
	"strings"
	"sync"
)

// Matcher defines which requests a policy applies to.
type Matcher struct {
	Method string `json:"method,omitempty"` // "" or "*" matches any
	Path   string `json:"path"`             // prefix match
}

// Rules are the security requirements enforced on a matched route.
type Rules struct {
	AuthRequired bool    `json:"auth_required"`
	CSRFRequired bool    `json:"csrf_required"` // enforced on mutating methods only
	LockGated    bool    `json:"lock_gated"`    // unauthenticated calls need X-Dynamic-Lock
	RateLimit    float64 `json:"rate_limit"`    // requests per second
	Burst        int     `json:"burst"`
}

// Policy is a named set of rules.
type Policy struct {
	ID      string  `json:"id"`
	Matcher Matcher `json:"matcher"`
	Rules   Rules   `json:"rules"`
}

// DefaultPolicy is applied when nothing matches: auth required, tight
// rate limit. Unknown surface area stays closed.
var DefaultPolicy = Policy{
	ID: "default",
	Rules: Rules{
		AuthRequired: true,
		RateLimit:    1.0,
		Burst:        5,
	},
}

// Engine evaluates requests against an ordered policy list.
type Engine struct {
	mu       sync.RWMutex
	policies []Policy
}

func NewEngine() *Engine {
	return &Engine{}
}

// LoadPolicies replaces the current set.
func (e *Engine) LoadPolicies(newPolicies []Policy) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.policies = newPolicies
}

// Evaluate returns the first matching policy, or DefaultPolicy.
// First match wins, so order specific prefixes before general ones.
func (e *Engine) Evaluate(r *http.Request) *Policy {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for i := range e.policies {
		p := &e.policies[i]
		if match(p.Matcher, r) {
			return p
		}
	}
	def := DefaultPolicy
	return &def
}

func match(m Matcher, r *http.Request) bool {
	if m.Method != "" && m.Method != "*" && m.Method != r.Method {
		return false
	}
	return strings.HasPrefix(r.URL.Path, m.Path)
}
