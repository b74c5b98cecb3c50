package policy

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEngine_FirstMatchWins(t *testing.T) {
	e := NewEngine()
	e.LoadPolicies([]Policy{
		{ID: "memos", Matcher: Matcher{Path: "/api/memos"}, Rules: Rules{AuthRequired: true, CSRFRequired: true}},
		{ID: "api", Matcher: Matcher{Path: "/api"}, Rules: Rules{AuthRequired: true}},
		{ID: "pages", Matcher: Matcher{Path: "/"}},
	})

	cases := []struct {
		method, path string
		want         string
	}{
		{http.MethodGet, "/api/memos", "memos"},
		{http.MethodGet, "/api/memos/abc", "memos"},
		{http.MethodGet, "/api/settings", "api"},
		{http.MethodGet, "/", "pages"},
		{http.MethodGet, "/sw.js", "pages"},
	}
	for _, c := range cases {
		r := httptest.NewRequest(c.method, c.path, nil)
		if got := e.Evaluate(r).ID; got != c.want {
			t.Errorf("%s %s: got policy %q, want %q", c.method, c.path, got, c.want)
		}
	}
}

func TestEngine_MethodMatcher(t *testing.T) {
	e := NewEngine()
	e.LoadPolicies([]Policy{
		{ID: "login", Matcher: Matcher{Method: http.MethodPost, Path: "/api/login"}, Rules: Rules{LockGated: true}},
		{ID: "pages", Matcher: Matcher{Path: "/"}},
	})

	r := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	if got := e.Evaluate(r).ID; got != "login" {
		t.Errorf("POST login: got %q", got)
	}
	r = httptest.NewRequest(http.MethodGet, "/api/login", nil)
	if got := e.Evaluate(r).ID; got != "pages" {
		t.Errorf("GET login should fall through, got %q", got)
	}
}

func TestEngine_DefaultPolicy(t *testing.T) {
	e := NewEngine()
	e.LoadPolicies([]Policy{
		{ID: "api", Matcher: Matcher{Path: "/api"}},
	})

	r := httptest.NewRequest(http.MethodGet, "/anything", nil)
	p := e.Evaluate(r)
	if p.ID != "default" {
		t.Fatalf("expected default policy, got %q", p.ID)
	}
	if !p.Rules.AuthRequired {
		t.Error("default policy must require auth")
	}

	// The returned default is a copy; mutating it must not leak.
	p.Rules.AuthRequired = false
	if got := e.Evaluate(r); !got.Rules.AuthRequired {
		t.Error("default policy was mutated by a caller")
	}
}
