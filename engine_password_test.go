package securecore

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func breachServer(t *testing.T, compromised string, status int) *httptest.Server {
	t.Helper()

	sum := sha1.Sum([]byte(compromised))
	full := strings.ToUpper(hex.EncodeToString(sum[:]))

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		prefix := strings.TrimPrefix(r.URL.Path, "/")
		if prefix == full[:5] {
			fmt.Fprintf(w, "%s:42\r\n", full[5:])
		}
		fmt.Fprint(w, "0018A45C4D1DEF81644B54AB7F969B88D65:3\r\n")
	}))
}

func newBreachTestEngine(t *testing.T, baseURL string) *Engine {
	t.Helper()

	cfg := defaultConfig()
	cfg.Password.BreachBaseURL = baseURL

	engine, err := New().WithConfig(cfg).WithMasterKey(testMasterKey).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine
}

func TestValidatePasswordReportsAllViolations(t *testing.T) {
	engine, _ := newTestEngine(t)

	violations := engine.ValidatePassword("short")
	if len(violations) != 4 {
		t.Fatalf("expected 4 violations, got %d: %v", len(violations), violations)
	}
}

func TestValidatePasswordAcceptsStrong(t *testing.T) {
	engine, _ := newTestEngine(t)

	if violations := engine.ValidatePassword("Tr0ub4dor&Horse!"); len(violations) != 0 {
		t.Fatalf("expected no violations, got %v", violations)
	}
}

func TestCheckPasswordSecurityCompromised(t *testing.T) {
	server := breachServer(t, "Tr0ub4dor&Horse!", http.StatusOK)
	defer server.Close()

	engine := newBreachTestEngine(t, server.URL)

	check := engine.CheckPasswordSecurity(context.Background(), "Tr0ub4dor&Horse!")
	if check.IsSecure {
		t.Fatal("breached password reported secure")
	}

	found := false
	for _, w := range check.Warnings {
		if strings.Contains(w, "data breaches") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected breach warning, got %v", check.Warnings)
	}
}

func TestCheckPasswordSecurityCleanPassword(t *testing.T) {
	server := breachServer(t, "some-other-password", http.StatusOK)
	defer server.Close()

	engine := newBreachTestEngine(t, server.URL)

	check := engine.CheckPasswordSecurity(context.Background(), "Tr0ub4dor&Horse!")
	if !check.IsSecure {
		t.Fatalf("expected secure, got warnings %v", check.Warnings)
	}
}

func TestCheckPasswordSecurityFailsOpenOnAPIError(t *testing.T) {
	server := breachServer(t, "", http.StatusInternalServerError)
	defer server.Close()

	engine := newBreachTestEngine(t, server.URL)

	check := engine.CheckPasswordSecurity(context.Background(), "Tr0ub4dor&Horse!")
	if !check.IsSecure {
		t.Fatalf("expected fail-open on API error, got warnings %v", check.Warnings)
	}
}

func TestCheckPasswordSecurityHeuristicWarnings(t *testing.T) {
	server := breachServer(t, "unrelated", http.StatusOK)
	defer server.Close()

	engine := newBreachTestEngine(t, server.URL)

	check := engine.CheckPasswordSecurity(context.Background(), "Password123456!!!!")
	if check.IsSecure {
		t.Fatal("expected heuristics to flag password")
	}

	var common, repeated bool
	for _, w := range check.Warnings {
		if strings.Contains(w, "common patterns") {
			common = true
		}
		if strings.Contains(w, "repeated characters") {
			repeated = true
		}
	}
	if !common || !repeated {
		t.Fatalf("expected both heuristic warnings, got %v", check.Warnings)
	}
}

func TestCheckPasswordSecurityBreachDisabled(t *testing.T) {
	cfg := defaultConfig()
	cfg.Password.BreachCheckEnabled = false

	engine, err := New().WithConfig(cfg).WithMasterKey(testMasterKey).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	// No server anywhere: a disabled breach check never performs I/O.
	check := engine.CheckPasswordSecurity(context.Background(), "Tr0ub4dor&Horse!")
	if !check.IsSecure {
		t.Fatalf("expected secure with breach disabled, got %v", check.Warnings)
	}
}
