package password

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

func sha1Parts(password string) (prefix, suffix string) {
	sum := sha1.Sum([]byte(password))
	digest := strings.ToUpper(hex.EncodeToString(sum[:]))
	return digest[:5], digest[5:]
}

func TestIsCompromisedMatch(t *testing.T) {
	const password = "password123"
	prefix, suffix := sha1Parts(password)

	var gotPath, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprintf(w, "0018A45C4D1DEF81644B54AB7F969B88D65:3\r\n%s:2410\r\nFFFFF:1\r\n", suffix)
	}))
	defer srv.Close()

	client := NewBreachClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	compromised, err := client.IsCompromised(context.Background(), password)
	if err != nil {
		t.Fatalf("IsCompromised failed: %v", err)
	}
	if !compromised {
		t.Fatalf("expected compromised=true")
	}
	if gotPath != "/"+prefix {
		t.Fatalf("expected only the 5-char prefix on the wire, got path %q", gotPath)
	}
	if gotUA == "" {
		t.Fatalf("expected a descriptive User-Agent header")
	}
}

func TestIsCompromisedNoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "0018A45C4D1DEF81644B54AB7F969B88D65:3\r\nFFFFF:1\r\n")
	}))
	defer srv.Close()

	client := NewBreachClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	compromised, err := client.IsCompromised(context.Background(), "Obscure-Phrase-271!")
	if err != nil {
		t.Fatalf("IsCompromised failed: %v", err)
	}
	if compromised {
		t.Fatalf("expected compromised=false")
	}
}

func TestIsCompromisedFailsOpenOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewBreachClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	compromised, err := client.IsCompromised(context.Background(), "anything")
	if err == nil {
		t.Fatalf("expected an error for a 500 response")
	}
	if compromised {
		t.Fatalf("a failing lookup must never report compromised=true")
	}
}

func TestIsCompromisedFailsOpenOnNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // refuse connections

	client := NewBreachClient(WithBaseURL(srv.URL))
	compromised, err := client.IsCompromised(context.Background(), "anything")
	if err == nil {
		t.Fatalf("expected a transport error")
	}
	if compromised {
		t.Fatalf("a failing lookup must never report compromised=true")
	}
}
