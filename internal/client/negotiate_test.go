package client

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"ptzctl/internal/driver"
)

// basicOnlyCamera accepts only Basic credentials, like older CGI firmware.
func basicOnlyCamera(requests *atomic.Int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if user, pass, ok := r.BasicAuth(); ok && user == "admin" && pass == "pw" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("WWW-Authenticate", `Basic realm="camera"`)
		w.WriteHeader(http.StatusUnauthorized)
	}
}

// digestCamera challenges with Digest and accepts any Digest response;
// credential verification is not what is under test here.
func digestCamera(requests *atomic.Int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if strings.HasPrefix(r.Header.Get("Authorization"), "Digest ") {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("WWW-Authenticate",
			`Digest realm="camera", nonce="deadbeef", qop="auth", algorithm=MD5`)
		w.WriteHeader(http.StatusUnauthorized)
	}
}

func TestNegotiationFallsBackToBasic(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(basicOnlyCamera(&requests))
	defer srv.Close()

	cam := newClient(testDefinition(srv.URL, true),
		Options{Username: "admin", Password: "pw", Auth: "auto"})

	// First command pays for the probe: one Digest attempt rejected, one
	// Basic attempt accepted.
	if err := cam.SetTally(true); err != nil {
		t.Fatalf("SetTally: %v", err)
	}
	if got := requests.Load(); got != 2 {
		t.Errorf("expected 2 requests during negotiation, got %d", got)
	}
	if got := cam.ResolvedScheme(); got != driver.AuthBasic {
		t.Errorf("resolved scheme = %q, want basic", got)
	}

	// Later commands reuse the pinned scheme: exactly one more request.
	if err := cam.CallPreset("3"); err != nil {
		t.Fatalf("CallPreset: %v", err)
	}
	if got := requests.Load(); got != 3 {
		t.Errorf("expected 1 request after negotiation, got %d total", got)
	}
}

func TestNegotiationResolvesDigest(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(digestCamera(&requests))
	defer srv.Close()

	cam := newClient(testDefinition(srv.URL, true),
		Options{Username: "admin", Password: "pw", Auth: "auto"})

	if err := cam.SetTally(true); err != nil {
		t.Fatalf("SetTally: %v", err)
	}
	if got := cam.ResolvedScheme(); got != driver.AuthDigest {
		t.Errorf("resolved scheme = %q, want digest", got)
	}
}

func TestExplicitSchemeNeverFallsBack(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(digestCamera(&requests))
	defer srv.Close()

	// The camera wants Digest, but the operator pinned Basic: one
	// request, rejection, no silent retry with another scheme.
	cam := newClient(testDefinition(srv.URL, true),
		Options{Username: "admin", Password: "pw", Auth: "basic"})

	err := cam.SetTally(true)
	if !errors.Is(err, ErrAuthExhausted) {
		t.Fatalf("expected ErrAuthExhausted, got %v", err)
	}
	if got := requests.Load(); got != 1 {
		t.Errorf("expected exactly 1 request, got %d", got)
	}
	if cam.ResolvedScheme() != "" {
		t.Errorf("no scheme should be resolved, got %q", cam.ResolvedScheme())
	}
}

func TestForbiddenCountsAsRejection(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	cam := newClient(testDefinition(srv.URL, true),
		Options{Username: "admin", Password: "pw", Auth: "auto"})

	err := cam.SetTally(true)
	if !errors.Is(err, ErrAuthExhausted) {
		t.Fatalf("expected ErrAuthExhausted after 403s, got %v", err)
	}
	if got := requests.Load(); got != 2 {
		t.Errorf("expected both candidates probed, got %d requests", got)
	}
}

func TestNonAuthStatusResolvesScheme(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	cam := newClient(testDefinition(srv.URL, true),
		Options{Username: "admin", Password: "pw", Auth: "auto"})

	// A 404 is not an auth signal: the first candidate is adopted and the
	// status is reported to the caller as an ordinary HTTP failure.
	err := cam.SetTally(true)
	if err == nil || errors.Is(err, ErrAuthExhausted) {
		t.Fatalf("expected a plain HTTP error, got %v", err)
	}
	if got := requests.Load(); got != 1 {
		t.Errorf("expected probing to stop on the first candidate, got %d requests", got)
	}
	if got := cam.ResolvedScheme(); got != driver.AuthDigest {
		t.Errorf("resolved scheme = %q, want digest", got)
	}
}
