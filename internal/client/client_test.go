package client

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"ptzctl/internal/driver"
)

// testDefinition builds a minimal driver bound to the fake camera URL.
func testDefinition(baseURL string, hasTally bool) *driver.Driver {
	def := &driver.Definition{
		Name:     "testcam",
		HasTally: hasTally,
		APIURL:   baseURL,
		TallyPath: func(on bool) string {
			v := 0
			if on {
				v = 1
			}
			return fmt.Sprintf("/tally?v=%d", v)
		},
		PresetPath: func(arg string) (string, error) {
			if arg == "bad" {
				return "", fmt.Errorf("%w: bad preset", driver.ErrInvalidArgument)
			}
			return "/preset?id=" + arg, nil
		},
	}
	return def.Resolve("unused")
}

func newClient(drv *driver.Driver, opts Options) *CameraClient {
	return New(drv, opts, zerolog.Nop())
}

func TestNoCredentialsMeansNoAuth(t *testing.T) {
	var requests atomic.Int64
	var sawAuth atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.Header.Get("Authorization") != "" {
			sawAuth.Store(true)
		}
		// Control endpoints typically answer with no body.
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	cam := newClient(testDefinition(srv.URL, true), Options{})
	if err := cam.SetTally(true); err != nil {
		t.Fatalf("SetTally: %v", err)
	}
	if got := requests.Load(); got != 1 {
		t.Errorf("expected 1 request, got %d", got)
	}
	if sawAuth.Load() {
		t.Error("request carried an Authorization header without credentials")
	}
	if cam.ResolvedScheme() != "" {
		t.Errorf("no negotiation expected, resolved %q", cam.ResolvedScheme())
	}
}

func TestInvalidPresetNeverReachesNetwork(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer srv.Close()

	cam := newClient(testDefinition(srv.URL, true), Options{})
	if err := cam.CallPreset("bad"); !errors.Is(err, driver.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if got := requests.Load(); got != 0 {
		t.Errorf("expected no request, got %d", got)
	}
}

func TestTallyWithoutCapabilityNeverReachesNetwork(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer srv.Close()

	cam := newClient(testDefinition(srv.URL, false), Options{})
	if err := cam.SetTally(true); !errors.Is(err, driver.ErrUnsupportedCapability) {
		t.Fatalf("expected ErrUnsupportedCapability, got %v", err)
	}
	if got := requests.Load(); got != 0 {
		t.Errorf("expected no request, got %d", got)
	}
}

func TestHTTPErrorReported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	cam := newClient(testDefinition(srv.URL, true), Options{})
	err := cam.SetTally(true)
	if err == nil {
		t.Fatal("expected an error for a 500 response")
	}
	if errors.Is(err, ErrAuthExhausted) {
		t.Errorf("500 must not be treated as an auth signal: %v", err)
	}
}

func TestConnectionFailureReported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	cam := newClient(testDefinition(url, true), Options{Username: "admin", Password: "pw"})
	err := cam.SetTally(true)
	if err == nil {
		t.Fatal("expected a transport error")
	}
	if errors.Is(err, ErrAuthExhausted) {
		t.Errorf("transport failure must not count as auth exhaustion: %v", err)
	}
}
