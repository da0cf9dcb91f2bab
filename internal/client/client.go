// Package client executes camera control requests over HTTP, negotiating
// the authentication scheme the target firmware accepts.
package client

import (
	"crypto/tls"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"ptzctl/internal/driver"
)

// schemeNone keys the unauthenticated transport in the per-scheme cache.
const schemeNone driver.AuthScheme = ""

// Options carries the operator-supplied connection settings.
type Options struct {
	Username string
	Password string
	Auth     string // "auto", "basic" or "digest"
	Timeout  time.Duration
}

// CameraClient issues control requests to one camera. The authentication
// scheme is negotiated on the first request that needs credentials and
// reused for the rest of the run.
type CameraClient struct {
	drv  *driver.Driver
	opts Options
	log  zerolog.Logger

	// mu serializes negotiation so library-style reuse from several
	// goroutines still writes the resolved scheme exactly once.
	mu       sync.Mutex
	resolved driver.AuthScheme
	clients  map[driver.AuthScheme]*resty.Client
}

// New builds a client for the given resolved driver.
func New(drv *driver.Driver, opts Options, log zerolog.Logger) *CameraClient {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	return &CameraClient{
		drv:     drv,
		opts:    opts,
		log:     log,
		clients: make(map[driver.AuthScheme]*resty.Client),
	}
}

// httpFor returns the transport configured for one scheme, building it on
// first use. Camera heads ship self-signed certificates, so TLS
// verification is skipped.
func (c *CameraClient) httpFor(scheme driver.AuthScheme) *resty.Client {
	if hc, ok := c.clients[scheme]; ok {
		return hc
	}
	hc := resty.New().
		SetTimeout(c.opts.Timeout).
		SetHeader("User-Agent", "ptzctl").
		SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})

	switch scheme {
	case driver.AuthBasic:
		hc.SetBasicAuth(c.opts.Username, c.opts.Password)
	case driver.AuthDigest:
		hc.SetDigestAuth(c.opts.Username, c.opts.Password)
	}

	c.clients[scheme] = hc
	return hc
}

// SetTally switches the tally light. Callers are expected to check the
// model capability first; this still refuses to build a URL for a model
// without a light.
func (c *CameraClient) SetTally(on bool) error {
	u, err := c.drv.TallyURL(on)
	if err != nil {
		return err
	}
	return c.command(u)
}

// CallPreset recalls a stored position. The raw argument is validated by
// the driver before any network I/O.
func (c *CameraClient) CallPreset(arg string) error {
	u, err := c.drv.PresetURL(arg)
	if err != nil {
		return err
	}
	return c.command(u)
}

// Probe issues a bare request against the control endpoint. Any HTTP
// response, whatever the status, means the camera is reachable.
func (c *CameraClient) Probe() error {
	_, err := c.execute(c.drv.BaseURL)
	return err
}

// ResolvedScheme reports the pinned scheme, or "" before negotiation.
func (c *CameraClient) ResolvedScheme() driver.AuthScheme {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolved
}

func (c *CameraClient) command(url string) error {
	resp, err := c.execute(url)
	if err != nil {
		return err
	}
	// Control commands commonly answer 204 No Content; any 2xx is fine.
	if !resp.IsSuccess() {
		return fmt.Errorf("camera returned %s", resp.Status())
	}
	return nil
}
