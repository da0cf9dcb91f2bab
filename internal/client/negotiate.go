package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"ptzctl/internal/driver"
)

// ErrAuthExhausted means every candidate scheme was rejected with an
// authentication status; the run cannot proceed.
var ErrAuthExhausted = errors.New("no authentication scheme accepted by camera")

// execute sends the request, resolving the authentication scheme first if
// needed. The pending command request doubles as the probe, so the first
// command pays for negotiation and later ones ride the pinned scheme.
func (c *CameraClient) execute(url string) (*resty.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// No credentials: send plainly, never probe. A 401 is then an
	// ordinary HTTP failure reported by the caller.
	if c.opts.Username == "" && c.opts.Password == "" {
		return c.httpFor(schemeNone).R().Get(url)
	}

	if c.resolved != "" {
		// Already negotiated this run. If credentials were invalidated
		// server-side meanwhile, the error surfaces like any other
		// HTTP failure; there is no re-probe.
		return c.httpFor(c.resolved).R().Get(url)
	}

	candidates := c.candidates()
	var rejected []driver.AuthScheme
	for _, scheme := range candidates {
		resp, err := c.httpFor(scheme).R().Get(url)
		if err != nil {
			if scheme == driver.AuthDigest && isDigestChallengeErr(err) {
				// Basic-only firmware answers the digest preflight
				// with a challenge the transport cannot parse. That
				// is an auth rejection, not a transport failure.
				c.log.Debug().Err(err).Msg("digest authentication rejected")
				rejected = append(rejected, scheme)
				continue
			}
			// Timeouts, refused connections and the like are not
			// authentication signals; stop probing immediately.
			return nil, err
		}

		code := resp.StatusCode()
		// 403 is read as an auth signal exactly like 401. A camera
		// that 403s for unrelated reasons (IP allow-listing) is
		// misread here and drives the probe to exhaustion; kept as is
		// for compatibility with fielded units.
		if code == http.StatusUnauthorized || code == http.StatusForbidden {
			c.log.Debug().Int("status", code).Str("scheme", string(scheme)).
				Msg("authentication scheme rejected")
			rejected = append(rejected, scheme)
			continue
		}

		// Any other status means the scheme was accepted, even if the
		// request itself failed; the caller judges the status.
		c.resolved = scheme
		c.log.Debug().Str("scheme", string(scheme)).Msg("authentication scheme resolved")
		if len(rejected) > 0 {
			c.log.Warn().Msgf(
				"camera accepted %s auth after rejecting %v; pass --auth %s to skip probing on future runs",
				scheme, rejected, scheme)
		}
		return resp, nil
	}

	return nil, fmt.Errorf("%w (tried %v)", ErrAuthExhausted, candidates)
}

// candidates returns the scheme probe order. An explicit operator choice
// pins a single candidate; no silent fallback overrides it.
func (c *CameraClient) candidates() []driver.AuthScheme {
	switch c.opts.Auth {
	case string(driver.AuthBasic):
		return []driver.AuthScheme{driver.AuthBasic}
	case string(driver.AuthDigest):
		return []driver.AuthScheme{driver.AuthDigest}
	default:
		return c.drv.Def.PreferredAuthOrder()
	}
}

// isDigestChallengeErr matches the digest transport's challenge-parse
// failures ("digest: challenge is bad" and friends), which wrap into the
// request error when the server offers no usable Digest challenge.
func isDigestChallengeErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "digest:")
}
