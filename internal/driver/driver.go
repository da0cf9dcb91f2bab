// Package driver holds the per-vendor camera definitions: capability flags,
// URL templates and the encoders that turn a normalized command into the
// vendor's CGI request path. Everything here is pure URL construction;
// network I/O lives in internal/client.
package driver

import (
	"fmt"
	"strings"
)

// AuthScheme identifies an HTTP authentication scheme a camera may accept.
type AuthScheme string

const (
	AuthBasic  AuthScheme = "basic"
	AuthDigest AuthScheme = "digest"
)

// DefaultAuthOrder is the probe order used when a definition does not
// override it. Most current firmware prefers Digest.
var DefaultAuthOrder = []AuthScheme{AuthDigest, AuthBasic}

// Definition describes one camera family: which commands it supports and
// how to encode them. Definitions are immutable after registration.
//
// Encoders return a path (with query string) relative to the resolved API
// URL. A nil encoder means the family does not implement that command.
type Definition struct {
	Name     string
	HasTally bool

	// APIURL is the control endpoint template; "{ip}" is substituted at
	// Resolve time.
	APIURL string

	// RTSPURLs lists the camera's stream endpoints, in declared order.
	// Empty means the model declares no RTSP stream.
	RTSPURLs []string

	// AuthOrder overrides DefaultAuthOrder for firmware known to
	// misbehave on Digest instead of cleanly rejecting it.
	AuthOrder []AuthScheme

	TallyPath  func(on bool) string
	PresetPath func(arg string) (string, error)
}

// PreferredAuthOrder returns the probe order for this family.
func (d *Definition) PreferredAuthOrder() []AuthScheme {
	if len(d.AuthOrder) > 0 {
		return d.AuthOrder
	}
	return DefaultAuthOrder
}

// Resolve binds the definition to a camera address, expanding every URL
// template once. The returned Driver is immutable.
func (d *Definition) Resolve(ip string) *Driver {
	rtsp := make([]string, len(d.RTSPURLs))
	for i, tmpl := range d.RTSPURLs {
		rtsp[i] = expand(tmpl, ip)
	}
	return &Driver{
		Def:     d,
		BaseURL: expand(d.APIURL, ip),
		rtsp:    rtsp,
	}
}

func expand(tmpl, ip string) string {
	return strings.ReplaceAll(tmpl, "{ip}", ip)
}

// Driver is a Definition bound to one camera address.
type Driver struct {
	Def     *Definition
	BaseURL string
	rtsp    []string
}

// TallyURL builds the full request URL for switching the tally light.
func (d *Driver) TallyURL(on bool) (string, error) {
	if !d.Def.HasTally || d.Def.TallyPath == nil {
		return "", fmt.Errorf("%w: %s has no tally light", ErrUnsupportedCapability, d.Def.Name)
	}
	return d.BaseURL + d.Def.TallyPath(on), nil
}

// PresetURL builds the full request URL for recalling a preset. The raw CLI
// argument is validated here so malformed input never reaches the network.
func (d *Driver) PresetURL(arg string) (string, error) {
	if d.Def.PresetPath == nil {
		return "", fmt.Errorf("%w: %s has no preset recall", ErrUnsupportedCapability, d.Def.Name)
	}
	path, err := d.Def.PresetPath(arg)
	if err != nil {
		return "", err
	}
	return d.BaseURL + path, nil
}

// RTSP returns the resolved stream URLs in declared order. The slice is
// copied so callers cannot mutate driver state.
func (d *Driver) RTSP() []string {
	out := make([]string, len(d.rtsp))
	copy(out, d.rtsp)
	return out
}
