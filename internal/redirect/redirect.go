// Package redirect decides where the browser goes after a successful submission.
package redirect

import (
	"net/url"
	"strings"
)

// Source carries every redirect hint a backend response can provide.
type Source struct {
	JSONRedirect string // "redirect" field of a JSON body
	Redirected   bool   // the backend answered through at least one redirect
	FinalURL     string // URL of the final response when Redirected
	Location     string // Location header of the final response
}

// Policy picks a target from a Source. Absolute URLs are only followed for
// AllowedHosts; anything else falls back to Default.
type Policy struct {
	Default      string
	AllowedHosts []string
}

func New(def string, allowedHosts ...string) Policy {
	return Policy{Default: def, AllowedHosts: allowedHosts}
}

// Resolve returns the first usable candidate in priority order: JSON
// redirect, final URL after redirects, Location header, then the default.
// A candidate that fails sanitizing is skipped, not followed.
func (p Policy) Resolve(src Source) string {
	candidates := []string{src.JSONRedirect}
	if src.Redirected {
		candidates = append(candidates, src.FinalURL)
	}
	candidates = append(candidates, src.Location)

	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if target, ok := p.sanitize(c); ok {
			return target
		}
	}
	return p.fallback()
}

func (p Policy) fallback() string {
	if p.Default == "" {
		return "/"
	}
	return p.Default
}

// sanitize reduces target to a local path. Absolute URLs on an allowed host
// keep only their path, query and fragment.
func (p Policy) sanitize(target string) (string, bool) {
	// Browsers treat backslashes as slashes, so "/\evil.com" is protocol relative.
	if strings.Contains(target, "\\") {
		return "", false
	}
	u, err := url.Parse(target)
	if err != nil {
		return "", false
	}

	switch {
	case u.Scheme == "" && u.Host == "":
		if strings.HasPrefix(target, "//") {
			return "", false
		}
	case u.Scheme == "http" || u.Scheme == "https":
		if !p.allowed(u.Hostname()) {
			return "", false
		}
	default:
		return "", false
	}

	local := &url.URL{Path: u.Path, RawPath: u.RawPath, RawQuery: u.RawQuery, Fragment: u.Fragment}
	out := local.String()
	if out == "" || out[0] == '?' || out[0] == '#' {
		out = "/" + out
	} else if !strings.HasPrefix(out, "/") {
		out = "/" + out
	}
	return out, true
}

func (p Policy) allowed(host string) bool {
	for _, h := range p.AllowedHosts {
		if strings.EqualFold(h, host) {
			return true
		}
	}
	return false
}

// HostOf returns the host name of rawURL, or "" when it has none.
func HostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
