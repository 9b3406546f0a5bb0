package admission

import (
	"fmt"
	"net/url"
)

// OriginDecision is the per-request verdict of the origin gate. It is
// derived fresh on every request and never stored.
type OriginDecision struct {
	Valid  bool
	Reason string
}

// OriginValidator rejects cross-site state-changing requests by
// comparing the Origin (preferred) or Referer header host against the
// deployment's canonical host.
type OriginValidator struct {
	expectedHost string
}

// NewOriginValidator parses the canonical application URL. An empty URL
// leaves the expected host unset; validation then falls back to the
// request's own Host header, which only proves the headers are
// self-consistent. Deployments must set the canonical URL for the check
// to mean anything.
func NewOriginValidator(appURL string) (*OriginValidator, error) {
	v := &OriginValidator{}
	if appURL == "" {
		return v, nil
	}
	parsed, err := url.Parse(appURL)
	if err != nil {
		return nil, fmt.Errorf("parse app url: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("app url %q has no host", appURL)
	}
	v.expectedHost = parsed.Host
	return v, nil
}

// WeakMode reports whether the validator is running without a configured
// canonical host.
func (v *OriginValidator) WeakMode() bool {
	return v.expectedHost == ""
}

// Validate checks a request's origin. Only state-changing methods are
// examined; everything else passes. A mutating request carrying neither
// an Origin nor a Referer header is rejected: legitimate browser fetches
// always send at least one.
func (v *OriginValidator) Validate(method, origin, referer, requestHost string) OriginDecision {
	switch method {
	case "POST", "PUT", "DELETE", "PATCH":
	default:
		return OriginDecision{Valid: true}
	}

	expected := v.expectedHost
	if expected == "" {
		expected = requestHost
	}

	if origin != "" {
		host, err := hostOf(origin)
		if err != nil || host != expected {
			return OriginDecision{Valid: false, Reason: "invalid origin: " + origin}
		}
		return OriginDecision{Valid: true}
	}

	if referer != "" {
		host, err := hostOf(referer)
		if err != nil || host != expected {
			return OriginDecision{Valid: false, Reason: "invalid referer: " + referer}
		}
		return OriginDecision{Valid: true}
	}

	return OriginDecision{Valid: false, Reason: "missing origin and referer headers"}
}

// hostOf extracts the authority component of a header URL. Comparison is
// scheme-agnostic and exact, no subdomain matching.
func hostOf(raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("no host in %q", raw)
	}
	return parsed.Host, nil
}
