package api

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// SupportedAPIVersions is the backend version range this client speaks.
const SupportedAPIVersions = ">= 1.0.0, < 3.0.0"

// Health is the /health response.
type Health struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Health returns the backend status.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	if err := c.getJSON(ctx, "/health", nil, &h); err != nil {
		return Health{}, err
	}
	return h, nil
}

// CheckCompatibility fetches /health and verifies the backend version falls
// in SupportedAPIVersions. A backend that reports no version is accepted.
func (c *Client) CheckCompatibility(ctx context.Context) (Health, error) {
	h, err := c.Health(ctx)
	if err != nil {
		return Health{}, err
	}
	if h.Version == "" {
		return h, nil
	}
	if err = CheckVersion(h.Version); err != nil {
		return h, err
	}
	return h, nil
}

// CheckVersion reports whether version satisfies SupportedAPIVersions.
func CheckVersion(version string) error {
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w: unparsable version %q: %w", ErrIncompatible, version, err)
	}
	constraint, err := semver.NewConstraint(SupportedAPIVersions)
	if err != nil {
		return fmt.Errorf("parsing supported range: %w", err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("%w: backend %s, supported %s", ErrIncompatible, v, SupportedAPIVersions)
	}
	return nil
}
