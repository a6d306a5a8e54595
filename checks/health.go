package checks

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/identityops/idctl/credentials"
	"github.com/identityops/idctl/status"
)

// TokenProvider supplies the cached access token diagnostics, when a
// credential profile is configured.
type TokenProvider func(ctx context.Context) (*credentials.TokenInfo, error)

// HealthChecker probes the three remote collaborators and reports
// connectivity, availability and response time.
type HealthChecker struct {
	opts  Options
	token TokenProvider

	mu          sync.Mutex
	lastSuccess *time.Time
}

// NewHealthChecker creates the connectivity checker. token may be nil.
func NewHealthChecker(opts Options, token TokenProvider) *HealthChecker {
	return &HealthChecker{opts: opts, token: token}
}

// Name implements status.Checker.
func (c *HealthChecker) Name() status.CheckName { return status.CheckHealth }

// Fallback implements status.Checker.
func (c *HealthChecker) Fallback(level status.Level, message string) status.Result {
	c.mu.Lock()
	last := c.lastSuccess
	c.mu.Unlock()
	return status.HealthStatus{
		Header:              status.Header{Level: level, Message: message},
		ServiceAvailable:    false,
		ConnectivityStatus:  "unreachable",
		LastSuccessfulCheck: last,
	}
}

// probe is one named connectivity test.
type probe struct {
	name string
	call func(ctx context.Context) error
}

// Check implements status.Checker. It probes the admin API, the identity
// store and the organizations API. When every probe fails the error is
// returned so the executor can retry; partial failure degrades to Warning.
func (c *HealthChecker) Check(ctx context.Context) (status.Result, error) {
	inst, err := c.opts.instance(ctx)
	if err != nil {
		return nil, err
	}

	probes := []probe{
		{"identity-center", func(ctx context.Context) error {
			_, err := c.opts.Clients.Admin.ListInstances(ctx)
			return err
		}},
		{"identity-store", func(ctx context.Context) error {
			_, _, err := c.opts.Clients.Store.ListUsers(ctx, inst.IdentityStoreID, "")
			return err
		}},
		{"organizations", func(ctx context.Context) error {
			_, _, err := c.opts.Clients.Orgs.ListAccounts(ctx, "")
			return err
		}},
	}

	var (
		probeErrs []string
		firstErr  error
		worstMS   float64
	)
	for _, p := range probes {
		start := time.Now()
		err := p.call(ctx)
		elapsed := float64(time.Since(start).Microseconds()) / 1000.0
		if elapsed > worstMS {
			worstMS = elapsed
		}
		if err != nil {
			probeErrs = append(probeErrs, fmt.Sprintf("%s: %s", p.name, err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if len(probeErrs) == len(probes) {
		// Nothing reachable; let the executor classify and retry.
		return nil, firstErr
	}

	now := time.Now().UTC()
	connectivity := c.connectivity(ctx, len(probes), len(probeErrs), now)

	hs := status.HealthStatus{
		ServiceAvailable:   true,
		ConnectivityStatus: connectivity,
		ResponseTimeMS:     &worstMS,
		Errors:             probeErrs,
	}

	if len(probeErrs) > 0 {
		hs.Level = status.LevelWarning
		hs.Message = fmt.Sprintf("%d of %d identity endpoints unreachable", len(probeErrs), len(probes))
		c.mu.Lock()
		hs.LastSuccessfulCheck = c.lastSuccess
		c.mu.Unlock()
		return hs, nil
	}

	hs.Level = status.LevelHealthy
	hs.Message = "all identity endpoints reachable"
	c.mu.Lock()
	c.lastSuccess = &now
	hs.LastSuccessfulCheck = &now
	c.mu.Unlock()
	return hs, nil
}

// connectivity renders the connectivity summary, including token expiry
// when a token provider is configured.
func (c *HealthChecker) connectivity(ctx context.Context, total, failed int, now time.Time) string {
	var parts []string
	if failed == 0 {
		parts = append(parts, fmt.Sprintf("%d/%d endpoints reachable", total, total))
	} else {
		parts = append(parts, fmt.Sprintf("%d/%d endpoints reachable", total-failed, total))
	}

	if c.token != nil {
		info, err := c.token(ctx)
		switch {
		case err != nil:
			parts = append(parts, "access token unavailable")
		case info != nil:
			parts = append(parts, info.Describe(now))
		}
	}
	return strings.Join(parts, "; ")
}
