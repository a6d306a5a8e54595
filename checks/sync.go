package checks

import (
	"context"
	"fmt"
	"time"

	"github.com/identityops/idctl/status"
)

// defaultStaleAfter is how old a provider's last successful sync may be
// before it counts as degraded.
const defaultStaleAfter = 24 * time.Hour

// SyncMonitor reports the state of the external synchronization providers
// feeding the identity store.
type SyncMonitor struct {
	opts Options

	// StaleAfter overrides the staleness threshold. Zero means the default.
	StaleAfter time.Duration
}

// NewSyncMonitor creates the sync monitor.
func NewSyncMonitor(opts Options) *SyncMonitor {
	return &SyncMonitor{opts: opts}
}

// Name implements status.Checker.
func (m *SyncMonitor) Name() status.CheckName { return status.CheckSync }

// Fallback implements status.Checker.
func (m *SyncMonitor) Fallback(level status.Level, message string) status.Result {
	return status.SyncStatus{
		Header: status.Header{Level: level, Message: message},
	}
}

// Check implements status.Checker.
func (m *SyncMonitor) Check(ctx context.Context) (status.Result, error) {
	inst, err := m.opts.instance(ctx)
	if err != nil {
		return nil, err
	}

	sources, err := m.opts.Clients.Admin.ListSyncSources(ctx, inst.InstanceARN)
	if err != nil {
		return nil, err
	}

	staleAfter := m.StaleAfter
	if staleAfter <= 0 {
		staleAfter = defaultStaleAfter
	}

	now := time.Now().UTC()
	ss := status.SyncStatus{
		Providers:           make([]status.SyncProvider, 0, len(sources)),
		ProvidersConfigured: len(sources),
	}

	failed := 0
	for _, src := range sources {
		p := status.SyncProvider{
			Name:         src.Name,
			Type:         src.Type,
			SyncStatus:   src.SyncStatus,
			LastSyncTime: src.LastSyncTime,
			NextSyncTime: src.NextSyncTime,
			ErrorMessage: src.ErrorMessage,
		}
		if src.DurationMinutes > 0 {
			d := src.DurationMinutes
			p.DurationMinutes = &d
		}
		if src.ObjectsSynced > 0 {
			n := src.ObjectsSynced
			p.ObjectsSynced = &n
		}

		stale := src.LastSyncTime != nil && now.Sub(*src.LastSyncTime) > staleAfter
		switch {
		case src.SyncStatus == "FAILED" || src.ErrorMessage != "":
			failed++
			ss.ProvidersWithErrors++
		case stale:
			if p.ErrorMessage == "" {
				p.ErrorMessage = fmt.Sprintf("last successful sync %s ago", now.Sub(*src.LastSyncTime).Round(time.Minute))
			}
			ss.ProvidersWithErrors++
		default:
			ss.ProvidersHealthy++
		}
		ss.Providers = append(ss.Providers, p)
	}

	switch {
	case len(sources) == 0:
		ss.Level = status.LevelHealthy
		ss.Message = "no sync providers configured"
	case failed == len(sources):
		ss.Level = status.LevelCritical
		ss.Message = "all sync providers failing"
	case ss.ProvidersWithErrors > 0:
		ss.Level = status.LevelWarning
		ss.Message = fmt.Sprintf("%d of %d sync providers degraded", ss.ProvidersWithErrors, len(sources))
	default:
		ss.Level = status.LevelHealthy
		ss.Message = fmt.Sprintf("%d sync providers healthy", ss.ProvidersHealthy)
	}
	return ss, nil
}
