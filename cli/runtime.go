package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/identityops/idctl/checks"
	"github.com/identityops/idctl/credentials"
	"github.com/identityops/idctl/identity"
	"github.com/identityops/idctl/observe"
	"github.com/identityops/idctl/status"
)

// runtime bundles everything a command needs to drive the orchestrator.
// It is built per invocation and torn down by close.
type runtime struct {
	profile *Profile
	obs     observe.Observer
	clients identity.Clients
	orch    *status.Orchestrator
	orphans *checks.OrphanDetector
}

// newRuntime loads the profile, stands up telemetry and clients, and wires
// the five checkers into an orchestrator. override lets a command apply
// flag-level adjustments to the check configuration before validation.
func newRuntime(ctx context.Context, override func(*status.CheckConfig)) (*runtime, error) {
	p, err := loadProfile(profilePath)
	if err != nil {
		return nil, err
	}

	obs, err := observe.NewObserver(ctx, p.observeConfig(buildVersion, effectiveLogLevel()))
	if err != nil {
		return nil, fmt.Errorf("cli: observer setup: %w", err)
	}

	clients, err := newClients(ctx, p)
	if err != nil {
		shutdownObserver(obs)
		return nil, err
	}

	cfg := p.checkConfig()
	if override != nil {
		override(&cfg)
	}

	metrics, err := observe.NewMetrics(obs.Meter())
	if err != nil {
		shutdownObserver(obs)
		return nil, fmt.Errorf("cli: metrics setup: %w", err)
	}

	opts := checks.Options{
		Clients:         clients,
		InstanceARN:     p.InstanceARN,
		IdentityStoreID: p.IdentityStoreID,
		Logger:          obs.Logger(),
	}

	orch, err := status.NewOrchestrator(cfg,
		status.WithLogger(obs.Logger()),
		status.WithTracer(observe.NewTracer(obs.Tracer())),
		status.WithMetrics(metrics),
		status.WithInspector(checks.NewResourceInspector(opts)),
	)
	if err != nil {
		shutdownObserver(obs)
		return nil, err
	}

	orphans := checks.NewOrphanDetector(opts)
	orch.Register(checks.NewHealthChecker(opts, tokenProvider(p)))
	orch.Register(checks.NewProvisioningChecker(opts))
	orch.Register(orphans)
	orch.Register(checks.NewSyncMonitor(opts))
	orch.Register(checks.NewSummaryCollector(opts))

	return &runtime{
		profile: p,
		obs:     obs,
		clients: clients,
		orch:    orch,
		orphans: orphans,
	}, nil
}

func (r *runtime) close() {
	shutdownObserver(r.obs)
}

func shutdownObserver(obs observe.Observer) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = obs.Shutdown(ctx)
}

// tokenProvider reads the profile's access token file on demand so health
// checks can report token expiry. Returns nil when no file is configured.
func tokenProvider(p *Profile) checks.TokenProvider {
	if p.AccessTokenFile == "" {
		return nil
	}
	return func(_ context.Context) (*credentials.TokenInfo, error) {
		raw, err := os.ReadFile(p.AccessTokenFile)
		if err != nil {
			return nil, fmt.Errorf("cli: read access token: %w", err)
		}
		return credentials.Parse(strings.TrimSpace(string(raw)))
	}
}
