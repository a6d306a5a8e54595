package status

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/identityops/idctl/observe"
)

// Inspector performs on-demand single-resource inspections. It is not part
// of the comprehensive sweep.
type Inspector interface {
	Inspect(ctx context.Context, resourceType, resourceID string) (ResourceInspectionStatus, error)
}

// Orchestrator owns the checker registry, the run configuration and the
// executor. It schedules checkers concurrently or sequentially, isolates
// their failures and assembles Reports.
type Orchestrator struct {
	cfg       CheckConfig
	exec      *Executor
	logger    observe.Logger
	tracer    observe.Tracer
	metrics   observe.Metrics
	inspector Inspector

	mu       sync.RWMutex
	checkers map[CheckName]Checker
	order    []CheckName
	failures map[CheckName]FailureRecord
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the structured logger.
func WithLogger(l observe.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithTracer sets the span tracer.
func WithTracer(t observe.Tracer) Option {
	return func(o *Orchestrator) { o.tracer = t }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m observe.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithInspector sets the on-demand resource inspector.
func WithInspector(i Inspector) Option {
	return func(o *Orchestrator) { o.inspector = i }
}

// NewOrchestrator creates an orchestrator. An invalid configuration is
// rejected here, before any checker can run.
func NewOrchestrator(cfg CheckConfig, opts ...Option) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &Orchestrator{
		cfg:      cfg,
		logger:   observe.NewNopLogger(),
		tracer:   observe.NewNopTracer(),
		metrics:  observe.NewNopMetrics(),
		checkers: make(map[CheckName]Checker),
		failures: make(map[CheckName]FailureRecord),
	}
	for _, opt := range opts {
		opt(o)
	}

	o.exec = NewExecutor(cfg)
	o.exec.OnRetry = func(check CheckName, attempt int, err error) {
		meta := observe.CheckMeta{Name: string(check)}
		o.metrics.RecordRetry(context.Background(), meta)
		o.logger.Warn(context.Background(), "retrying check",
			observe.Field{Key: "check.name", Value: string(check)},
			observe.Field{Key: "check.attempt", Value: attempt},
			observe.Field{Key: "error", Value: err.Error()},
		)
	}
	return o, nil
}

// Register adds a checker. Re-registering a name replaces it.
func (o *Orchestrator) Register(c Checker) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, exists := o.checkers[c.Name()]; !exists {
		o.order = append(o.order, c.Name())
	}
	o.checkers[c.Name()] = c
}

// AvailableChecks returns the registered checker names.
func (o *Orchestrator) AvailableChecks() []CheckName {
	o.mu.RLock()
	defer o.mu.RUnlock()
	names := make([]CheckName, len(o.order))
	copy(names, o.order)
	return names
}

// Config returns the run configuration.
func (o *Orchestrator) Config() CheckConfig {
	return o.cfg
}

// Comprehensive runs all five checkers and assembles the report. It never
// returns an error for collaborator failures; only a missing checker
// registration, which is a programming error, fails the call.
func (o *Orchestrator) Comprehensive(ctx context.Context) (*Report, error) {
	checkers, err := o.snapshotAll()
	if err != nil {
		return nil, err
	}

	o.resetFailures()
	report := newReport()
	start := time.Now()

	if o.cfg.Parallel {
		o.runParallel(ctx, checkers, report)
	} else {
		o.runSequential(ctx, checkers, report)
	}

	report.CheckDurationSeconds = time.Since(start).Seconds()
	report.Failures = o.ComponentFailures()

	o.logger.Info(ctx, "status sweep completed",
		observe.Field{Key: "report.id", Value: report.ID},
		observe.Field{Key: "report.overall", Value: report.Overall().String()},
		observe.Field{Key: "report.duration_s", Value: report.CheckDurationSeconds},
		observe.Field{Key: "report.failures", Value: len(report.Failures)},
	)
	return report, nil
}

// Specific runs exactly one named checker and returns its result directly.
// An unrecognized name is a caller error.
func (o *Orchestrator) Specific(ctx context.Context, name CheckName) (Result, error) {
	o.mu.RLock()
	c, ok := o.checkers[name]
	o.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCheck, name)
	}

	o.resetFailures()
	res, rec := o.runOne(ctx, c)
	if rec != nil {
		o.recordFailure(*rec)
	}
	return res, nil
}

// InspectResource runs the on-demand inspector through the executor, so it
// gets the same timeout, retry and failure-conversion treatment as the
// sweep checkers.
func (o *Orchestrator) InspectResource(ctx context.Context, resourceType, resourceID string) (ResourceInspectionStatus, error) {
	if o.inspector == nil {
		return ResourceInspectionStatus{}, ErrNoInspector
	}

	checker := NewCheckerFunc(CheckResource,
		func(ctx context.Context) (Result, error) {
			return o.inspector.Inspect(ctx, resourceType, resourceID)
		},
		func(level Level, message string) Result {
			return ResourceInspectionStatus{Header: Header{Level: level, Message: message}}
		},
	)

	o.resetFailures()
	res, rec := o.runOne(ctx, checker)
	if rec != nil {
		o.recordFailure(*rec)
	}
	return res.(ResourceInspectionStatus), nil
}

// ComponentFailures returns a copy of the failures recorded during the most
// recent orchestration call.
func (o *Orchestrator) ComponentFailures() map[CheckName]FailureRecord {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make(map[CheckName]FailureRecord, len(o.failures))
	for k, v := range o.failures {
		out[k] = v
	}
	return out
}

// HasComponentFailures reports whether the most recent orchestration call
// recorded any failure.
func (o *Orchestrator) HasComponentFailures() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.failures) > 0
}

// snapshotAll returns the five sweep checkers, erroring on any gap.
func (o *Orchestrator) snapshotAll() (map[CheckName]Checker, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make(map[CheckName]Checker, len(checkOrder))
	for _, name := range checkOrder {
		c, ok := o.checkers[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrCheckerNotRegistered, name)
		}
		out[name] = c
	}
	return out, nil
}

func (o *Orchestrator) resetFailures() {
	o.mu.Lock()
	o.failures = make(map[CheckName]FailureRecord)
	o.mu.Unlock()
}

func (o *Orchestrator) recordFailure(rec FailureRecord) {
	o.mu.Lock()
	o.failures[rec.Check] = rec
	o.mu.Unlock()
}

// runSequential runs checkers in the fixed order, each finishing (including
// its retries) before the next starts.
func (o *Orchestrator) runSequential(ctx context.Context, checkers map[CheckName]Checker, report *Report) {
	for _, name := range checkOrder {
		res, rec := o.runOne(ctx, checkers[name])
		report.setSlot(res)
		if rec != nil {
			o.recordFailure(*rec)
		}
	}
}

// runParallel launches every checker, bounded by MaxConcurrent. The
// WaitGroup join always waits for all checkers regardless of individual
// failure; a slow or failing checker never cancels its siblings.
func (o *Orchestrator) runParallel(ctx context.Context, checkers map[CheckName]Checker, report *Report) {
	sem := semaphore.NewWeighted(int64(o.cfg.MaxConcurrent))
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for _, name := range checkOrder {
		c := checkers[name]
		wg.Add(1)
		go func() {
			defer wg.Done()

			var (
				res Result
				rec *FailureRecord
			)
			if err := sem.Acquire(ctx, 1); err != nil {
				res = c.Fallback(LevelConnectionFailed, fmt.Sprintf("%s check canceled: %s", c.Name(), err))
				rec = &FailureRecord{
					Check:      c.Name(),
					Kind:       "timeout",
					Message:    err.Error(),
					OccurredAt: time.Now().UTC(),
				}
			} else {
				res, rec = o.runOne(ctx, c)
				sem.Release(1)
			}

			mu.Lock()
			report.setSlot(res)
			mu.Unlock()
			if rec != nil {
				o.recordFailure(*rec)
			}
		}()
	}

	wg.Wait()
}

// runOne wraps one executor run with a span, metrics and logging.
func (o *Orchestrator) runOne(ctx context.Context, c Checker) (Result, *FailureRecord) {
	meta := observe.CheckMeta{Name: string(c.Name())}
	ctx, span := o.tracer.StartSpan(ctx, meta)
	start := time.Now()

	res, rec := o.exec.Run(ctx, c)

	var err error
	if rec != nil {
		err = errors.New(rec.Message)
	}
	o.metrics.RecordCheck(ctx, meta, time.Since(start), rec != nil)
	o.tracer.EndSpan(span, err)

	if rec != nil {
		o.logger.Warn(ctx, "check degraded",
			observe.Field{Key: "check.name", Value: string(c.Name())},
			observe.Field{Key: "check.kind", Value: rec.Kind},
			observe.Field{Key: "check.level", Value: res.Severity().String()},
			observe.Field{Key: "error", Value: rec.Message},
		)
	} else {
		o.logger.Debug(ctx, "check completed",
			observe.Field{Key: "check.name", Value: string(c.Name())},
			observe.Field{Key: "check.level", Value: res.Severity().String()},
			observe.Field{Key: "check.duration", Value: time.Since(start).String()},
		)
	}
	return res, rec
}
