package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/driftgate/driftgate/internal/core/domain"
	"github.com/driftgate/driftgate/internal/core/ports"
	"github.com/driftgate/driftgate/internal/errors"
)

// ReconcileEngine runs the pre-apply gate: load the desired set, observe
// both sources, classify every key, run corrective imports, then settle
// the verdict. State-store mutations are strictly sequential; only the
// read-side observation fans out.
type ReconcileEngine struct {
	loader           ports.DesiredStateLoader
	observer         ports.Observer
	corrector        *Corrector
	platform         ports.PlatformReader
	plan             ports.PlanReader
	checker          ports.AttributeChecker
	reporter         ports.Reporter
	logger           ports.Logger
	concurrency      int
	namespaceAddress string
	dryRun           bool
}

type EngineParams struct {
	Loader           ports.DesiredStateLoader
	Observer         ports.Observer
	Corrector        *Corrector
	Platform         ports.PlatformReader
	Plan             ports.PlanReader
	Checker          ports.AttributeChecker
	Reporter         ports.Reporter
	Logger           ports.Logger
	Concurrency      int
	NamespaceAddress string
	DryRun           bool
}

func NewReconcileEngine(params EngineParams) (*ReconcileEngine, error) {
	if params.Loader == nil {
		return nil, errors.New(errors.CodeConfigValidation, "desired state loader cannot be nil")
	}
	if params.Observer == nil {
		return nil, errors.New(errors.CodeConfigValidation, "observer cannot be nil")
	}
	if params.Corrector == nil {
		return nil, errors.New(errors.CodeConfigValidation, "corrector cannot be nil")
	}
	if params.Platform == nil {
		return nil, errors.New(errors.CodeConfigValidation, "platform reader cannot be nil")
	}
	if params.Reporter == nil {
		return nil, errors.New(errors.CodeConfigValidation, "reporter cannot be nil")
	}
	if params.Concurrency <= 0 {
		params.Concurrency = 10
	}

	return &ReconcileEngine{
		loader:           params.Loader,
		observer:         params.Observer,
		corrector:        params.Corrector,
		platform:         params.Platform,
		plan:             params.Plan,
		checker:          params.Checker,
		reporter:         params.Reporter,
		logger:           params.Logger,
		concurrency:      params.Concurrency,
		namespaceAddress: params.NamespaceAddress,
		dryRun:           params.DryRun,
	}, nil
}

func (e *ReconcileEngine) Run(ctx context.Context) (*domain.ReconciliationReport, error) {
	report := &domain.ReconciliationReport{
		StartedAt: time.Now().UTC(),
		DryRun:    e.dryRun,
	}

	e.logger.Infof(ctx, "Starting reconciliation run using %s desired state", e.loader.Type())

	desired, err := e.loader.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDesiredReadError, "failed loading desired state")
	}
	e.logger.Infof(ctx, "Loaded %d desired service entries", desired.Len())

	if blocked, berr := e.checkNamespaceReplacement(ctx); berr != nil {
		return nil, berr
	} else if blocked != nil {
		// The parent namespace is going away; every dependent check is moot.
		report.BlockingErrors = append(report.BlockingErrors, *blocked)
		e.finish(ctx, report)
		return report, nil
	}

	observations, err := e.observeAll(ctx, desired)
	if err != nil {
		return nil, err
	}

	records := make(map[domain.ServiceKey]*domain.DriftRecord, desired.Len())
	for _, svc := range desired.Services() {
		record := Classify(svc, observations[svc.Key])
		records[svc.Key] = &record
	}

	e.applyStructuralChecks(ctx, desired, records, report)
	e.collectObservationWarnings(desired, observations, report)
	e.runCorrectiveActions(ctx, desired, records)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.collectAttributeWarnings(ctx, desired, observations, report)

	e.aggregate(desired, records, report)
	e.finish(ctx, report)
	return report, nil
}

// checkNamespaceReplacement consults the pending plan, when one was
// supplied, for a scheduled replacement of the shared discovery
// namespace. A hit blocks the whole run before any per-key lookup.
func (e *ReconcileEngine) checkNamespaceReplacement(ctx context.Context) (*domain.BlockingError, error) {
	if e.namespaceAddress == "" || e.plan == nil {
		return nil, nil
	}

	replaced, err := e.plan.ScheduledReplacements(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeToolingUnavailable, "failed reading pending plan")
	}

	for _, address := range replaced {
		if address != e.namespaceAddress {
			continue
		}
		e.logger.Warnf(ctx, "Pending plan replaces namespace %s, blocking run", address)
		return &domain.BlockingError{
			Code: errors.CodeStructuralConflict.String(),
			Reason: fmt.Sprintf("pending plan replaces discovery namespace %s; every dependent service registration would be destroyed and recreated",
				address),
		}, nil
	}
	return nil, nil
}

func (e *ReconcileEngine) observeAll(ctx context.Context, desired *domain.DesiredSet) (map[domain.ServiceKey]domain.Observation, error) {
	observations := make(map[domain.ServiceKey]domain.Observation, desired.Len())
	var mu sync.Mutex

	g, childCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for _, svc := range desired.Services() {
		g.Go(func() error {
			obs, err := e.observer.Observe(childCtx, svc)
			if err != nil {
				return err
			}
			mu.Lock()
			observations[svc.Key] = obs
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		e.logger.Errorf(ctx, err, "observation phase aborted")
		return nil, err
	}
	e.logger.Debugf(ctx, "Observed %d keys", len(observations))
	return observations, nil
}

func (e *ReconcileEngine) applyStructuralChecks(ctx context.Context, desired *domain.DesiredSet, records map[domain.ServiceKey]*domain.DriftRecord, report *domain.ReconciliationReport) {
	conflicts := NamingCollisions(desired)

	if hasRoutedServices(desired) {
		liveRules, err := e.platform.ListenerRules(ctx)
		if err != nil {
			// Without the rules we can still detect desired-versus-desired
			// collisions; live ownership goes unchecked this run.
			e.logger.Warnf(ctx, "Listener rules unavailable, live priority check skipped: %v", err)
			report.Warnings = append(report.Warnings, domain.Warning{
				Kind:   domain.WarnRulesUnavailable,
				Detail: fmt.Sprintf("listener rules could not be listed: %v", err),
			})
		}
		conflicts = append(conflicts, PriorityCollisions(desired, liveRules)...)
	}

	if len(conflicts) > 0 {
		e.logger.Warnf(ctx, "Detected %d structural conflicts", len(conflicts))
	}
	ApplyConflicts(records, conflicts)
}

func (e *ReconcileEngine) collectObservationWarnings(desired *domain.DesiredSet, observations map[domain.ServiceKey]domain.Observation, report *domain.ReconciliationReport) {
	for _, key := range desired.Keys() {
		obs := observations[key]
		if obs.Degraded {
			for _, detail := range obs.Warnings {
				report.Warnings = append(report.Warnings, domain.Warning{
					Key:    key.String(),
					Kind:   domain.WarnDegradedLookup,
					Detail: detail,
				})
			}
			continue
		}
		if obs.Presence() == domain.PresenceStateOnly {
			report.Warnings = append(report.Warnings, domain.Warning{
				Key:  key.String(),
				Kind: domain.WarnStaleStateEntry,
				Detail: fmt.Sprintf("state entry %s has no live backing; apply will recreate the service",
					obs.StateID),
			})
		}
	}
}

// runCorrectiveActions walks the records in key order and applies each
// prescribed action one at a time. Failures are captured on the record;
// one key's failure never stops the remaining keys.
func (e *ReconcileEngine) runCorrectiveActions(ctx context.Context, desired *domain.DesiredSet, records map[domain.ServiceKey]*domain.DriftRecord) {
	for _, key := range desired.Keys() {
		if ctx.Err() != nil {
			return
		}
		record := records[key]
		if record.Action == domain.ActionNone {
			continue
		}
		svc, ok := desired.Get(key)
		if !ok {
			continue
		}
		_ = e.corrector.Apply(ctx, svc, record)
	}
}

func (e *ReconcileEngine) collectAttributeWarnings(ctx context.Context, desired *domain.DesiredSet, observations map[domain.ServiceKey]domain.Observation, report *domain.ReconciliationReport) {
	if e.checker == nil {
		return
	}
	for _, svc := range desired.Services() {
		obs := observations[svc.Key]
		if obs.Live == nil || obs.Degraded {
			continue
		}

		revisions := 0
		if obs.Live.TaskFamily != "" {
			count, err := e.platform.ActiveTaskRevisions(ctx, obs.Live.TaskFamily)
			if err != nil {
				e.logger.Debugf(ctx, "Revision count unavailable for family %s: %v", obs.Live.TaskFamily, err)
			} else {
				revisions = count
			}
		}

		report.Warnings = append(report.Warnings, e.checker.Check(ctx, svc, obs.Live, revisions)...)
	}
}

func (e *ReconcileEngine) aggregate(desired *domain.DesiredSet, records map[domain.ServiceKey]*domain.DriftRecord, report *domain.ReconciliationReport) {
	keys := desired.Keys()
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	for _, key := range keys {
		record := records[key]
		report.Records = append(report.Records, *record)

		switch {
		case record.Class == domain.ClassUnresolvableConflict:
			report.BlockingErrors = append(report.BlockingErrors, domain.BlockingError{
				Key:    key.String(),
				Code:   errors.CodeStructuralConflict.String(),
				Reason: record.Detail,
			})
		case record.Outcome == domain.OutcomeFailed:
			report.BlockingErrors = append(report.BlockingErrors, domain.BlockingError{
				Key:    key.String(),
				Code:   errors.CodeImportFailure.String(),
				Reason: record.Detail,
			})
		case record.Outcome == domain.OutcomeImported, record.Outcome == domain.OutcomeReimported:
			report.ImportedCount++
		}
	}
}

func (e *ReconcileEngine) finish(ctx context.Context, report *domain.ReconciliationReport) {
	report.FinishedAt = time.Now().UTC()
	report.Finalize()

	e.logger.Infof(ctx, "Reconciliation finished: verdict=%s imported=%d blocking=%d warnings=%d",
		report.Verdict, report.ImportedCount, len(report.BlockingErrors), len(report.Warnings))

	if err := e.reporter.Report(ctx, report); err != nil {
		e.logger.Errorf(ctx, err, "failed rendering report")
	}
}

func hasRoutedServices(desired *domain.DesiredSet) bool {
	for _, svc := range desired.Services() {
		if svc.Routing != nil {
			return true
		}
	}
	return false
}
