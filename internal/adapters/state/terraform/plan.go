package terraform

import (
	"context"

	"github.com/driftgate/driftgate/internal/core/ports"
	"github.com/driftgate/driftgate/internal/errors"
)

// PlanReader reads the pipeline's saved plan artifact and surfaces the
// addresses scheduled for destroy-and-recreate. The namespace check
// runs against this before any per-key lookup.
type PlanReader struct {
	cli      engineCLI
	planFile string
	logger   ports.Logger
}

func NewPlanReader(cli engineCLI, planFile string, logger ports.Logger) (*PlanReader, error) {
	if cli == nil {
		return nil, errors.New(errors.CodeConfigValidation, "engine CLI cannot be nil")
	}
	return &PlanReader{cli: cli, planFile: planFile, logger: logger}, nil
}

func (p *PlanReader) ScheduledReplacements(ctx context.Context) ([]string, error) {
	if p.planFile == "" {
		return nil, nil
	}

	plan, err := p.cli.ShowPlanFile(ctx, p.planFile)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeToolingUnavailable, "failed to read pending plan file")
	}

	var replaced []string
	for _, change := range plan.ResourceChanges {
		if change == nil || change.Change == nil {
			continue
		}
		if change.Change.Actions.Replace() {
			replaced = append(replaced, change.Address)
		}
	}

	p.logger.Debugf(ctx, "Pending plan schedules %d replacements", len(replaced))
	return replaced, nil
}
