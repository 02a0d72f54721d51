// Package terraform adapts the provisioning engine's CLI to the narrow
// state-store surface the gate needs: list, lookup, import, remove, and
// reading the pending plan. The engine owns the state; nothing here
// creates or destroys live resources.
package terraform

import (
	"context"
	"os/exec"

	"github.com/hashicorp/terraform-exec/tfexec"
	tfjson "github.com/hashicorp/terraform-json"

	"github.com/driftgate/driftgate/internal/core/ports"
	"github.com/driftgate/driftgate/internal/errors"
)

type Config struct {
	// Dir is the working directory holding the engine configuration.
	Dir string `yaml:"dir" mapstructure:"dir" validate:"required"`

	// ExecPath points at the engine binary; resolved from PATH when empty.
	ExecPath string `yaml:"exec_path" mapstructure:"exec_path"`

	// PlanFile is the pending plan artifact, when the pipeline saved one.
	PlanFile string `yaml:"plan_file" mapstructure:"plan_file"`
}

// engineCLI is the slice of tfexec.Terraform the adapter uses. The
// variadic option parameters match tfexec so the real client satisfies
// the interface unmodified.
type engineCLI interface {
	Show(ctx context.Context, opts ...tfexec.ShowOption) (*tfjson.State, error)
	Import(ctx context.Context, address, id string, opts ...tfexec.ImportOption) error
	StateRm(ctx context.Context, address string, opts ...tfexec.StateRmCmdOption) error
	ShowPlanFile(ctx context.Context, planPath string, opts ...tfexec.ShowOption) (*tfjson.Plan, error)
}

// NewCLI locates the engine binary and binds it to the working
// directory. An unopenable engine is ToolingUnavailable: the run must
// abort before classification rather than degrade per key.
func NewCLI(cfg Config, logger ports.Logger) (*tfexec.Terraform, error) {
	execPath := cfg.ExecPath
	if execPath == "" {
		found, err := exec.LookPath("terraform")
		if err != nil {
			return nil, errors.WrapUserFacing(err, errors.CodeToolingUnavailable,
				"provisioning engine binary not found on PATH",
				"Install terraform or set engine.exec_path.")
		}
		execPath = found
	}

	tf, err := tfexec.NewTerraform(cfg.Dir, execPath)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeToolingUnavailable, "failed to initialize provisioning engine CLI")
	}

	logger.Debugf(nil, "Provisioning engine CLI ready: dir=%s exec=%s", cfg.Dir, execPath)
	return tf, nil
}
