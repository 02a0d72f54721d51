package app

import (
	"strconv"
	"strings"

	"github.com/driftgate/driftgate/internal/config"
	"github.com/driftgate/driftgate/internal/core/ports"
)

// applyGateOverride parses a command-line threshold override of the
// form 'replica_skew_tolerance=1;max_active_revisions=3' and applies
// the recognized keys in place. Unknown keys and non-numeric values
// are skipped with a warning.
func applyGateOverride(gate *config.GateConfig, override string, logger ports.Logger) {
	for _, pair := range strings.Split(override, ";") {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			logger.Warnf(nil, "Skipping invalid gate override format: %s", pair)
			continue
		}

		key := strings.TrimSpace(parts[0])
		value, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || value < 0 {
			logger.Warnf(nil, "Skipping gate override '%s': value must be a non-negative integer", pair)
			continue
		}

		switch key {
		case "replica_skew_tolerance":
			gate.ReplicaSkewTolerance = value
		case "max_active_revisions":
			gate.MaxActiveRevisions = value
		default:
			logger.Warnf(nil, "Ignoring unknown gate override key '%s'", key)
		}
	}
}
