// Package snapshot persists the pre-apply state listing that targeted
// cleanup diffs against after a failed apply.
package snapshot

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/driftgate/driftgate/internal/core/domain"
	"github.com/driftgate/driftgate/internal/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Write renders the snapshot to path as indented JSON, replacing any
// previous snapshot atomically via a temp file rename.
func Write(path string, snap *domain.StateSnapshot) error {
	if snap == nil {
		return errors.New(errors.CodeInternal, "cannot write nil snapshot")
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to encode snapshot")
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrap(err, errors.CodeSnapshotReadError,
			fmt.Sprintf("failed to write snapshot file %s", tmp))
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrap(err, errors.CodeSnapshotReadError,
			fmt.Sprintf("failed to finalize snapshot file %s", path))
	}
	return nil
}

// Read loads a snapshot previously written by Write.
func Read(path string) (*domain.StateSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapUserFacing(err, errors.CodeSnapshotReadError,
			fmt.Sprintf("cannot read snapshot file %s", path),
			"Run the snapshot command before the apply you want to guard.")
	}

	var snap domain.StateSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.Wrap(err, errors.CodeSnapshotParseError,
			fmt.Sprintf("snapshot file %s is not valid", path))
	}
	if snap.Entries == nil {
		snap.Entries = make(map[string]domain.StateEntry)
	}
	return &snap, nil
}
