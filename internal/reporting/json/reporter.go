package json

import (
	"context"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/driftgate/driftgate/internal/core/domain"
	"github.com/driftgate/driftgate/internal/core/ports"
	apperrors "github.com/driftgate/driftgate/internal/errors"
)

const ReporterTypeJSON = "json"

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

type Config struct {
	Pretty bool `yaml:"pretty" mapstructure:"pretty"`
}

// Reporter emits the report as a single JSON document on stdout so CI
// pipelines can parse the verdict without scraping human-oriented text.
type Reporter struct {
	config Config
	writer io.Writer
	logger ports.Logger
}

func NewReporter(cfg Config, logger ports.Logger) (*Reporter, error) {
	return &Reporter{
		config: cfg,
		writer: os.Stdout,
		logger: logger,
	}, nil
}

func (r *Reporter) Report(ctx context.Context, report *domain.ReconciliationReport) error {
	return r.emit(ctx, report)
}

func (r *Reporter) ReportCleanup(ctx context.Context, report *domain.CleanupReport) error {
	return r.emit(ctx, report)
}

func (r *Reporter) emit(ctx context.Context, payload any) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var (
		data []byte
		err  error
	)
	if r.config.Pretty {
		data, err = codec.MarshalIndent(payload, "", "  ")
	} else {
		data, err = codec.Marshal(payload)
	}
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to encode report")
	}

	data = append(data, '\n')
	if _, err := r.writer.Write(data); err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to write report")
	}
	return nil
}
