// Package pipeline runs one report generation: read, classify, aggregate, write.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"remasep/internal/config"
	"remasep/internal/ingest"
	"remasep/internal/report"
	"remasep/internal/stats"
	"remasep/internal/visit"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrNoVisits is returned when no record survives filtering.
var ErrNoVisits = errors.New("no visits to report")

// Run is the immutable context of one invocation.
type Run struct {
	ID           uuid.UUID
	InputPath    string
	TemplatePath string
	SheetName    string
	OutputDir    string
	Prefix       string
	Layout       report.Layout
	Reader       ingest.Options
}

// NewRun binds an input file to the loaded configuration.
func NewRun(cfg *config.AppConfig, inputPath string) Run {
	return Run{
		ID:           uuid.New(),
		InputPath:    inputPath,
		TemplatePath: cfg.TemplatePath,
		SheetName:    cfg.SheetName,
		OutputDir:    cfg.OutputDir,
		Prefix:       cfg.ReportPrefix,
		Layout:       report.DefaultLayout(),
		Reader: ingest.Options{
			Columns:             cfg.Columns,
			RejectedDisposition: cfg.RejectedDisposition,
		},
	}
}

// Analysis is the in-memory outcome of classification and aggregation.
type Analysis struct {
	Summaries      stats.Summaries   `json:"summaries"`
	Diagnostics    stats.Diagnostics `json:"diagnostics"`
	FirstAdmission time.Time         `json:"firstAdmission"`
	LastAdmission  time.Time         `json:"lastAdmission"`
}

// Result describes a finished run.
type Result struct {
	RunID      string `json:"runId"`
	OutputPath string `json:"outputPath"`
	Analysis
}

// Process classifies and aggregates already-read records. It performs no I/O.
func Process(records []visit.Record) (*Analysis, error) {
	classified, diag := stats.Normalize(records)
	first, last, ok := stats.AdmissionRange(classified)
	if !ok {
		return nil, fmt.Errorf("%w: %d records read, %d excluded", ErrNoVisits, diag.Total, diag.ExcludedNonVisits)
	}
	return &Analysis{
		Summaries:      stats.Summarize(classified),
		Diagnostics:    diag,
		FirstAdmission: first,
		LastAdmission:  last,
	}, nil
}

// Analyze reads the input and aggregates it without touching the template.
func Analyze(ctx context.Context, run Run) (*Analysis, error) {
	records, err := ingest.ReadFile(run.InputPath, run.Reader)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Process(records)
}

// Generate runs the whole pipeline and saves one report document. Nothing is
// written to the output directory unless every stage succeeds.
func Generate(ctx context.Context, run Run) (*Result, error) {
	logger := log.With().Str("run_id", run.ID.String()).Logger()
	logger.Info().Str("input", run.InputPath).Str("template", run.TemplatePath).Msg("Starting report run")

	writer, err := report.NewWriter(run.Layout)
	if err != nil {
		return nil, err
	}

	analysis, err := Analyze(ctx, run)
	if err != nil {
		return nil, err
	}
	logDiagnostics(logger.Info(), analysis.Diagnostics)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	wb, err := report.OpenTemplate(run.TemplatePath, run.SheetName)
	if err != nil {
		return nil, err
	}
	if err := writer.Write(wb.Sheet(), analysis.Summaries); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(run.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	dest := filepath.Join(run.OutputDir, report.Filename(run.Prefix, analysis.FirstAdmission, analysis.LastAdmission))
	if err := wb.SaveAtomic(dest); err != nil {
		return nil, err
	}

	logger.Info().Str("output", dest).Msg("Report run complete")
	return &Result{RunID: run.ID.String(), OutputPath: dest, Analysis: *analysis}, nil
}

func logDiagnostics(e *zerolog.Event, d stats.Diagnostics) {
	e.Int("total", d.Total).
		Int("excludedNonVisits", d.ExcludedNonVisits).
		Int("ageFailures", d.AgeFailures).
		Int("timeFailures", d.TimeFailures).
		Int("sexFailures", d.SexFailures).
		Int("triageFailures", d.TriageFailures).
		Int("unmappedSpecialties", len(d.UnmappedSpecialties)).
		Msg("Classified visit records")
}
