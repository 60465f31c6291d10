// Package services contains application use cases.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/reglet-dev/recast/internal/application/dto"
	apperrors "github.com/reglet-dev/recast/internal/application/errors"
	"github.com/reglet-dev/recast/internal/application/ports"
	"github.com/reglet-dev/recast/internal/domain/diagnostics"
	"github.com/reglet-dev/recast/internal/engine"
)

// ConvertDocumentsUseCase converts a batch of documents.
// Documents are independent; each is read, converted and written on its own.
type ConvertDocumentsUseCase struct {
	converter ports.DocumentConverter
	reader    ports.DocumentReader
	writer    ports.DocumentWriter
	redactor  ports.Redactor
	logger    *slog.Logger
}

// NewConvertDocumentsUseCase creates a new convert use case. A nil redactor
// leaves report text as is.
func NewConvertDocumentsUseCase(
	converter ports.DocumentConverter,
	reader ports.DocumentReader,
	writer ports.DocumentWriter,
	redactor ports.Redactor,
	logger *slog.Logger,
) *ConvertDocumentsUseCase {
	if logger == nil {
		logger = slog.Default()
	}

	return &ConvertDocumentsUseCase{
		converter: converter,
		reader:    reader,
		writer:    writer,
		redactor:  redactor,
		logger:    logger,
	}
}

// Execute converts every input. Only an invalid request returns an error;
// a document that cannot be read, parsed, or written gets a failed entry
// and the others are still converted.
func (uc *ConvertDocumentsUseCase) Execute(ctx context.Context, req dto.ConvertRequest) (*dto.ConvertResponse, error) {
	startTime := time.Now()

	if err := uc.validate(req); err != nil {
		return nil, err
	}

	limit := req.Options.Parallelism
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	uc.logger.Info("converting documents", "count", len(req.Inputs), "parallelism", limit, "check", req.Options.Check)

	results := make([]dto.DocumentResult, len(req.Inputs))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, input := range req.Inputs {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = uc.convertOne(gCtx, req, input)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("conversion cancelled: %w", err)
	}

	resp := &dto.ConvertResponse{
		Documents: results,
		Metadata: dto.ResponseMetadata{
			RequestID:   req.Metadata.RequestID,
			ProcessedAt: time.Now(),
			Duration:    time.Since(startTime),
		},
	}
	for _, d := range results {
		if d.Result != nil {
			resp.Summary.Merge(d.Result.Report.Summary)
		}
	}

	uc.logger.Info("conversion complete",
		"duration", resp.Metadata.Duration,
		"documents", len(results),
		"failed", resp.Failures(),
		"messages", resp.Summary.Total,
		"rule_faults", resp.Summary.Error)
	return resp, nil
}

func (uc *ConvertDocumentsUseCase) validate(req dto.ConvertRequest) error {
	if len(req.Inputs) == 0 {
		return apperrors.NewValidationError("inputs", "no documents to convert")
	}
	if !req.Options.Check && req.OutputDir == "" {
		return apperrors.NewValidationError("output_dir", "an output directory is required unless checking")
	}
	seen := make(map[string]string, len(req.Inputs))
	var dups []string
	for _, input := range req.Inputs {
		name := filepath.Base(input)
		if prev, ok := seen[name]; ok {
			dups = append(dups, fmt.Sprintf("%s and %s", prev, input))
			continue
		}
		seen[name] = input
	}
	if len(dups) > 0 && !req.Options.Check {
		return apperrors.NewValidationError("inputs", "documents would overwrite each other in the output directory", dups...)
	}
	return nil
}

func (uc *ConvertDocumentsUseCase) convertOne(ctx context.Context, req dto.ConvertRequest, input string) dto.DocumentResult {
	out := dto.DocumentResult{Input: input}
	fail := func(err error) dto.DocumentResult {
		uc.logger.Error("document failed", "input", input, "error", err)
		out.Err = apperrors.NewConversionError(input, err)
		return out
	}

	data, err := uc.reader.Read(ctx, input)
	if err != nil {
		return fail(err)
	}

	var opts []engine.CallOption
	if req.Options.Tenant != nil {
		opts = append(opts, engine.WithTenant(*req.Options.Tenant))
	}
	res, err := uc.converter.Convert(data, opts...)
	if err != nil {
		return fail(err)
	}
	uc.scrub(res.Report)
	out.Result = res

	uc.logger.Debug("document converted",
		"input", input,
		"id", res.ID.String(),
		"messages", res.Report.Summary.Total,
		"highest", res.Report.Highest().String())

	if req.Options.Check {
		return out
	}
	path, err := uc.writer.Write(ctx, req.OutputDir, filepath.Base(input), res.Document)
	if err != nil {
		out.Result = nil
		return fail(err)
	}
	out.Output = path
	return out
}

// scrub removes secrets from the report text. Documents are written as
// converted; only the report is scrubbed.
func (uc *ConvertDocumentsUseCase) scrub(report *diagnostics.Report) {
	if uc.redactor == nil {
		return
	}
	report.Rewrite(func(m *diagnostics.Message) {
		m.Text = uc.redactor.ScrubString(m.Text)
		m.Original = uc.redactor.ScrubString(m.Original)
		m.Translated = uc.redactor.ScrubString(m.Translated)
	})
}
