package grading

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/louisbranch/jgram/internal/integrity"
)

const (
	defaultWorkers = 4
	tracerName     = "github.com/louisbranch/jgram/internal/grading"
)

// Opener loads the document stored at path.
type Opener func(path string) (Document, error)

// Runner applies a Grader to a batch of documents in parallel.
type Runner struct {
	Grader  Grader
	Open    Opener
	Workers int
	Logger  *slog.Logger
	Tracer  trace.Tracer
}

// GradeOutcome is the result of grading one document.
type GradeOutcome struct {
	Path   string
	Name   string
	Graded Graded
	Err    error
}

// VerifyOutcome is the result of verifying one document.
type VerifyOutcome struct {
	Path    string
	Name    string
	Verdict integrity.Verdict
}

// CheckOutcome is the result of checking one document.
type CheckOutcome struct {
	Path    string
	Name    string
	Checked Checked
}

// Grade grades every document. Outcomes are in the order of paths.
func (r Runner) Grade(ctx context.Context, paths []string) ([]GradeOutcome, error) {
	return runEach(ctx, r, "grade", paths, func(ctx context.Context, path string) (GradeOutcome, string, error) {
		out := GradeOutcome{Path: path, Name: path}
		doc, err := r.Open(path)
		if err != nil {
			out.Err = err
			return out, "FAILURE", err
		}
		out.Name = doc.Name()
		out.Graded, out.Err = r.Grader.Grade(ctx, doc)
		if out.Err != nil {
			return out, "FAILURE", out.Err
		}
		return out, "SUCCESS", nil
	})
}

// Verify runs the tamper test on every document.
func (r Runner) Verify(ctx context.Context, paths []string) ([]VerifyOutcome, error) {
	return runEach(ctx, r, "verify", paths, func(ctx context.Context, path string) (VerifyOutcome, string, error) {
		out := VerifyOutcome{Path: path, Name: path}
		doc, err := r.Open(path)
		if err != nil {
			out.Verdict = integrity.Verdict{Status: integrity.StatusUndetermined, Err: err}
			return out, string(out.Verdict.Status), err
		}
		out.Name = doc.Name()
		out.Verdict = r.Grader.Verify(ctx, doc)
		return out, string(out.Verdict.Status), out.Verdict.Err
	})
}

// Check runs the new-document test on every document.
func (r Runner) Check(ctx context.Context, paths []string) ([]CheckOutcome, error) {
	return runEach(ctx, r, "check", paths, func(ctx context.Context, path string) (CheckOutcome, string, error) {
		out := CheckOutcome{Path: path, Name: path}
		doc, err := r.Open(path)
		if err != nil {
			out.Checked = Checked{Status: CheckUndetermined, Err: err}
			return out, string(out.Checked.Status), err
		}
		out.Name = doc.Name()
		out.Checked = r.Grader.Check(ctx, doc)
		return out, string(out.Checked.Status), out.Checked.Err
	})
}

// runEach processes paths with at most r.Workers documents in flight. A
// document failure is recorded in its outcome; only cancellation of ctx
// stops the batch.
func runEach[T any](ctx context.Context, r Runner, task string, paths []string, process func(context.Context, string) (T, string, error)) ([]T, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := r.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	workers := r.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	runID := uuid.NewString()
	logger = logger.With("run_id", runID, "task", task)
	logger.Info("batch started", "documents", len(paths), "workers", workers)

	outcomes := make([]T, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			spanCtx, span := tracer.Start(gctx, "jgram."+task, trace.WithAttributes(
				attribute.String("jgram.run_id", runID),
				attribute.String("jgram.document", path),
			))
			defer span.End()

			outcome, status, err := process(spanCtx, path)
			outcomes[i] = outcome
			span.SetAttributes(attribute.String("jgram.status", status))
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, status)
				logger.Warn("document processed", "document", path, "status", status, "error", err)
				return nil
			}
			logger.Info("document processed", "document", path, "status", status)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	logger.Info("batch finished", "documents", len(paths))
	return outcomes, nil
}
