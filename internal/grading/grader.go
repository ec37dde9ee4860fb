// Package grading runs the three document tasks: grading a document,
// verifying a graded document against its token, and checking that a new
// document carries no checkpoints yet.
package grading

import (
	"context"
	"fmt"

	"github.com/louisbranch/jgram/internal/core/assessment"
	"github.com/louisbranch/jgram/internal/integrity"
	apperrors "github.com/louisbranch/jgram/internal/platform/errors"
)

// Document is the container a graded assignment lives in.
type Document interface {
	Name() string
	// Comments lists every comment text in document order.
	Comments(ctx context.Context) ([]string, error)
	// ResultToken returns the token of an existing result table.
	ResultToken(ctx context.Context) (token string, found bool, err error)
	// WriteResultTable appends the result table. It fails with
	// RESULT_EXISTS when the document already has one.
	WriteResultTable(ctx context.Context, result assessment.Result, token string) error
}

// Grader holds the policy applied to each document.
type Grader struct {
	Scan      assessment.ScanConfig
	Evaluator assessment.Evaluator
	Token     integrity.TokenConfig
}

// Graded is a signed grading result.
type Graded struct {
	Result assessment.Result
	Token  string
}

func (g Grader) evaluator() assessment.Evaluator {
	if g.Evaluator == nil {
		return assessment.WeightedEvaluator{}
	}
	return g.Evaluator
}

func (g Grader) compute(ctx context.Context, doc Document) (assessment.Result, error) {
	comments, err := doc.Comments(ctx)
	if err != nil {
		return assessment.Result{}, fmt.Errorf("read comments of %s: %w", doc.Name(), err)
	}
	annotations, err := assessment.Scan(comments, g.Scan)
	if err != nil {
		return assessment.Result{}, fmt.Errorf("%s: %w", doc.Name(), err)
	}
	return g.evaluator().Evaluate(annotations.Checkpoints), nil
}

// Grade evaluates doc, signs the result and writes the result table.
func (g Grader) Grade(ctx context.Context, doc Document) (Graded, error) {
	result, err := g.compute(ctx, doc)
	if err != nil {
		return Graded{}, err
	}
	token, err := integrity.Sign(result, g.Token)
	if err != nil {
		return Graded{}, fmt.Errorf("sign %s: %w", doc.Name(), err)
	}
	if err := doc.WriteResultTable(ctx, result, token); err != nil {
		return Graded{}, fmt.Errorf("write result of %s: %w", doc.Name(), err)
	}
	return Graded{Result: result, Token: token}, nil
}

// Verify recomputes doc's result and classifies it against the stored token.
func (g Grader) Verify(ctx context.Context, doc Document) integrity.Verdict {
	computed, computeErr := g.compute(ctx, doc)

	token, found, err := doc.ResultToken(ctx)
	if err != nil {
		return integrity.Verdict{
			Status: integrity.StatusUndetermined,
			Err:    fmt.Errorf("read result token of %s: %w", doc.Name(), err),
		}
	}
	if !found {
		token = ""
	}
	return integrity.Classify(computed, computeErr, token, g.Token)
}

// CheckStatus is the outcome of checking a new document.
type CheckStatus string

const (
	CheckValid        CheckStatus = "VALID"
	CheckInvalid      CheckStatus = "IN-VALID"
	CheckUndetermined CheckStatus = "UNDETERMINED"
)

// Checked is the outcome of Check.
type Checked struct {
	Status      CheckStatus
	Checkpoints int
	Err         error
}

// Check reports whether doc is ready to be handed out: a new document must
// not contain checkpoints yet. Any error leaves it undetermined.
func (g Grader) Check(ctx context.Context, doc Document) Checked {
	comments, err := doc.Comments(ctx)
	if err != nil {
		return Checked{Status: CheckUndetermined, Err: fmt.Errorf("read comments of %s: %w", doc.Name(), err)}
	}
	annotations, err := assessment.Scan(comments, g.Scan)
	if err != nil {
		return Checked{Status: CheckUndetermined, Err: fmt.Errorf("%s: %w", doc.Name(), err)}
	}
	if n := len(annotations.Checkpoints); n > 0 {
		return Checked{
			Status:      CheckInvalid,
			Checkpoints: n,
			Err: apperrors.WithMetadata(apperrors.CodeInvalidArgument,
				fmt.Sprintf("%s contains %d checkpoint(s)", doc.Name(), n),
				map[string]string{"Reason": fmt.Sprintf("document contains %d checkpoint(s); make sure they are not graded", n)}),
		}
	}
	return Checked{Status: CheckValid}
}
