package integrity

import (
	"strings"

	"github.com/louisbranch/jgram/internal/core/assessment"
	apperrors "github.com/louisbranch/jgram/internal/platform/errors"
)

// Status is the tamper classification of one document.
type Status string

const (
	StatusValid        Status = "VALID"
	StatusTampered     Status = "TAMPERED"
	StatusUndetermined Status = "UNDETERMINED"
)

// Verdict is the outcome of comparing a recomputed result with the signed one.
type Verdict struct {
	Status Status
	// Computed is set when the annotations could be evaluated.
	Computed *assessment.Result
	// Signed is set when the stored token decoded successfully.
	Signed *assessment.Result
	// Err explains any status other than VALID.
	Err error
	// TokenErr is set when a stored token failed to decode, whatever the
	// annotations said.
	TokenErr error
}

// Classify compares a freshly computed result with the stored token.
//
// A compute error from the annotations themselves means they were edited
// after signing; any other compute error leaves the document undetermined.
// An empty token means the document was never graded.
func Classify(computed assessment.Result, computeErr error, token string, cfg TokenConfig) Verdict {
	var verdict Verdict

	token = strings.TrimSpace(token)
	var decodeErr error
	if token != "" {
		signed, err := Decode(token, cfg)
		if err == nil {
			verdict.Signed = &signed
		}
		decodeErr = err
		verdict.TokenErr = err
	}

	switch {
	case computeErr != nil:
		verdict.Err = computeErr
		if apperrors.CodeOf(computeErr).IsAnnotationFault() {
			verdict.Status = StatusTampered
		} else {
			verdict.Status = StatusUndetermined
		}
		return verdict
	case token == "":
		verdict.Computed = &computed
		verdict.Status = StatusUndetermined
		verdict.Err = apperrors.New(apperrors.CodeNotFound, "result token not found")
		return verdict
	}

	verdict.Computed = &computed
	switch {
	case decodeErr != nil:
		verdict.Status = StatusTampered
		verdict.Err = decodeErr
	case !verdict.Signed.Equal(computed):
		verdict.Status = StatusTampered
		verdict.Err = apperrors.New(apperrors.CodeSecurityFailure, "annotations do not match the signed result")
	default:
		verdict.Status = StatusValid
	}
	return verdict
}
