package assessment

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	apperrors "github.com/louisbranch/jgram/internal/platform/errors"
)

// Annotation markers. A comment is meaningful only when its trimmed text
// starts with one of them.
const (
	CheckpointMarker   = "CHECKPOINT("
	GradeMappingMarker = "GRADEMAPPING("
)

const (
	keyWeight   = "weight"
	keyGrade    = "grade"
	keyFeedback = "feedback"
)

// Bounds are the inclusive ranges a checkpoint's weight and grade must fall in.
type Bounds struct {
	MinWeight int
	MaxWeight int
	MinGrade  int
	MaxGrade  int
}

// DefaultBounds returns weight 1..10 and grade 1..100.
func DefaultBounds() Bounds {
	return Bounds{MinWeight: 1, MaxWeight: 10, MinGrade: 1, MaxGrade: 100}
}

// IsCheckpoint reports whether text is a checkpoint annotation.
func IsCheckpoint(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), CheckpointMarker)
}

// IsGradeMapping reports whether text is a grade mapping annotation.
func IsGradeMapping(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), GradeMappingMarker)
}

// ParseCheckpoint parses a CHECKPOINT annotation. seq is the annotation's
// 1-based position among recognized annotations and is used only in errors.
// Letter grades are resolved through mapping; a nil mapping means
// DefaultGradeMapping.
func ParseCheckpoint(text string, seq int, mapping *GradeMapping, bounds Bounds) (Checkpoint, error) {
	if mapping == nil {
		mapping = DefaultGradeMapping()
	}
	body, ok := annotationBody(text)
	if !ok {
		return Checkpoint{}, grammarError("checkpoint", seq, "")
	}

	feedback, rest, ok := extractFeedback(body)
	if !ok {
		return Checkpoint{}, grammarError("checkpoint", seq, "")
	}

	if !utf8.ValidString(feedback) {
		return Checkpoint{}, apperrors.WithMetadata(apperrors.CodeInvalidValue,
			fmt.Sprintf("checkpoint %d: feedback is not valid UTF-8", seq),
			map[string]string{
				"Sequence": strconv.Itoa(seq),
				"Field":    keyFeedback,
			})
	}

	checkpoint := Checkpoint{Feedback: feedback}
	var seenWeight, seenGrade, seenFeedback bool
	for _, token := range strings.Split(rest, ",") {
		rawKey, rawValue, found := strings.Cut(token, "=")
		if !found {
			return Checkpoint{}, grammarError("checkpoint", seq, "")
		}
		key := strings.ToLower(strings.TrimSpace(rawKey))
		value := strings.TrimSpace(rawValue)

		switch key {
		case keyWeight:
			weight, err := strconv.Atoi(value)
			if err != nil {
				return Checkpoint{}, apperrors.WithMetadata(apperrors.CodeInvalidValue,
					fmt.Sprintf("checkpoint %d: weight %q is not a number", seq, value),
					map[string]string{
						"Sequence": strconv.Itoa(seq),
						"Field":    keyWeight,
						"Value":    value,
					})
			}
			checkpoint.Weight = weight
			seenWeight = true
		case keyGrade:
			grade, err := resolveGrade(value, seq, mapping)
			if err != nil {
				return Checkpoint{}, err
			}
			checkpoint.Grade = grade
			seenGrade = true
		case keyFeedback:
			seenFeedback = true
		}
	}

	switch {
	case !seenWeight:
		return Checkpoint{}, grammarError("checkpoint", seq, keyWeight)
	case !seenGrade:
		return Checkpoint{}, grammarError("checkpoint", seq, keyGrade)
	case !seenFeedback:
		return Checkpoint{}, grammarError("checkpoint", seq, keyFeedback)
	}

	if err := validateRange(seq, keyWeight, checkpoint.Weight, bounds.MinWeight, bounds.MaxWeight); err != nil {
		return Checkpoint{}, err
	}
	if err := validateRange(seq, keyGrade, checkpoint.Grade, bounds.MinGrade, bounds.MaxGrade); err != nil {
		return Checkpoint{}, err
	}
	return checkpoint, nil
}

// ParseGradeMapping parses a GRADEMAPPING annotation into a new mapping.
// Entries whose value is not an integer are skipped.
func ParseGradeMapping(text string, seq int) (*GradeMapping, error) {
	body, ok := annotationBody(text)
	if !ok {
		return nil, grammarError("grade mapping", seq, "")
	}

	mapping := NewGradeMapping()
	for _, token := range strings.Split(body, ",") {
		rawKey, rawValue, found := strings.Cut(token, "=")
		if !found {
			return nil, grammarError("grade mapping", seq, "")
		}
		value, err := strconv.Atoi(strings.TrimSpace(rawValue))
		if err != nil {
			continue
		}
		letter := normalizeLetter(rawKey)
		if err := mapping.Set(letter, value); err != nil {
			return nil, apperrors.WithMetadata(apperrors.CodeInvalidValue,
				fmt.Sprintf("grade mapping %d: empty grade letter", seq),
				map[string]string{
					"Sequence": strconv.Itoa(seq),
					"Field":    "grade letter",
				})
		}
	}
	return mapping, nil
}

// annotationBody returns the trimmed text between the first "(" and the
// first ")". ok is false when either is missing or the body is blank.
func annotationBody(text string) (string, bool) {
	text = strings.TrimSpace(text)
	start := strings.Index(text, "(")
	end := strings.Index(text, ")")
	if start < 0 || end < start {
		return "", false
	}
	body := strings.TrimSpace(text[start+1 : end])
	return body, body != ""
}

// extractFeedback cuts the first [...] span out of body. The span is removed
// before the body is split on commas so that commas inside feedback survive.
func extractFeedback(body string) (feedback string, rest string, ok bool) {
	start := strings.Index(body, "[")
	if start < 0 {
		return "", body, true
	}
	length := strings.Index(body[start:], "]")
	if length < 0 {
		return "", "", false
	}
	end := start + length
	return strings.TrimSpace(body[start+1 : end]), body[:start] + body[end+1:], true
}

func resolveGrade(value string, seq int, mapping *GradeMapping) (int, error) {
	if grade, err := strconv.Atoi(value); err == nil {
		return grade, nil
	}
	letter := normalizeLetter(value)
	grade, err := mapping.Get(letter)
	if err != nil {
		return 0, apperrors.WithMetadata(apperrors.CodeInvalidValue,
			fmt.Sprintf("checkpoint %d: grade %q has no mapping", seq, letter),
			map[string]string{
				"Sequence": strconv.Itoa(seq),
				"Field":    keyGrade,
				"Value":    letter,
				"Letter":   letter,
			})
	}
	return grade, nil
}

func normalizeLetter(value string) string {
	// Casers carry state, so one is built per call.
	return cases.Upper(language.Und).String(strings.TrimSpace(value))
}

func validateRange(seq int, field string, value, lo, hi int) error {
	if value >= lo && value <= hi {
		return nil
	}
	return apperrors.WithMetadata(apperrors.CodeInvalidValue,
		fmt.Sprintf("checkpoint %d: %s %d outside range %d-%d", seq, field, value, lo, hi),
		map[string]string{
			"Sequence": strconv.Itoa(seq),
			"Field":    field,
			"Value":    strconv.Itoa(value),
			"Min":      strconv.Itoa(lo),
			"Max":      strconv.Itoa(hi),
		})
}

func grammarError(kind string, seq int, missing string) error {
	message := fmt.Sprintf("%s %d: invalid grammar", kind, seq)
	metadata := map[string]string{"Sequence": strconv.Itoa(seq)}
	if missing != "" {
		message += ", missing " + missing
		metadata["Field"] = missing
	}
	return apperrors.WithMetadata(apperrors.CodeInvalidGrammar, message, metadata)
}
