// Package rubric loads the grading rubric: the accepted weight and grade
// ranges, the default grade mapping and the token claims.
package rubric

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/louisbranch/jgram/internal/core/assessment"
	"github.com/louisbranch/jgram/internal/integrity"
	apperrors "github.com/louisbranch/jgram/internal/platform/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Rubric is the grading policy for a batch of documents.
//
//	weight: {min: 1, max: 10}
//	grade: {min: 1, max: 100}
//	grade_mapping:
//	  - {letter: A, value: 95}
//	token: {issuer: BU-MET, subject: JGram}
type Rubric struct {
	Weight       WeightRange `yaml:"weight"`
	Grade        GradeRange  `yaml:"grade"`
	GradeMapping []Letter    `yaml:"grade_mapping" validate:"omitempty,dive"`
	Token        Token       `yaml:"token"`
}

// WeightRange bounds checkpoint weights. The minimum is at least 1 so a
// non-empty document never has a zero total weight.
type WeightRange struct {
	Min int `yaml:"min" validate:"gte=1"`
	Max int `yaml:"max" validate:"gtefield=Min"`
}

// GradeRange bounds checkpoint grades.
type GradeRange struct {
	Min int `yaml:"min" validate:"gte=0"`
	Max int `yaml:"max" validate:"gtefield=Min"`
}

// Letter is one grade mapping entry.
type Letter struct {
	Letter string `yaml:"letter" validate:"required"`
	Value  int    `yaml:"value"`
}

// Token overrides the registered claims of result tokens.
type Token struct {
	Issuer  string `yaml:"issuer"`
	Subject string `yaml:"subject"`
}

// Default returns weight 1..10, grade 1..100, the built-in grade mapping
// and the default token claims.
func Default() Rubric {
	return Rubric{
		Weight: WeightRange{Min: 1, Max: 10},
		Grade:  GradeRange{Min: 1, Max: 100},
		Token:  Token{Issuer: integrity.DefaultIssuer, Subject: integrity.DefaultSubject},
	}
}

// Load reads a rubric file. Sections missing from the file keep their
// Default values.
func Load(path string) (Rubric, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Rubric{}, apperrors.WrapWithMetadata(apperrors.CodeNotFound,
				fmt.Sprintf("rubric %s not found", path),
				map[string]string{"Path": path}, err)
		}
		return Rubric{}, fmt.Errorf("read rubric %s: %w", path, err)
	}
	r, err := Parse(bytes.NewReader(data))
	if err != nil {
		return Rubric{}, fmt.Errorf("rubric %s: %w", path, err)
	}
	return r, nil
}

// Parse decodes and validates a rubric document.
func Parse(r io.Reader) (Rubric, error) {
	out := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&out); err != nil && !errors.Is(err, io.EOF) {
		return Rubric{}, apperrors.WrapWithMetadata(apperrors.CodeInvalidArgument,
			"decode rubric",
			map[string]string{"Reason": err.Error()}, err)
	}
	if err := out.Validate(); err != nil {
		return Rubric{}, err
	}
	return out, nil
}

// Validate checks ranges and grade mapping entries.
func (r Rubric) Validate() error {
	if err := validate.Struct(r); err != nil {
		return apperrors.WrapWithMetadata(apperrors.CodeInvalidArgument,
			"invalid rubric",
			map[string]string{"Reason": validationReason(err)}, err)
	}
	seen := map[string]bool{}
	for _, entry := range r.GradeMapping {
		letter := strings.ToUpper(strings.TrimSpace(entry.Letter))
		if seen[letter] {
			reason := fmt.Sprintf("grade letter %s is listed twice", letter)
			return apperrors.WithMetadata(apperrors.CodeInvalidArgument, "invalid rubric: "+reason,
				map[string]string{"Reason": reason})
		}
		seen[letter] = true
	}
	return nil
}

func validationReason(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, fmt.Sprintf("%s fails %s", fe.Namespace(), fe.ActualTag()))
	}
	return strings.Join(parts, "; ")
}

// Bounds returns the checkpoint ranges.
func (r Rubric) Bounds() assessment.Bounds {
	return assessment.Bounds{
		MinWeight: r.Weight.Min,
		MaxWeight: r.Weight.Max,
		MinGrade:  r.Grade.Min,
		MaxGrade:  r.Grade.Max,
	}
}

// Mapping returns the grade mapping documents start with. An empty list
// means the built-in mapping.
func (r Rubric) Mapping() (*assessment.GradeMapping, error) {
	if len(r.GradeMapping) == 0 {
		return assessment.DefaultGradeMapping(), nil
	}
	m := assessment.NewGradeMapping()
	for _, entry := range r.GradeMapping {
		if err := m.Set(strings.ToUpper(strings.TrimSpace(entry.Letter)), entry.Value); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ScanConfig returns the annotation scan settings for this rubric.
func (r Rubric) ScanConfig() (assessment.ScanConfig, error) {
	mapping, err := r.Mapping()
	if err != nil {
		return assessment.ScanConfig{}, err
	}
	return assessment.ScanConfig{Bounds: r.Bounds(), Defaults: mapping}, nil
}

// TokenConfig returns the token settings for secret.
func (r Rubric) TokenConfig(secret string) integrity.TokenConfig {
	return integrity.TokenConfig{
		Secret:  secret,
		Issuer:  r.Token.Issuer,
		Subject: r.Token.Subject,
	}
}
