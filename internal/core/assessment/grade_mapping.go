package assessment

import (
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/jgram/internal/platform/errors"
)

// GradeMapping resolves grade letters (for example "A+") to numeric grades.
// Letters are stored as given; callers normalize case before Set and Get.
type GradeMapping struct {
	letters []string
	values  map[string]int
}

// NewGradeMapping returns an empty mapping.
func NewGradeMapping() *GradeMapping {
	return &GradeMapping{values: map[string]int{}}
}

// DefaultGradeMapping returns the table used when a document declares none.
func DefaultGradeMapping() *GradeMapping {
	m := NewGradeMapping()
	for _, entry := range []struct {
		letter string
		value  int
	}{
		{"A+", 97},
		{"A", 95},
		{"A-", 93},
		{"B+", 87},
		{"B", 85},
		{"B-", 83},
		{"C+", 77},
		{"C", 75},
		{"C-", 73},
		{"F", 67},
	} {
		m.letters = append(m.letters, entry.letter)
		m.values[entry.letter] = entry.value
	}
	return m
}

// Set registers or overwrites the value for letter. The first insertion
// position of a letter is kept on overwrite.
func (m *GradeMapping) Set(letter string, value int) error {
	if strings.TrimSpace(letter) == "" {
		return apperrors.WithMetadata(apperrors.CodeInvalidValue, "empty grade letter is not permitted", map[string]string{
			"Field": "grade letter",
		})
	}
	if m.values == nil {
		m.values = map[string]int{}
	}
	if _, exists := m.values[letter]; !exists {
		m.letters = append(m.letters, letter)
	}
	m.values[letter] = value
	return nil
}

// Get returns the value registered for letter.
func (m *GradeMapping) Get(letter string) (int, error) {
	if m != nil {
		if value, ok := m.values[letter]; ok {
			return value, nil
		}
	}
	return 0, apperrors.WithMetadata(apperrors.CodeInvalidValue, fmt.Sprintf("missing grade %s mapping", letter), map[string]string{
		"Field":  "grade",
		"Letter": letter,
		"Value":  letter,
	})
}

// Len returns the number of letters in the mapping.
func (m *GradeMapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.letters)
}

// Letters returns the letters in insertion order.
func (m *GradeMapping) Letters() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.letters))
	copy(out, m.letters)
	return out
}

// Clone returns an independent copy of the mapping.
func (m *GradeMapping) Clone() *GradeMapping {
	out := NewGradeMapping()
	if m == nil {
		return out
	}
	out.letters = m.Letters()
	for letter, value := range m.values {
		out.values[letter] = value
	}
	return out
}
