// Package errors provides structured error handling with i18n support.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Annotation errors
	CodeInvalidGrammar Code = "INVALID_GRAMMAR"
	CodeInvalidValue   Code = "INVALID_VALUE"

	// Token errors
	CodeSecurityFailure Code = "SECURITY_FAILURE"

	// Document errors
	CodeNotFound           Code = "NOT_FOUND"
	CodeDocumentUnreadable Code = "DOCUMENT_UNREADABLE"
	CodeResultExists       Code = "RESULT_EXISTS"
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
)

// IsAnnotationFault reports whether the code describes a defect in the
// annotations themselves rather than in reading them.
func (c Code) IsAnnotationFault() bool {
	switch c {
	case CodeInvalidGrammar, CodeInvalidValue:
		return true
	default:
		return false
	}
}
