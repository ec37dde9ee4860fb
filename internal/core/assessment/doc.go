// Package assessment extracts graded checkpoints from document annotations
// and reduces them to a weighted overall grade.
//
// Two annotation forms are recognized:
//
//	CHECKPOINT( WEIGHT=7, GRADE=A-, FEEDBACK=[clear argument, weak sources])
//	GRADEMAPPING( A+=97, A=95, B=85, F=67)
//
// Everything in this package is a pure function of its inputs. A GradeMapping
// belongs to the scan of a single document and is never shared across
// documents.
package assessment
