package assessment

import (
	"fmt"
	"iter"
)

// Checkpoint is one graded rubric item extracted from an annotation.
type Checkpoint struct {
	Weight   int
	Grade    int
	Feedback string
}

// String renders the checkpoint for diagnostics.
func (c Checkpoint) String() string {
	return fmt.Sprintf("Weight:%d, Grade:%d, Feedback:%s", c.Weight, c.Grade, c.Feedback)
}

// Result is the aggregate of a document's checkpoints and its overall grade.
//
// Checkpoint IDs start at 1 and follow the order in which checkpoints were
// added; they are independent of the diagnostic sequence numbers used while
// scanning annotations. The zero value is a valid empty result.
type Result struct {
	checkpoints  []Checkpoint
	OverallGrade float64
}

// Add appends a checkpoint and returns the ID it was assigned.
func (r *Result) Add(c Checkpoint) int {
	r.checkpoints = append(r.checkpoints, c)
	return len(r.checkpoints)
}

// Len returns the number of checkpoints.
func (r Result) Len() int {
	return len(r.checkpoints)
}

// Checkpoint returns the checkpoint with the given ID.
func (r Result) Checkpoint(id int) (Checkpoint, bool) {
	if id < 1 || id > len(r.checkpoints) {
		return Checkpoint{}, false
	}
	return r.checkpoints[id-1], true
}

// All yields (id, checkpoint) pairs in ID order.
func (r Result) All() iter.Seq2[int, Checkpoint] {
	return func(yield func(int, Checkpoint) bool) {
		for i, c := range r.checkpoints {
			if !yield(i+1, c) {
				return
			}
		}
	}
}

// Equal reports full structural equality. Overall grades are compared
// exactly; both sides must come from the same integer arithmetic for the
// comparison to be meaningful.
func (r Result) Equal(other Result) bool {
	if r.OverallGrade != other.OverallGrade {
		return false
	}
	if len(r.checkpoints) != len(other.checkpoints) {
		return false
	}
	for i := range r.checkpoints {
		if r.checkpoints[i] != other.checkpoints[i] {
			return false
		}
	}
	return true
}
