package assessment

// Evaluator reduces an ordered list of checkpoints to a Result.
type Evaluator interface {
	Evaluate(checkpoints []Checkpoint) Result
}

// WeightedEvaluator computes the weight-averaged grade of its checkpoints.
//
// Sums are taken over integers in input order and divided once, so the
// same checkpoints always produce the same float64 bits. Tamper
// classification relies on that when it compares overall grades exactly.
// Callers must not pass a non-empty list whose weights sum to zero.
type WeightedEvaluator struct{}

var _ Evaluator = WeightedEvaluator{}

// Evaluate returns the empty Result for an empty list.
func (WeightedEvaluator) Evaluate(checkpoints []Checkpoint) Result {
	var result Result
	if len(checkpoints) == 0 {
		return result
	}

	var weighted, total int
	for _, c := range checkpoints {
		weighted += c.Grade * c.Weight
		total += c.Weight
		result.Add(c)
	}
	result.OverallGrade = float64(weighted) / float64(total)
	return result
}
