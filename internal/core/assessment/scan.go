package assessment

import "fmt"

// ScanConfig carries the per-call settings for Scan.
type ScanConfig struct {
	Bounds Bounds
	// Defaults is the mapping a document starts with. It is cloned per scan
	// and never mutated; nil means DefaultGradeMapping.
	Defaults *GradeMapping
}

// Annotations is the outcome of scanning one document's comments.
type Annotations struct {
	// Checkpoints in acceptance order.
	Checkpoints []Checkpoint
	// Mapping is the grade mapping active at the end of the scan.
	Mapping *GradeMapping
	// Recognized counts checkpoint and grade mapping annotations together.
	Recognized int
}

// Scan walks comments in document order, ignoring anything that is not a
// checkpoint or grade mapping annotation. A grade mapping annotation
// replaces the active mapping for every checkpoint after it. The first
// invalid annotation stops the scan.
func Scan(comments []string, cfg ScanConfig) (Annotations, error) {
	var mapping *GradeMapping
	if cfg.Defaults != nil {
		mapping = cfg.Defaults.Clone()
	} else {
		mapping = DefaultGradeMapping()
	}

	out := Annotations{Mapping: mapping}
	for _, comment := range comments {
		switch {
		case IsCheckpoint(comment):
			out.Recognized++
			checkpoint, err := ParseCheckpoint(comment, out.Recognized, out.Mapping, cfg.Bounds)
			if err != nil {
				return Annotations{}, fmt.Errorf("scan annotations: %w", err)
			}
			out.Checkpoints = append(out.Checkpoints, checkpoint)
		case IsGradeMapping(comment):
			out.Recognized++
			parsed, err := ParseGradeMapping(comment, out.Recognized)
			if err != nil {
				return Annotations{}, fmt.Errorf("scan annotations: %w", err)
			}
			out.Mapping = parsed
		}
	}
	return out, nil
}
