package assessment

import (
	"testing"

	apperrors "github.com/louisbranch/jgram/internal/platform/errors"
)

func TestParseCheckpoint(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Checkpoint
	}{
		{
			name: "comma inside feedback",
			text: "CHECKPOINT( WEIGHT=7, GRADE=97, FEEDBACK=[foo, bar])",
			want: Checkpoint{Weight: 7, Grade: 97, Feedback: "foo, bar"},
		},
		{
			name: "letter grade from default mapping",
			text: "CHECKPOINT( WEIGHT=5, GRADE=A, FEEDBACK=[])",
			want: Checkpoint{Weight: 5, Grade: 95},
		},
		{
			name: "lower case letter and keys",
			text: "  CHECKPOINT( weight=2, grade=b+, feedback=[ nice work ])",
			want: Checkpoint{Weight: 2, Grade: 87, Feedback: "nice work"},
		},
		{
			name: "feedback value outside brackets is ignored",
			text: "CHECKPOINT(WEIGHT=3, GRADE=80, FEEDBACK=ignored)",
			want: Checkpoint{Weight: 3, Grade: 80},
		},
		{
			name: "unknown keys are ignored",
			text: "CHECKPOINT(WEIGHT=3, NOTE=late, GRADE=80, FEEDBACK=[ok])",
			want: Checkpoint{Weight: 3, Grade: 80, Feedback: "ok"},
		},
		{
			name: "feedback first",
			text: "CHECKPOINT(FEEDBACK=[a=b, c], WEIGHT=10, GRADE=100)",
			want: Checkpoint{Weight: 10, Grade: 100, Feedback: "a=b, c"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCheckpoint(tt.text, 1, nil, DefaultBounds())
			if err != nil {
				t.Fatalf("ParseCheckpoint: %v", err)
			}
			if got != tt.want {
				t.Fatalf("ParseCheckpoint = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseCheckpointErrors(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		code      apperrors.Code
		wantField string
	}{
		{"missing weight", "CHECKPOINT( GRADE=95, FEEDBACK=[])", apperrors.CodeInvalidGrammar, "weight"},
		{"missing grade", "CHECKPOINT( WEIGHT=5, FEEDBACK=[])", apperrors.CodeInvalidGrammar, "grade"},
		{"missing feedback", "CHECKPOINT( WEIGHT=5, GRADE=90)", apperrors.CodeInvalidGrammar, "feedback"},
		{"empty body", "CHECKPOINT(   )", apperrors.CodeInvalidGrammar, ""},
		{"no closing paren", "CHECKPOINT( WEIGHT=5, GRADE=90, FEEDBACK=[]", apperrors.CodeInvalidGrammar, ""},
		{"token without equals", "CHECKPOINT( WEIGHT=5, GRADE, FEEDBACK=[])", apperrors.CodeInvalidGrammar, ""},
		{"trailing comma", "CHECKPOINT( WEIGHT=5, GRADE=90, FEEDBACK=[],)", apperrors.CodeInvalidGrammar, ""},
		{"unclosed feedback", "CHECKPOINT( WEIGHT=5, GRADE=90, FEEDBACK=[oops)", apperrors.CodeInvalidGrammar, ""},
		{"weight above range", "CHECKPOINT( WEIGHT=11, GRADE=95, FEEDBACK=[])", apperrors.CodeInvalidValue, "weight"},
		{"weight below range", "CHECKPOINT( WEIGHT=0, GRADE=95, FEEDBACK=[])", apperrors.CodeInvalidValue, "weight"},
		{"grade above range", "CHECKPOINT( WEIGHT=1, GRADE=101, FEEDBACK=[])", apperrors.CodeInvalidValue, "grade"},
		{"non numeric weight", "CHECKPOINT( WEIGHT=heavy, GRADE=95, FEEDBACK=[])", apperrors.CodeInvalidValue, "weight"},
		{"unmapped letter", "CHECKPOINT( WEIGHT=1, GRADE=Z, FEEDBACK=[])", apperrors.CodeInvalidValue, "grade"},
		{"feedback not utf-8", "CHECKPOINT( WEIGHT=1, GRADE=90, FEEDBACK=[bad\xffbyte])", apperrors.CodeInvalidValue, "feedback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCheckpoint(tt.text, 4, nil, DefaultBounds())
			if err == nil {
				t.Fatal("expected error")
			}
			domainErr, ok := apperrors.As(err)
			if !ok {
				t.Fatalf("expected domain error, got %T", err)
			}
			if domainErr.Code != tt.code {
				t.Fatalf("code = %s, want %s", domainErr.Code, tt.code)
			}
			if domainErr.Metadata["Sequence"] != "4" {
				t.Fatalf("sequence = %q, want 4", domainErr.Metadata["Sequence"])
			}
			if domainErr.Metadata["Field"] != tt.wantField {
				t.Fatalf("field = %q, want %q", domainErr.Metadata["Field"], tt.wantField)
			}
		})
	}
}

func TestParseCheckpointRangeErrorNamesBounds(t *testing.T) {
	bounds := Bounds{MinWeight: 1, MaxWeight: 10, MinGrade: 50, MaxGrade: 100}
	_, err := ParseCheckpoint("CHECKPOINT(WEIGHT=2, GRADE=40, FEEDBACK=[])", 3, nil, bounds)
	domainErr, ok := apperrors.As(err)
	if !ok {
		t.Fatalf("expected domain error, got %v", err)
	}
	if domainErr.Metadata["Min"] != "50" || domainErr.Metadata["Max"] != "100" {
		t.Fatalf("unexpected bounds metadata: %v", domainErr.Metadata)
	}
	if domainErr.Error() != "checkpoint 3: grade 40 outside range 50-100" {
		t.Fatalf("message = %q", domainErr.Error())
	}
}

func TestParseCheckpointUsesGivenMapping(t *testing.T) {
	mapping := NewGradeMapping()
	if err := mapping.Set("PASS", 70); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := ParseCheckpoint("CHECKPOINT(WEIGHT=1, GRADE=pass, FEEDBACK=[])", 1, mapping, DefaultBounds())
	if err != nil {
		t.Fatalf("ParseCheckpoint: %v", err)
	}
	if got.Grade != 70 {
		t.Fatalf("grade = %d, want 70", got.Grade)
	}

	if _, err := ParseCheckpoint("CHECKPOINT(WEIGHT=1, GRADE=A, FEEDBACK=[])", 1, mapping, DefaultBounds()); !apperrors.HasCode(err, apperrors.CodeInvalidValue) {
		t.Fatalf("expected default letters to be absent, got %v", err)
	}
}

func TestParseGradeMapping(t *testing.T) {
	mapping, err := ParseGradeMapping("GRADEMAPPING( a=90, b = 80, c=x, d+=60 )", 2)
	if err != nil {
		t.Fatalf("ParseGradeMapping: %v", err)
	}
	want := map[string]int{"A": 90, "B": 80, "D+": 60}
	if mapping.Len() != len(want) {
		t.Fatalf("len = %d, want %d (letters %v)", mapping.Len(), len(want), mapping.Letters())
	}
	for letter, value := range want {
		got, err := mapping.Get(letter)
		if err != nil || got != value {
			t.Fatalf("Get(%s) = %d, %v; want %d", letter, got, err, value)
		}
	}
	if _, err := mapping.Get("C"); err == nil {
		t.Fatal("expected non-numeric entry to be skipped")
	}
}

func TestParseGradeMappingErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		code apperrors.Code
	}{
		{"empty body", "GRADEMAPPING()", apperrors.CodeInvalidGrammar},
		{"no parens", "GRADEMAPPING A=90", apperrors.CodeInvalidGrammar},
		{"token without equals", "GRADEMAPPING(A90)", apperrors.CodeInvalidGrammar},
		{"empty letter", "GRADEMAPPING(A=90, =80)", apperrors.CodeInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGradeMapping(tt.text, 1)
			if !apperrors.HasCode(err, tt.code) {
				t.Fatalf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestMarkers(t *testing.T) {
	tests := []struct {
		text         string
		checkpoint   bool
		gradeMapping bool
	}{
		{"  CHECKPOINT(WEIGHT=1)", true, false},
		{"GRADEMAPPING(A=1)", false, true},
		{"checkpoint(WEIGHT=1)", false, false},
		{"CHECKPOINT (WEIGHT=1)", false, false},
		{"see CHECKPOINT(", false, false},
		{"", false, false},
	}
	for _, tt := range tests {
		if got := IsCheckpoint(tt.text); got != tt.checkpoint {
			t.Errorf("IsCheckpoint(%q) = %v", tt.text, got)
		}
		if got := IsGradeMapping(tt.text); got != tt.gradeMapping {
			t.Errorf("IsGradeMapping(%q) = %v", tt.text, got)
		}
	}
}
