package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ScoreKind identifies which variant a Score holds
type ScoreKind int

const (
	// ScoreNone means the cell held no usable score
	ScoreNone ScoreKind = iota
	// ScoreNumeric carries a numeric value in Score.Value
	ScoreNumeric
	// ScoreAbsent marks an unexcused absence ("н")
	ScoreAbsent
	// ScoreExcusedMedical marks a medical excuse ("б")
	ScoreExcusedMedical
	// ScorePassed marks pass/fail credit ("зачет")
	ScorePassed
)

// Sheet tokens for the non-numeric score variants
const (
	TokenAbsent         = "н"
	TokenExcusedMedical = "б"
	TokenPassed         = "зачет"
)

// String returns a stable name for the kind
func (k ScoreKind) String() string {
	switch k {
	case ScoreNumeric:
		return "numeric"
	case ScoreAbsent:
		return "absent"
	case ScoreExcusedMedical:
		return "excused_medical"
	case ScorePassed:
		return "passed"
	default:
		return "none"
	}
}

// Score is a tagged union over the values a grade cell can hold.
// Value is meaningful only when Kind is ScoreNumeric.
type Score struct {
	Kind  ScoreKind
	Value float64
}

// Numeric returns a numeric score. The value is not range checked.
func Numeric(v float64) Score { return Score{Kind: ScoreNumeric, Value: v} }

// Absent returns the absence score
func Absent() Score { return Score{Kind: ScoreAbsent} }

// ExcusedMedical returns the medical excuse score
func ExcusedMedical() Score { return Score{Kind: ScoreExcusedMedical} }

// Passed returns the pass/fail credit score
func Passed() Score { return Score{Kind: ScorePassed} }

// NoScore returns the empty score
func NoScore() Score { return Score{Kind: ScoreNone} }

// IsNumeric reports whether the score carries a number
func (s Score) IsNumeric() bool { return s.Kind == ScoreNumeric }

// Number returns the numeric value and whether it is present
func (s Score) Number() (float64, bool) {
	if s.Kind != ScoreNumeric {
		return 0, false
	}
	return s.Value, true
}

// IsGraded reports whether the score counts as a received grade.
// Absences, medical excuses and empty cells do not.
func (s Score) IsGraded() bool {
	return s.Kind == ScoreNumeric || s.Kind == ScorePassed
}

// String renders the score the way it appears in the sheet
func (s Score) String() string {
	switch s.Kind {
	case ScoreNumeric:
		return strconv.FormatFloat(s.Value, 'f', -1, 64)
	case ScoreAbsent:
		return TokenAbsent
	case ScoreExcusedMedical:
		return TokenExcusedMedical
	case ScorePassed:
		return TokenPassed
	default:
		return ""
	}
}

// MarshalJSON encodes numeric scores as numbers, sentinels as their sheet
// token and the empty score as null.
func (s Score) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case ScoreNumeric:
		return json.Marshal(s.Value)
	case ScoreNone:
		return []byte("null"), nil
	default:
		return json.Marshal(s.String())
	}
}

// UnmarshalJSON accepts the encoding produced by MarshalJSON
func (s *Score) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = NoScore()
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err == nil {
		*s = Numeric(v)
		return nil
	}

	var token string
	if err := json.Unmarshal(data, &token); err != nil {
		return fmt.Errorf("score must be a number, a token or null: %w", err)
	}
	switch token {
	case TokenAbsent:
		*s = Absent()
	case TokenExcusedMedical:
		*s = ExcusedMedical()
	case TokenPassed:
		*s = Passed()
	default:
		return fmt.Errorf("unknown score token %q", token)
	}
	return nil
}

// GradeRecord is one observation of one student on one topic of one subject
type GradeRecord struct {
	StudentID      string   `json:"user_id"`
	StudentName    string   `json:"user_name,omitempty"`
	Subject        string   `json:"subject"`
	Topic          string   `json:"topic"`
	Date           string   `json:"date"`
	Score          Score    `json:"score"`
	SubjectAverage *float64 `json:"avg_score,omitempty"`
}

// DefaultLectureTopic is used when an absence sheet omits the topic label
const DefaultLectureTopic = "Лекция"

// LectureAbsenceRecord is a missed lecture. Its score is always Absent.
type LectureAbsenceRecord struct {
	StudentID   string `json:"user_id"`
	StudentName string `json:"user_name,omitempty"`
	Subject     string `json:"subject"`
	Topic       string `json:"topic"`
	Date        string `json:"date"`
}

// Score returns the fixed Absent score
func (r LectureAbsenceRecord) Score() Score { return Absent() }

// AsGrade widens the record to the GradeRecord shape
func (r LectureAbsenceRecord) AsGrade() GradeRecord {
	return GradeRecord{
		StudentID:   r.StudentID,
		StudentName: r.StudentName,
		Subject:     r.Subject,
		Topic:       r.Topic,
		Date:        r.Date,
		Score:       Absent(),
	}
}

// MarshalJSON emits the GradeRecord shape so consumers can treat both alike
func (r LectureAbsenceRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.AsGrade())
}

// HomeworkRecord is one task assigned for a subject on a day of an academic week
type HomeworkRecord struct {
	Week    int    `json:"week"`
	Day     string `json:"day"`
	Subject string `json:"subject"`
	Task    string `json:"task"`
}
