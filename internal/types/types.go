// Package types holds the shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// handlers, service, and storage can all import types without
// depending on each other.
package types

import "strings"

// Student represents a student record.
//
// Struct tags serve two purposes:
//
//  1. json:"..."  — controls how the field appears when encoded to
//     JSON. The field names follow the wire contract exactly
//     (emailAddress, not email_address).
//
//  2. validate:"..." — rules checked by the go-playground/validator
//     package when the struct arrives as a request body.
type Student struct {
	ID           int64  `json:"id"`
	Firstname    string `json:"firstname"    validate:"required"`
	Lastname     string `json:"lastname"     validate:"required"`
	EmailAddress string `json:"emailAddress" validate:"required,email"`
}

// GradeType identifies one of the three disjoint grade families.
// A grade's family is fixed at creation and never changes.
type GradeType string

const (
	Math    GradeType = "math"
	Science GradeType = "science"
	History GradeType = "history"
)

// ParseGradeType maps a client-supplied token onto one of the known
// families. Matching is case-insensitive. The boolean is false for
// anything outside {math, science, history}.
func ParseGradeType(s string) (GradeType, bool) {
	switch GradeType(strings.ToLower(s)) {
	case Math:
		return Math, true
	case Science:
		return Science, true
	case History:
		return History, true
	}
	return "", false
}

// Grade is a single score belonging to a student. The subject family
// is part of a grade's identity on the wire (ids are resolved per
// family), so it is carried out-of-band rather than in the JSON shape.
type Grade struct {
	ID        int64   `json:"id"`
	Grade     float64 `json:"grade"`
	StudentID int64   `json:"studentId"`
}

// NewGrade is the create-grade payload after parameter binding.
// Only the score range is validated here — an unknown gradeType is a
// domain-level failure, not a validation one.
type NewGrade struct {
	Grade     float64 `validate:"gte=0,lte=100"`
	GradeType string
	StudentID int64
}

// GradeBundle groups a student's scores by family, in the three named
// arrays the API promises. Empty families encode as [], never null.
type GradeBundle struct {
	MathGradeResults    []Grade `json:"mathGradeResults"`
	ScienceGradeResults []Grade `json:"scienceGradeResults"`
	HistoryGradeResults []Grade `json:"historyGradeResults"`
}

// StudentView is the composed shape returned to clients: the student's
// core attributes together with its grade bundle. It is a pure
// projection — recomputed on every read, never stored.
type StudentView struct {
	ID            int64       `json:"id"`
	Firstname     string      `json:"firstname"`
	Lastname      string      `json:"lastname"`
	EmailAddress  string      `json:"emailAddress"`
	StudentGrades GradeBundle `json:"studentGrades"`
}
