// Package storage defines the Storage interface — a contract that any
// database backend must satisfy to work with this application.
//
// WHY AN INTERFACE?
// ─────────────────
// The domain service should not know or care which database it is
// talking to. By depending only on this interface:
//
//   - Switching databases = implement the interface for the new DB,
//     change one line in main.go. Zero service changes.
//
//   - The test harness can hand the service a transaction-backed
//     Storage and roll the whole scenario back afterwards.
package storage

import (
	"errors"

	"github.com/JoseManuelMunozManzano/gradebook-api/internal/types"
)

// ErrNotFound is the sentinel for "no such row". Callers distinguish
// it from infrastructure failures with errors.Is. Anything not
// matching ErrNotFound is a store fault, not a domain miss.
var ErrNotFound = errors.New("record not found")

// Storage is the database contract. Grade operations take a
// types.GradeType because grade ids are resolved per family: the same
// numeric id under a different subject is a different (or absent)
// grade.
type Storage interface {
	// CreateStudent inserts a new student record and returns the
	// auto-generated primary-key ID.
	CreateStudent(firstname, lastname, email string) (int64, error)

	// GetStudentByID fetches a single student by primary key.
	// Returns ErrNotFound if no student has that id.
	GetStudentByID(id int64) (types.Student, error)

	// GetStudentByEmail fetches the student with the given email
	// address. If several share it, the lowest id wins (the contract
	// does not enforce uniqueness). Returns ErrNotFound on a miss.
	GetStudentByEmail(email string) (types.Student, error)

	// GetStudents returns every student, ordered by id.
	// Returns an empty slice (not nil) if there are none.
	GetStudents() ([]types.Student, error)

	// DeleteStudentByID removes a student and every grade that
	// references it, across all three families.
	DeleteStudentByID(id int64) error

	// CreateGrade inserts a score into the given family and returns
	// the auto-generated grade ID.
	CreateGrade(grade float64, subject types.GradeType, studentID int64) (int64, error)

	// GetGradeByID fetches one grade by (id, family). An id that
	// exists under a different subject is ErrNotFound.
	GetGradeByID(id int64, subject types.GradeType) (types.Grade, error)

	// GetGradesByStudentID returns a student's grades in one family,
	// ordered by id ascending. Empty slice (not nil) when there are none.
	GetGradesByStudentID(studentID int64, subject types.GradeType) ([]types.Grade, error)

	// DeleteGradeByID removes one grade by (id, family).
	DeleteGradeByID(id int64, subject types.GradeType) error

	// RunScript executes an externally supplied SQL string. The test
	// harness uses this for its seed and cleanup fixtures.
	RunScript(script string) error

	// Begin opens a transaction. Every Storage operation on the
	// returned Tx runs inside it until Commit or Rollback.
	Begin() (Tx, error)
}

// Tx is a transaction-scoped Storage. Rolling it back discards every
// write made through it.
type Tx interface {
	Storage

	Commit() error
	Rollback() error
}
