// Package service implements the gradebook business operations over
// students and grades. The service is stateless; all state lives in
// the store, and every view it returns is recomputed from the store
// on each call.
package service

import (
	"errors"

	"github.com/JoseManuelMunozManzano/gradebook-api/internal/storage"
	"github.com/JoseManuelMunozManzano/gradebook-api/internal/types"
)

// ErrNotFound collapses every domain-level miss into one error: an
// absent student, an absent grade, or an unrecognised grade type.
// The uniform collapse is part of the API contract; the HTTP layer
// turns it into the 404 envelope.
var ErrNotFound = errors.New("student or grade not found")

// Gradebook is the domain contract consumed by the HTTP layer.
type Gradebook interface {
	// ListStudents returns the view of every student.
	ListStudents() ([]types.StudentView, error)

	// CreateStudent inserts a student and returns the post-insert
	// list of all student views. Duplicate emails are accepted.
	CreateStudent(firstname, lastname, email string) ([]types.StudentView, error)

	// DeleteStudent removes a student and all of its grades, then
	// returns the remaining student views. ErrNotFound if absent.
	DeleteStudent(id int64) ([]types.StudentView, error)

	// StudentInformation returns one student's view.
	// ErrNotFound if absent.
	StudentInformation(id int64) (types.StudentView, error)

	// CreateGrade records a score for a student and returns the
	// owner's refreshed view. ErrNotFound if the student is absent or
	// the gradeType is not one of math, science, history.
	CreateGrade(grade float64, gradeType string, studentID int64) (types.StudentView, error)

	// DeleteGrade removes one grade by (id, gradeType) and returns
	// the owner's refreshed view. ErrNotFound if the gradeType is
	// unknown, the grade is absent in that family, or the owner is
	// absent.
	DeleteGrade(id int64, gradeType string) (types.StudentView, error)
}

type gradebook struct {
	store storage.Storage
}

// New returns a Gradebook backed by the given store. Handing it a
// transaction-backed store scopes every operation to that transaction.
func New(store storage.Storage) Gradebook {
	return &gradebook{store: store}
}

func (g *gradebook) ListStudents() ([]types.StudentView, error) {
	return g.listViews()
}

func (g *gradebook) CreateStudent(firstname, lastname, email string) ([]types.StudentView, error) {
	if _, err := g.store.CreateStudent(firstname, lastname, email); err != nil {
		return nil, err
	}
	return g.listViews()
}

func (g *gradebook) DeleteStudent(id int64) ([]types.StudentView, error) {
	// Existence first: deleting an absent student is a domain miss,
	// not a silent no-op. This also makes a second delete of the same
	// id report ErrNotFound.
	if _, err := g.store.GetStudentByID(id); err != nil {
		return nil, domainErr(err)
	}

	if err := g.store.DeleteStudentByID(id); err != nil {
		return nil, err
	}

	return g.listViews()
}

func (g *gradebook) StudentInformation(id int64) (types.StudentView, error) {
	student, err := g.store.GetStudentByID(id)
	if err != nil {
		return types.StudentView{}, domainErr(err)
	}

	return g.studentView(student)
}

func (g *gradebook) CreateGrade(grade float64, gradeType string, studentID int64) (types.StudentView, error) {
	subject, ok := types.ParseGradeType(gradeType)
	if !ok {
		return types.StudentView{}, ErrNotFound
	}

	student, err := g.store.GetStudentByID(studentID)
	if err != nil {
		return types.StudentView{}, domainErr(err)
	}

	if _, err := g.store.CreateGrade(grade, subject, studentID); err != nil {
		return types.StudentView{}, err
	}

	return g.studentView(student)
}

func (g *gradebook) DeleteGrade(id int64, gradeType string) (types.StudentView, error) {
	subject, ok := types.ParseGradeType(gradeType)
	if !ok {
		return types.StudentView{}, ErrNotFound
	}

	grade, err := g.store.GetGradeByID(id, subject)
	if err != nil {
		return types.StudentView{}, domainErr(err)
	}

	student, err := g.store.GetStudentByID(grade.StudentID)
	if err != nil {
		return types.StudentView{}, domainErr(err)
	}

	if err := g.store.DeleteGradeByID(id, subject); err != nil {
		return types.StudentView{}, err
	}

	return g.studentView(student)
}

// studentView composes the derived view: the student's attributes plus
// one per-family grade query, each ordered by id ascending.
func (g *gradebook) studentView(student types.Student) (types.StudentView, error) {
	math, err := g.store.GetGradesByStudentID(student.ID, types.Math)
	if err != nil {
		return types.StudentView{}, err
	}

	science, err := g.store.GetGradesByStudentID(student.ID, types.Science)
	if err != nil {
		return types.StudentView{}, err
	}

	history, err := g.store.GetGradesByStudentID(student.ID, types.History)
	if err != nil {
		return types.StudentView{}, err
	}

	return types.StudentView{
		ID:           student.ID,
		Firstname:    student.Firstname,
		Lastname:     student.Lastname,
		EmailAddress: student.EmailAddress,
		StudentGrades: types.GradeBundle{
			MathGradeResults:    math,
			ScienceGradeResults: science,
			HistoryGradeResults: history,
		},
	}, nil
}

func (g *gradebook) listViews() ([]types.StudentView, error) {
	students, err := g.store.GetStudents()
	if err != nil {
		return nil, err
	}

	views := make([]types.StudentView, 0, len(students))
	for _, student := range students {
		view, err := g.studentView(student)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	return views, nil
}

// domainErr maps a store-level miss onto the domain sentinel and
// passes infrastructure faults through untouched.
func domainErr(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
