// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// The blank import below registers the sqlite3 driver with
// database/sql. The driver's init() function does this automatically
// when the package is loaded — we never call anything from it directly.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/JoseManuelMunozManzano/gradebook-api/internal/config"
	"github.com/JoseManuelMunozManzano/gradebook-api/internal/storage"
	"github.com/JoseManuelMunozManzano/gradebook-api/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// executor is the subset of database/sql shared by *sql.DB and
// *sql.Tx. Every query below goes through it, so the same code runs
// against the pool or inside a transaction.
type executor interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
	Prepare(query string) (*sql.Stmt, error)
}

// SQLite is the concrete implementation of storage.Storage.
// db is the connection pool (safe for concurrent use); exec is either
// that same pool or an open transaction.
type SQLite struct {
	db   *sql.DB
	exec executor
}

// New opens the SQLite database at cfg.StoragePath, creates the
// students and grades tables if they do not already exist, and returns
// a ready-to-use *SQLite.
//
// Grades live in one table with a subject discriminator; the subject
// is part of every lookup, so ids behave as family-scoped identities.
func New(cfg *config.Config) (*SQLite, error) {
	// sql.Open does NOT open a real connection yet — it just validates
	// the driver name and DSN. The first actual connection happens on
	// the first query.
	db, err := sql.Open("sqlite3", cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// CREATE TABLE IF NOT EXISTS is idempotent — safe on every startup.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			firstname     TEXT NOT NULL,
			lastname      TEXT NOT NULL,
			email_address TEXT NOT NULL
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: create students table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS grades (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			grade      REAL    NOT NULL,
			student_id INTEGER NOT NULL,
			subject    TEXT    NOT NULL
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: create grades table: %w", err)
	}

	return &SQLite{db: db, exec: db}, nil
}

// Close releases the underlying connection pool.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// CreateStudent inserts a new row into the students table.
//
// Prepared statements use placeholders (?) so the driver sends query
// and values separately — the values are pure data, never SQL syntax.
func (s *SQLite) CreateStudent(firstname, lastname, email string) (int64, error) {
	stmt, err := s.exec.Prepare(
		"INSERT INTO students (firstname, lastname, email_address) VALUES (?, ?, ?)",
	)
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(firstname, lastname, email)
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: exec: %w", err)
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: last insert id: %w", err)
	}

	return lastID, nil
}

// GetStudentByID fetches exactly one student row matched by primary key.
func (s *SQLite) GetStudentByID(id int64) (types.Student, error) {
	stmt, err := s.exec.Prepare(
		"SELECT id, firstname, lastname, email_address FROM students WHERE id = ? LIMIT 1",
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("GetStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	var student types.Student

	err = stmt.QueryRow(id).Scan(
		&student.ID,
		&student.Firstname,
		&student.Lastname,
		&student.EmailAddress,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return types.Student{}, storage.ErrNotFound
		}
		return types.Student{}, fmt.Errorf("GetStudentByID: scan: %w", err)
	}

	return student, nil
}

// GetStudentByEmail fetches the student with the given email address.
// Uniqueness is not enforced by the schema; on duplicates the lowest
// id wins.
func (s *SQLite) GetStudentByEmail(email string) (types.Student, error) {
	stmt, err := s.exec.Prepare(
		"SELECT id, firstname, lastname, email_address FROM students WHERE email_address = ? ORDER BY id LIMIT 1",
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("GetStudentByEmail: prepare: %w", err)
	}
	defer stmt.Close()

	var student types.Student

	err = stmt.QueryRow(email).Scan(
		&student.ID,
		&student.Firstname,
		&student.Lastname,
		&student.EmailAddress,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return types.Student{}, storage.ErrNotFound
		}
		return types.Student{}, fmt.Errorf("GetStudentByEmail: scan: %w", err)
	}

	return student, nil
}

// GetStudents returns all student rows as a slice, ordered by id.
func (s *SQLite) GetStudents() ([]types.Student, error) {
	stmt, err := s.exec.Prepare(
		"SELECT id, firstname, lastname, email_address FROM students ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("GetStudents: prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query()
	if err != nil {
		return nil, fmt.Errorf("GetStudents: query: %w", err)
	}
	defer rows.Close()

	// Pre-allocate an empty (non-nil) slice.
	// Returning [] instead of null in JSON is better API behaviour.
	students := make([]types.Student, 0)

	for rows.Next() {
		var student types.Student

		if err := rows.Scan(
			&student.ID,
			&student.Firstname,
			&student.Lastname,
			&student.EmailAddress,
		); err != nil {
			return nil, fmt.Errorf("GetStudents: scan row: %w", err)
		}

		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetStudents: rows iteration: %w", err)
	}

	return students, nil
}

// DeleteStudentByID removes a student row and every grade referencing
// it. The grades go first so a failure never leaves orphaned scores.
func (s *SQLite) DeleteStudentByID(id int64) error {
	if _, err := s.exec.Exec("DELETE FROM grades WHERE student_id = ?", id); err != nil {
		return fmt.Errorf("DeleteStudentByID: delete grades: %w", err)
	}

	if _, err := s.exec.Exec("DELETE FROM students WHERE id = ?", id); err != nil {
		return fmt.Errorf("DeleteStudentByID: delete student: %w", err)
	}

	return nil
}

// CreateGrade inserts a score into the given family.
func (s *SQLite) CreateGrade(grade float64, subject types.GradeType, studentID int64) (int64, error) {
	stmt, err := s.exec.Prepare(
		"INSERT INTO grades (grade, student_id, subject) VALUES (?, ?, ?)",
	)
	if err != nil {
		return 0, fmt.Errorf("CreateGrade: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(grade, studentID, string(subject))
	if err != nil {
		return 0, fmt.Errorf("CreateGrade: exec: %w", err)
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("CreateGrade: last insert id: %w", err)
	}

	return lastID, nil
}

// GetGradeByID fetches one grade by (id, family). The subject filter
// makes ids behave as family-scoped: a row with this id but another
// subject is ErrNotFound.
func (s *SQLite) GetGradeByID(id int64, subject types.GradeType) (types.Grade, error) {
	stmt, err := s.exec.Prepare(
		"SELECT id, grade, student_id FROM grades WHERE id = ? AND subject = ? LIMIT 1",
	)
	if err != nil {
		return types.Grade{}, fmt.Errorf("GetGradeByID: prepare: %w", err)
	}
	defer stmt.Close()

	var g types.Grade

	err = stmt.QueryRow(id, string(subject)).Scan(&g.ID, &g.Grade, &g.StudentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return types.Grade{}, storage.ErrNotFound
		}
		return types.Grade{}, fmt.Errorf("GetGradeByID: scan: %w", err)
	}

	return g, nil
}

// GetGradesByStudentID returns a student's grades in one family,
// ordered by id ascending.
func (s *SQLite) GetGradesByStudentID(studentID int64, subject types.GradeType) ([]types.Grade, error) {
	stmt, err := s.exec.Prepare(
		"SELECT id, grade, student_id FROM grades WHERE student_id = ? AND subject = ? ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("GetGradesByStudentID: prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query(studentID, string(subject))
	if err != nil {
		return nil, fmt.Errorf("GetGradesByStudentID: query: %w", err)
	}
	defer rows.Close()

	grades := make([]types.Grade, 0)

	for rows.Next() {
		var g types.Grade

		if err := rows.Scan(&g.ID, &g.Grade, &g.StudentID); err != nil {
			return nil, fmt.Errorf("GetGradesByStudentID: scan row: %w", err)
		}

		grades = append(grades, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetGradesByStudentID: rows iteration: %w", err)
	}

	return grades, nil
}

// DeleteGradeByID removes one grade by (id, family).
func (s *SQLite) DeleteGradeByID(id int64, subject types.GradeType) error {
	stmt, err := s.exec.Prepare("DELETE FROM grades WHERE id = ? AND subject = ?")
	if err != nil {
		return fmt.Errorf("DeleteGradeByID: prepare: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.Exec(id, string(subject)); err != nil {
		return fmt.Errorf("DeleteGradeByID: exec: %w", err)
	}

	return nil
}

// RunScript executes an externally supplied SQL string verbatim.
// Fixture scripts come from configuration, not from clients, so they
// are trusted input.
func (s *SQLite) RunScript(script string) error {
	if _, err := s.exec.Exec(script); err != nil {
		return fmt.Errorf("RunScript: %w", err)
	}
	return nil
}

// Begin opens a transaction on the pool. The returned Tx routes every
// Storage operation through the transaction until Commit or Rollback.
// Begin always starts from the root pool, even when called on a
// transaction-backed instance.
func (s *SQLite) Begin() (storage.Tx, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("Begin: %w", err)
	}

	return &sqliteTx{
		SQLite: SQLite{db: s.db, exec: tx},
		tx:     tx,
	}, nil
}

// sqliteTx is a transaction-scoped SQLite. All the embedded methods
// run against the transaction because exec points at it.
type sqliteTx struct {
	SQLite
	tx *sql.Tx
}

func (t *sqliteTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTx) Rollback() error {
	return t.tx.Rollback()
}
