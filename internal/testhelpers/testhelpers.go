// Package testhelpers provides shared setup for package tests: a
// throwaway SQLite store per test and the seed/cleanup fixture flow
// the scenarios run inside.
//
// Scenario flow:
//
//	Seed → Begin → run the scenario against the transaction →
//	Rollback → Cleanup
//
// The cleanup scripts are deliberately redundant with the rollback;
// they catch writes a handler might have committed outside the
// scenario transaction.
package testhelpers

import (
	"path/filepath"
	"testing"

	"github.com/JoseManuelMunozManzano/gradebook-api/internal/config"
	"github.com/JoseManuelMunozManzano/gradebook-api/internal/storage"
	"github.com/JoseManuelMunozManzano/gradebook-api/internal/storage/sqlite"
)

// NewStorage opens a fresh SQLite store on a file under t.TempDir().
// The file (and the pool) are cleaned up when the test finishes.
func NewStorage(t *testing.T) *sqlite.SQLite {
	t.Helper()

	cfg := &config.Config{
		StoragePath: filepath.Join(t.TempDir(), "gradebook.db"),
	}

	st, err := sqlite.New(cfg)
	if err != nil {
		t.Fatalf("open test storage: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("close test storage: %v", err)
		}
	})

	return st
}

// FixtureScripts returns the eight canonical fixture strings (the
// config defaults): one student id 1 "Eric Roby" plus one grade per
// subject, and the per-table cleanup statements.
func FixtureScripts(t *testing.T) config.Fixtures {
	t.Helper()

	fx, err := config.DefaultFixtures()
	if err != nil {
		t.Fatalf("load fixture scripts: %v", err)
	}
	return fx
}

// Seed executes the four create scripts, establishing the seeded
// baseline the scenarios assume.
func Seed(t *testing.T, st storage.Storage, fx config.Fixtures) {
	t.Helper()

	for _, script := range []string{
		fx.CreateStudent,
		fx.CreateMathGrade,
		fx.CreateScienceGrade,
		fx.CreateHistoryGrade,
	} {
		if err := st.RunScript(script); err != nil {
			t.Fatalf("seed script %q: %v", script, err)
		}
	}
}

// Cleanup executes the four delete scripts.
func Cleanup(t *testing.T, st storage.Storage, fx config.Fixtures) {
	t.Helper()

	for _, script := range []string{
		fx.DeleteStudent,
		fx.DeleteMathGrade,
		fx.DeleteScienceGrade,
		fx.DeleteHistoryGrade,
	} {
		if err := st.RunScript(script); err != nil {
			t.Fatalf("cleanup script %q: %v", script, err)
		}
	}
}

// SeededTx seeds the baseline and opens the scenario transaction.
// Rollback and cleanup are registered on t.Cleanup, so a scenario only
// has to use the returned Tx.
func SeededTx(t *testing.T) storage.Tx {
	t.Helper()

	st := NewStorage(t)
	fx := FixtureScripts(t)
	Seed(t, st, fx)

	tx, err := st.Begin()
	if err != nil {
		t.Fatalf("begin scenario transaction: %v", err)
	}
	t.Cleanup(func() {
		// Rollback first so the cleanup scripts run outside the
		// scenario transaction. A failed rollback after an explicit
		// commit is fine; the scripts below still reset the tables.
		tx.Rollback()
		Cleanup(t, st, fx)
	})

	return tx
}
