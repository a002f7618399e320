package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleYAML = `env: staging
storage_path: /tmp/gradebook-test.db
http_server:
  address: localhost:9090
fixtures:
  create_student: "INSERT INTO students (id, firstname, lastname, email_address) VALUES (7, 'Test', 'Only', 'test@only.dev')"
`

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestMustLoadFromYAML(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfigFile(t, sampleYAML))

	cfg := MustLoad()

	if cfg.Env != "staging" {
		t.Errorf("Env %q, want staging", cfg.Env)
	}
	if cfg.StoragePath != "/tmp/gradebook-test.db" {
		t.Errorf("StoragePath %q", cfg.StoragePath)
	}
	if cfg.HTTPServer.Addr != "localhost:9090" {
		t.Errorf("Addr %q", cfg.HTTPServer.Addr)
	}
}

func TestMustLoadFixtureOverrideAndDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfigFile(t, sampleYAML))

	cfg := MustLoad()

	// The one fixture the YAML sets is taken from the file...
	if !strings.Contains(cfg.Fixtures.CreateStudent, "test@only.dev") {
		t.Errorf("CreateStudent %q, want the YAML override", cfg.Fixtures.CreateStudent)
	}

	// ...the rest fall back to the canonical baseline.
	if !strings.Contains(cfg.Fixtures.CreateMathGrade, "'math'") {
		t.Errorf("CreateMathGrade %q, want the default math seed", cfg.Fixtures.CreateMathGrade)
	}
	if cfg.Fixtures.DeleteStudent != "DELETE FROM students" {
		t.Errorf("DeleteStudent %q", cfg.Fixtures.DeleteStudent)
	}
}

func TestMustLoadEnvOverride(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfigFile(t, sampleYAML))
	t.Setenv("HTTP_SERVER_ADDR", "localhost:7777")

	cfg := MustLoad()

	if cfg.HTTPServer.Addr != "localhost:7777" {
		t.Errorf("Addr %q, want the env override", cfg.HTTPServer.Addr)
	}
}

func TestDefaultFixtures(t *testing.T) {
	fx, err := DefaultFixtures()
	if err != nil {
		t.Fatalf("DefaultFixtures: %v", err)
	}

	if !strings.Contains(fx.CreateStudent, "Eric") || !strings.Contains(fx.CreateStudent, "Roby") {
		t.Errorf("CreateStudent %q, want the Eric Roby baseline", fx.CreateStudent)
	}

	for name, script := range map[string]string{
		"CreateMathGrade":    fx.CreateMathGrade,
		"CreateScienceGrade": fx.CreateScienceGrade,
		"CreateHistoryGrade": fx.CreateHistoryGrade,
		"DeleteStudent":      fx.DeleteStudent,
		"DeleteMathGrade":    fx.DeleteMathGrade,
		"DeleteScienceGrade": fx.DeleteScienceGrade,
		"DeleteHistoryGrade": fx.DeleteHistoryGrade,
	} {
		if script == "" {
			t.Errorf("%s default is empty", name)
		}
	}
}
