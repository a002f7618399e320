// Package config handles loading and parsing application configuration.
// It supports two sources (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// The parsed values are returned as a *Config pointer so the struct is
// shared by reference rather than copied everywhere.
package config

import (
	"flag"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
//
// env-required:"true" means the app refuses to start if that value is
// missing. Better to crash at boot than to silently use a wrong default.
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	// StoragePath is the filesystem path to the SQLite .db file.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-required:"true"`

	// HTTPServer is embedded (not a pointer) so its fields are accessible
	// directly on Config:  cfg.HTTPServer.Addr  or after promotion cfg.Addr
	HTTPServer `yaml:"http_server"`

	// Fixtures carries the seed and cleanup SQL executed by the test
	// harness around each scenario. The scripts are configuration, not
	// code, so a different database layout only needs a different YAML.
	Fixtures `yaml:"fixtures"`
}

// HTTPServer holds settings specific to the HTTP server.
// Nested under http_server: in the YAML file.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. "localhost:8082".
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-default:"localhost:8082"`
}

// Fixtures enumerates the eight fixture scripts: four that establish
// the seeded baseline (one student, one grade per subject) and four
// that wipe the tables afterwards.
//
// The defaults reproduce the canonical baseline: student id 1
// "Eric Roby" with a 100.00 in each of math, science, and history.
type Fixtures struct {
	CreateStudent      string `yaml:"create_student" env:"SQL_SCRIPT_CREATE_STUDENT" env-default:"INSERT INTO students (id, firstname, lastname, email_address) VALUES (1, 'Eric', 'Roby', 'eric.roby@luv2code_school.com')"`
	CreateMathGrade    string `yaml:"create_math_grade" env:"SQL_SCRIPT_CREATE_MATH_GRADE" env-default:"INSERT INTO grades (id, grade, student_id, subject) VALUES (1, 100.00, 1, 'math')"`
	CreateScienceGrade string `yaml:"create_science_grade" env:"SQL_SCRIPT_CREATE_SCIENCE_GRADE" env-default:"INSERT INTO grades (id, grade, student_id, subject) VALUES (2, 100.00, 1, 'science')"`
	CreateHistoryGrade string `yaml:"create_history_grade" env:"SQL_SCRIPT_CREATE_HISTORY_GRADE" env-default:"INSERT INTO grades (id, grade, student_id, subject) VALUES (3, 100.00, 1, 'history')"`
	DeleteStudent      string `yaml:"delete_student" env:"SQL_SCRIPT_DELETE_STUDENT" env-default:"DELETE FROM students"`
	DeleteMathGrade    string `yaml:"delete_math_grade" env:"SQL_SCRIPT_DELETE_MATH_GRADE" env-default:"DELETE FROM grades WHERE subject = 'math'"`
	DeleteScienceGrade string `yaml:"delete_science_grade" env:"SQL_SCRIPT_DELETE_SCIENCE_GRADE" env-default:"DELETE FROM grades WHERE subject = 'science'"`
	DeleteHistoryGrade string `yaml:"delete_history_grade" env:"SQL_SCRIPT_DELETE_HISTORY_GRADE" env-default:"DELETE FROM grades WHERE subject = 'history'"`
}

// MustLoad reads, validates, and returns the application config.
//
// The name "MustLoad" follows a Go convention: functions prefixed with
// "Must" are allowed to panic/fatal on failure. Callers do not need to
// check a returned error — if this function returns, the config is valid.
func MustLoad() *Config {
	var configPath string

	// Source 1: environment variable. The standard way to pass config
	// to a container in Docker / Kubernetes.
	configPath = os.Getenv("CONFIG_PATH")

	// Source 2: command-line flag. Useful when running locally:
	//   go run ./cmd/gradebook-api --config=config/local.yaml
	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	if configPath == "" {
		log.Fatal("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	// Verify the file exists before trying to read it, so we can give a
	// clear message rather than a cryptic "open: no such file" later.
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	// cleanenv.ReadConfig reads the YAML file and populates the struct.
	// It also reads any env:"..." tagged fields from the environment,
	// applies env-default values, and validates env-required constraints.
	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err.Error())
	}

	return &cfg
}

// DefaultFixtures returns the fixture scripts with every default
// applied, without touching a YAML file. The test harness uses this
// when no external configuration is supplied.
func DefaultFixtures() (Fixtures, error) {
	var fx Fixtures
	if err := cleanenv.ReadEnv(&fx); err != nil {
		return Fixtures{}, err
	}
	return fx, nil
}
