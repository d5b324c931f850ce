package quizpdf

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/brunobiangulo/quizpdf/quiz"
)

// Config holds all configuration for the quiz engine.
type Config struct {
	// DBPath is the full path to the SQLite database file.
	// If empty, defaults to ~/.quizpdf/<DBName>.db
	DBPath string `json:"db_path" yaml:"db_path"`

	// DBName is the name for the database (used when DBPath is empty).
	// Defaults to "quizpdf".
	DBName string `json:"db_name" yaml:"db_name"`

	// StorageDir controls where the database is created when DBPath
	// is not explicitly set. Options: "home" (default) uses ~/.quizpdf/,
	// "local" uses the current working directory.
	StorageDir string `json:"storage_dir" yaml:"storage_dir"`

	// SourceDir is the directory scanned for catalog PDFs by the binaries.
	SourceDir string `json:"source_dir" yaml:"source_dir"`

	// ListenAddr is the HTTP listen address of cmd/server.
	ListenAddr string `json:"listen_addr" yaml:"listen_addr"`

	// Parsing
	SkipPages          int      `json:"skip_pages" yaml:"skip_pages"`                     // leading pages ignored (cover, legend)
	AnswersPerQuestion int      `json:"answers_per_question" yaml:"answers_per_question"` // exact answer count per question
	ImageSubtypes      []string `json:"image_subtypes" yaml:"image_subtypes"`             // accepted XObject subtypes for attachments
	SkipImages         bool     `json:"skip_images" yaml:"skip_images"`                   // do not decode embedded images at all

	// Search
	VectorDim    int     `json:"vector_dim" yaml:"vector_dim"`
	WeightVector float64 `json:"weight_vector" yaml:"weight_vector"`
	WeightFTS    float64 `json:"weight_fts" yaml:"weight_fts"`

	// Logger receives per-document warnings. Defaults to slog.Default().
	Logger *slog.Logger `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with the defaults of the DE exam catalogs.
// Database is stored in ~/.quizpdf/quizpdf.db by default.
func DefaultConfig() Config {
	return Config{
		DBName:             "quizpdf",
		StorageDir:         "home",
		SourceDir:          "pdf",
		ListenAddr:         ":8080",
		SkipPages:          quiz.DefaultSkipPages,
		AnswersPerQuestion: quiz.DefaultAnswersPerQuestion,
		ImageSubtypes:      []string{"Image"},
		VectorDim:          256,
		WeightVector:       1.0,
		WeightFTS:          1.0,
	}
}

// LoadConfig reads a config file on top of DefaultConfig. Files ending in
// .yaml or .yml are read as YAML, everything else as JSON.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides fields from QUIZPDF_* environment variables.
// Malformed numeric values are ignored.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("QUIZPDF_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("QUIZPDF_SOURCE_DIR"); v != "" {
		c.SourceDir = v
	}
	if v := os.Getenv("QUIZPDF_LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if n, err := strconv.Atoi(os.Getenv("QUIZPDF_SKIP_PAGES")); err == nil {
		c.SkipPages = n
	}
	if n, err := strconv.Atoi(os.Getenv("QUIZPDF_ANSWERS_PER_QUESTION")); err == nil {
		c.AnswersPerQuestion = n
	}
}

// Validate checks that numeric values are sane.
func (c *Config) Validate() error {
	switch {
	case c.SkipPages < 0:
		return fmt.Errorf("%w: skip_pages must not be negative", ErrInvalidConfig)
	case c.AnswersPerQuestion < 0:
		return fmt.Errorf("%w: answers_per_question must not be negative", ErrInvalidConfig)
	case c.VectorDim <= 0:
		return fmt.Errorf("%w: vector_dim must be positive", ErrInvalidConfig)
	case c.WeightVector < 0 || c.WeightFTS < 0:
		return fmt.Errorf("%w: search weights must not be negative", ErrInvalidConfig)
	}
	return nil
}

// resolveDBPath computes the final database path from config fields.
func (c *Config) resolveDBPath() string {
	if c.DBPath != "" {
		return c.DBPath
	}

	name := c.DBName
	if name == "" {
		name = "quizpdf"
	}

	switch c.StorageDir {
	case "local", "cwd":
		return name + ".db"
	default: // "home" or empty
		home, err := os.UserHomeDir()
		if err != nil {
			return name + ".db"
		}
		return filepath.Join(home, ".quizpdf", name+".db")
	}
}

func (c *Config) quizOptions() quiz.Options {
	return quiz.Options{
		SkipPages:          c.SkipPages,
		AnswersPerQuestion: c.AnswersPerQuestion,
		Images:             quiz.ImageFilter{Subtypes: c.ImageSubtypes},
	}
}

func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
