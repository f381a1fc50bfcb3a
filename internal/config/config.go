// internal/config/config.go
//
// This package handles project configuration and the directory layout.
// Every project gets a .airul.json at its root and an .airul/ folder for
// logs, next to the docs/ and .cursor/ lifecycle directories.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"

	"github.com/kingrea/airul/internal/workflow"
)

const (
	// FileName is the project configuration file at the project root.
	FileName = ".airul.json"
	// StateDir holds tool-owned state such as logs.
	StateDir = ".airul"
	// ProjectDirEnv overrides the working directory as project root.
	ProjectDirEnv = "AIRUL_PROJECT_DIR"
)

// Output selects which single-file context outputs are written.
type Output struct {
	Cursor     bool   `json:"cursor,omitempty"`
	Windsurf   bool   `json:"windsurf,omitempty"`
	Copilot    bool   `json:"copilot,omitempty"`
	Cline      bool   `json:"cline,omitempty"`
	CustomPath string `json:"customPath,omitempty"`
}

// Any reports whether at least one output is enabled.
func (o Output) Any() bool {
	return o.Cursor || o.Windsurf || o.Copilot || o.Cline || o.CustomPath != ""
}

// Template customizes how aggregated sources are joined.
type Template struct {
	Separator  string `json:"separator,omitempty"`
	FileHeader string `json:"fileHeader,omitempty"`
}

// ProjectConfig models .airul.json.
type ProjectConfig struct {
	Sources  []string `json:"sources" validate:"required,min=1,dive,required"`
	Output   Output   `json:"output"`
	Template Template `json:"template"`
}

// Config holds the runtime configuration for one project.
type Config struct {
	// ProjectDir is the project root every relative path resolves against.
	ProjectDir string

	Project ProjectConfig
}

// DefaultSources are used when .airul.json is absent.
var DefaultSources = []string{
	"TODO-AI.md",
	"README.md",
	"docs/ideas/*.yaml",
	"docs/draft/*.yaml",
	".cursor/rules/*.mdc",
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Sources: append([]string(nil), DefaultSources...),
		Output:  Output{Windsurf: true, Cursor: true},
	}
}

const projectSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "sources": {
      "type": "array",
      "items": { "type": "string", "minLength": 1 }
    },
    "output": {
      "type": "object",
      "properties": {
        "cursor": { "type": "boolean" },
        "windsurf": { "type": "boolean" },
        "copilot": { "type": "boolean" },
        "cline": { "type": "boolean" },
        "customPath": { "type": "string" }
      }
    },
    "template": {
      "type": "object",
      "properties": {
        "separator": { "type": "string" },
        "fileHeader": { "type": "string" }
      }
    }
  }
}`

var validate = validator.New()

// ResolveProjectDir returns the project root: AIRUL_PROJECT_DIR when set,
// otherwise fallback.
func ResolveProjectDir(fallback string) string {
	if dir := strings.TrimSpace(os.Getenv(ProjectDirEnv)); dir != "" {
		return dir
	}
	return fallback
}

// InitProjectDirs creates the lifecycle directories and the log directory.
//
// Structure created:
// docs/
// ├── ideas/        <- author-written idea files
// ├── ideas-draft/  <- implementation drafts
// └── rules-draft/  <- rule drafts
// .cursor/
// └── rules/        <- compiled .mdc rules
// .airul/
// └── logs/
func InitProjectDirs(projectDir string) error {
	if err := workflow.New(projectDir).Initialize(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(projectDir, StateDir, "logs"), 0o755); err != nil {
		return fmt.Errorf("config: ensure log dir: %w", err)
	}
	return nil
}

// Load reads .airul.json from projectDir. A missing file yields the
// defaults; fields absent from the file keep their defaults and output
// flags are merged over the default outputs.
func Load(projectDir string) (*Config, error) {
	cfg := &Config{ProjectDir: projectDir, Project: defaultProjectConfig()}
	path := cfg.ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	project, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", FileName, err)
	}
	cfg.Project = project
	return cfg, nil
}

// Parse validates raw .airul.json content and merges it over the defaults.
func Parse(data []byte) (ProjectConfig, error) {
	if err := validateSchema(data); err != nil {
		return ProjectConfig{}, err
	}
	var raw struct {
		Sources  []string        `json:"sources"`
		Output   map[string]any  `json:"output"`
		Template json.RawMessage `json:"template"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return ProjectConfig{}, fmt.Errorf("parse: %w", err)
	}
	project := defaultProjectConfig()
	if len(raw.Sources) > 0 {
		project.Sources = raw.Sources
	}
	if raw.Output != nil {
		merged, err := mergeOutput(project.Output, raw.Output)
		if err != nil {
			return ProjectConfig{}, err
		}
		project.Output = merged
	}
	if len(raw.Template) > 0 {
		if err := json.Unmarshal(raw.Template, &project.Template); err != nil {
			return ProjectConfig{}, fmt.Errorf("parse template: %w", err)
		}
	}
	if err := validate.Struct(project); err != nil {
		return ProjectConfig{}, fmt.Errorf("invalid: %w", err)
	}
	return project, nil
}

func mergeOutput(base Output, overrides map[string]any) (Output, error) {
	encoded, err := json.Marshal(overrides)
	if err != nil {
		return base, fmt.Errorf("parse output: %w", err)
	}
	// unmarshalling onto base keeps every flag the file leaves out
	if err := json.Unmarshal(encoded, &base); err != nil {
		return base, fmt.Errorf("parse output: %w", err)
	}
	return base, nil
}

// SchemaError lists every schema violation in a configuration file.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return "schema validation failed: " + strings.Join(e.Problems, "; ")
}

func validateSchema(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(projectSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if result.Valid() {
		return nil
	}
	schemaErr := &SchemaError{}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		schemaErr.Problems = append(schemaErr.Problems, field+": "+desc.Description())
	}
	return schemaErr
}

// ConfigPath returns the on-disk location of .airul.json.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.ProjectDir, FileName)
}

// LogsDir returns the directory holding the journal.
func (c *Config) LogsDir() string {
	return filepath.Join(c.ProjectDir, StateDir, "logs")
}

// JournalPath returns the pipeline journal file.
func (c *Config) JournalPath() string {
	return filepath.Join(c.LogsDir(), "journey.log")
}

// Workflow returns the lifecycle layout of the project.
func (c *Config) Workflow() *workflow.Workflow {
	return workflow.New(c.ProjectDir)
}

// WriteDefault writes .airul.json with the default configuration unless the
// file already exists. It reports whether a file was written.
func WriteDefault(projectDir string) (bool, error) {
	path := filepath.Join(projectDir, FileName)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("config: stat %s: %w", path, err)
	}
	data, err := json.MarshalIndent(defaultProjectConfig(), "", "  ")
	if err != nil {
		return false, fmt.Errorf("config: encode defaults: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return false, fmt.Errorf("config: write %s: %w", path, err)
	}
	return true, nil
}
