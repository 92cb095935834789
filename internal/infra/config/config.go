// Where: internal/infra/config/config.go
// What: Run configuration load/save with schema validation.
// Why: Manage <project>/.esb/concurrency.yaml consistently and reject typos early.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/poruru/esb-concurrency/internal/constants"
	"github.com/poruru/esb-concurrency/internal/domain/capacity"
	"github.com/poruru/esb-concurrency/internal/meta"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
	sigsyaml "sigs.k8s.io/yaml"
)

const schemaURL = "concurrency.schema.json"

//go:embed schema.json
var schemaJSON []byte

var (
	schemaOnce     sync.Once
	schemaErr      error
	compiledSchema *jsonschema.Schema

	errProjectRootRequired = errors.New("project root is required")
)

// RunConfig holds per-project settings for reconciliation runs.
type RunConfig struct {
	Version             int               `yaml:"version"`
	MarginPercent       int               `yaml:"marginPercent,omitempty"`
	Concurrency         int               `yaml:"concurrency,omitempty"`
	PollIntervalSeconds int               `yaml:"pollIntervalSeconds,omitempty"`
	PollAttempts        int               `yaml:"pollAttempts,omitempty"`
	Region              string            `yaml:"region,omitempty"`
	Endpoint            string            `yaml:"endpoint,omitempty"`
	Local               LocalConfig       `yaml:"local,omitempty"`
	ExcludeFunctions    []string          `yaml:"excludeFunctions,omitempty"`
	NameTemplate        string            `yaml:"nameTemplate,omitempty"`
	NameVars            map[string]string `yaml:"nameVars,omitempty"`
	ReportTable         string            `yaml:"reportTable,omitempty"`
}

// LocalConfig targets a compose-managed Lambda emulator instead of AWS.
type LocalConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	Project string `yaml:"project,omitempty"`
}

// DefaultRunConfig returns the settings used when no file exists.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Version:             1,
		MarginPercent:       capacity.DefaultMarginPercent,
		PollIntervalSeconds: 10,
		PollAttempts:        30,
		ExcludeFunctions:    []string{"*-warmup-plugin*", "*warmer*"},
		NameTemplate:        "{{ .Name }}",
	}
}

// PollInterval returns the poll interval as a duration.
func (c RunConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// ConfigPath returns the path of the project's run configuration.
func ConfigPath(projectRoot string) (string, error) {
	root := strings.TrimSpace(projectRoot)
	if root == "" {
		return "", errProjectRootRequired
	}
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return filepath.Join(root, meta.HomeDir, meta.ConfigFile), nil
}

// LoadRunConfig reads path over the defaults. A missing file yields the defaults.
func LoadRunConfig(path string) (RunConfig, error) {
	cfg := DefaultRunConfig()
	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return RunConfig{}, fmt.Errorf("read run config: %w", err)
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return cfg, nil
	}
	if err := validateDocument(payload); err != nil {
		return RunConfig{}, fmt.Errorf("validate run config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(payload, &cfg); err != nil {
		return RunConfig{}, fmt.Errorf("decode run config: %w", err)
	}
	return cfg, nil
}

// SaveRunConfig writes cfg to path, creating the parent directory.
func SaveRunConfig(path string, cfg RunConfig) error {
	payload, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("encode run config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create run config dir: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		return fmt.Errorf("write run config: %w", err)
	}
	return nil
}

// ApplyEnv overlays ESB_CONCURRENCY_* variables. Unparseable numbers are reported.
func ApplyEnv(cfg RunConfig) (RunConfig, error) {
	intVars := []struct {
		key    string
		target *int
	}{
		{constants.EnvMarginPercent, &cfg.MarginPercent},
		{constants.EnvConcurrency, &cfg.Concurrency},
	}
	for _, item := range intVars {
		raw := strings.TrimSpace(os.Getenv(item.key))
		if raw == "" {
			continue
		}
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return RunConfig{}, fmt.Errorf("parse %s: %w", item.key, err)
		}
		*item.target = parsed
	}
	if cfg.MarginPercent < 1 || cfg.MarginPercent > 100 {
		return RunConfig{}, fmt.Errorf("margin percent must be within 1..100, got %d", cfg.MarginPercent)
	}
	if value := strings.TrimSpace(os.Getenv(constants.EnvRegion)); value != "" {
		cfg.Region = value
	}
	if value := strings.TrimSpace(os.Getenv(constants.EnvEndpoint)); value != "" {
		cfg.Endpoint = value
	}
	if value := strings.TrimSpace(os.Getenv(constants.EnvReportTable)); value != "" {
		cfg.ReportTable = value
	}
	if value := strings.TrimSpace(os.Getenv(constants.EnvProjectName)); value != "" && cfg.Local.Project == "" {
		cfg.Local.Project = value
	}
	return cfg, nil
}

func validateDocument(payload []byte) error {
	sch, err := loadSchema()
	if err != nil {
		return err
	}
	jsonData, err := sigsyaml.YAMLToJSON(payload)
	if err != nil {
		return fmt.Errorf("convert yaml to json: %w", err)
	}
	var document any
	if err := json.Unmarshal(jsonData, &document); err != nil {
		return fmt.Errorf("unmarshal json: %w", err)
	}
	return sch.Validate(document)
}

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}
