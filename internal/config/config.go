// internal/config/config.go
//
// This package handles configuration and the .seedbed directory structure.
// Every project that uses seedbed gets a .seedbed/ folder created in its root.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// SeedbedDir is the name of the directory we create in each project
	SeedbedDir = ".seedbed"

	defaultBatchSize = 50
	defaultDatabase  = "sqlite://" + SeedbedDir + "/seedbed.db"
)

// Environment variables that override config.yaml.
const (
	EnvDatabase    = "SEEDBED_DATABASE"
	EnvSeed        = "SEEDBED_SEED"
	EnvS3AccessKey = "SEEDBED_S3_ACCESS_KEY"
	EnvS3SecretKey = "SEEDBED_S3_SECRET_KEY"
)

// ErrNotInitialized is returned when the project has no .seedbed directory.
var ErrNotInitialized = errors.New("config: project is not initialized (run `seedbed init`)")

const defaultProjectConfigYAML = `# seedbed project configuration
version: 1

# Where generated content is stored. sqlite://path, a plain path, or postgres://...
# SEEDBED_DATABASE overrides this value.
database: sqlite://.seedbed/seedbed.db

# Directories scanned for providers, in order. Each holds
# <source>/generated_content/<entity_type>/<bundle>.(go|yaml|yml).
provider_roots:
  - .seedbed/providers

# Register the compiled providers (tags, users, media, pages, articles, menu links).
builtins: true

# Storage for generated files. driver: local or s3.
files:
  driver: local
  dir: .seedbed/files
  # driver: s3
  # s3:
  #   endpoint: http://localhost:9000
  #   bucket: seedbed
  #   prefix: generated
  #   use_ssl: false
  #   # access_key / secret_key come from SEEDBED_S3_ACCESS_KEY / SEEDBED_S3_SECRET_KEY

generation:
  # 0 picks a time based seed for every run. SEEDBED_SEED overrides this value.
  seed: 0
  # Tracked rows handled per chunk when removing.
  batch_size: 50

metrics:
  # Prometheus textfile written after every run. Leave empty to disable.
  textfile: .seedbed/state/metrics.prom
`

// S3Config describes an S3 compatible bucket.
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region,omitempty"`
	Prefix    string `yaml:"prefix,omitempty"`
	UseSSL    bool   `yaml:"use_ssl"`
	AccessKey string `yaml:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty"`
}

// FilesConfig selects where generated files go.
type FilesConfig struct {
	Driver string   `yaml:"driver"`
	Dir    string   `yaml:"dir,omitempty"`
	S3     S3Config `yaml:"s3,omitempty"`
}

// GenerationConfig tunes content generation.
type GenerationConfig struct {
	Seed      uint64 `yaml:"seed"`
	BatchSize int    `yaml:"batch_size"`
}

// MetricsConfig configures the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// ProjectConfig models .seedbed/config.yaml.
type ProjectConfig struct {
	Version       int              `yaml:"version"`
	Database      string           `yaml:"database"`
	ProviderRoots []string         `yaml:"provider_roots"`
	Builtins      *bool            `yaml:"builtins,omitempty"`
	Files         FilesConfig      `yaml:"files"`
	Generation    GenerationConfig `yaml:"generation"`
	Metrics       MetricsConfig    `yaml:"metrics"`
}

// Config holds the runtime configuration for seedbed.
type Config struct {
	// ProjectDir is the directory seedbed operates on
	ProjectDir string

	// SeedbedProjectDir is ProjectDir/.seedbed
	SeedbedProjectDir string

	Project ProjectConfig
}

// InitProjectDir creates the .seedbed directory structure in the given
// project directory and writes a default config.yaml when none exists, or
// when force is set.
//
// Structure created:
// .seedbed/
// ├── config.yaml
// ├── logs/         <- seedbed.log and the run journal
// ├── state/        <- last-run report, metrics textfile
// ├── files/        <- generated files (local driver)
// └── providers/    <- default provider root, seeded with sample providers
func InitProjectDir(projectDir string, force bool) error {
	seedbedDir := filepath.Join(projectDir, SeedbedDir)
	dirs := []string{
		filepath.Join(seedbedDir, "logs"),
		filepath.Join(seedbedDir, "state"),
		filepath.Join(seedbedDir, "files"),
		filepath.Join(seedbedDir, "providers"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := ensureProjectConfig(filepath.Join(seedbedDir, "config.yaml"), force); err != nil {
		return err
	}
	return writeScaffold(seedbedDir)
}

// NewConfig loads the project configuration. A .env file in the project
// directory is loaded first; variables already set in the environment win.
func NewConfig(projectDir string) (*Config, error) {
	abs, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", projectDir, err)
	}
	seedbedDir := filepath.Join(abs, SeedbedDir)
	if info, err := os.Stat(seedbedDir); err != nil || !info.IsDir() {
		return nil, ErrNotInitialized
	}
	if err := loadDotEnv(filepath.Join(abs, ".env")); err != nil {
		return nil, err
	}

	cfg := &Config{
		ProjectDir:        abs,
		SeedbedProjectDir: seedbedDir,
		Project:           defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.SeedbedProjectDir, "logs")
}

// StateDir returns the path to the state directory
func (c *Config) StateDir() string {
	return filepath.Join(c.SeedbedProjectDir, "state")
}

// JournalPath returns the run journal location
func (c *Config) JournalPath() string {
	return filepath.Join(c.LogsDir(), "journal.log")
}

// ReportPath returns where the last run report is persisted
func (c *Config) ReportPath() string {
	return filepath.Join(c.StateDir(), "last-run.json")
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.SeedbedProjectDir, "config.yaml")
}

// Database returns the effective database DSN.
func (c *Config) Database() string {
	return c.Project.Database
}

// ProviderRoots returns the absolute provider search roots in scan order.
func (c *Config) ProviderRoots() []string {
	return append([]string(nil), c.Project.ProviderRoots...)
}

// BuiltinsEnabled reports whether compiled providers are registered.
func (c *Config) BuiltinsEnabled() bool {
	return c.Project.Builtins == nil || *c.Project.Builtins
}

// Seed returns the configured generator seed, 0 meaning time based.
func (c *Config) Seed() uint64 {
	return c.Project.Generation.Seed
}

// BatchSize returns how many tracked rows a removal handles per chunk.
func (c *Config) BatchSize() int {
	return c.Project.Generation.BatchSize
}

// Files returns the file storage settings.
func (c *Config) Files() FilesConfig {
	return c.Project.Files
}

// MetricsTextfile returns the Prometheus textfile path, empty when disabled.
func (c *Config) MetricsTextfile() string {
	return c.Project.Metrics.Textfile
}

// OverrideDatabase replaces the DSN (e.g. from a CLI flag).
func (c *Config) OverrideDatabase(dsn string) {
	if strings.TrimSpace(dsn) == "" {
		return
	}
	c.Project.Database = normalizeDatabase(c.ProjectDir, dsn)
}

// OverrideSeed replaces the generator seed when non-zero.
func (c *Config) OverrideSeed(seed uint64) {
	if seed != 0 {
		c.Project.Generation.Seed = seed
	}
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	parsed := defaultProjectConfig()
	if err == nil {
		parsed = ProjectConfig{}
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	parsed.applyDefaults()
	if err := parsed.applyEnv(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	parsed.normalize(c.ProjectDir)
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	pc := ProjectConfig{}
	pc.applyDefaults()
	return pc
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if strings.TrimSpace(pc.Database) == "" {
		pc.Database = defaultDatabase
	}
	if len(pc.ProviderRoots) == 0 {
		pc.ProviderRoots = []string{filepath.Join(SeedbedDir, "providers")}
	}
	if strings.TrimSpace(pc.Files.Driver) == "" {
		pc.Files.Driver = "local"
	}
	if strings.TrimSpace(pc.Files.Dir) == "" {
		pc.Files.Dir = filepath.Join(SeedbedDir, "files")
	}
	if pc.Generation.BatchSize <= 0 {
		pc.Generation.BatchSize = defaultBatchSize
	}
}

func (pc *ProjectConfig) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvDatabase)); v != "" {
		pc.Database = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSeed)); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeed, err)
		}
		pc.Generation.Seed = seed
	}
	if v := os.Getenv(EnvS3AccessKey); v != "" {
		pc.Files.S3.AccessKey = v
	}
	if v := os.Getenv(EnvS3SecretKey); v != "" {
		pc.Files.S3.SecretKey = v
	}
	return nil
}

func (pc *ProjectConfig) normalize(base string) {
	pc.Database = normalizeDatabase(base, pc.Database)
	roots := make([]string, 0, len(pc.ProviderRoots))
	for _, root := range pc.ProviderRoots {
		if resolved := resolvePath(base, root); resolved != "" {
			roots = append(roots, resolved)
		}
	}
	pc.ProviderRoots = roots
	pc.Files.Driver = strings.ToLower(strings.TrimSpace(pc.Files.Driver))
	pc.Files.Dir = resolvePath(base, pc.Files.Dir)
	pc.Files.S3.Endpoint = strings.TrimSpace(pc.Files.S3.Endpoint)
	pc.Files.S3.Bucket = strings.TrimSpace(pc.Files.S3.Bucket)
	pc.Metrics.Textfile = resolvePath(base, pc.Metrics.Textfile)
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	switch pc.Files.Driver {
	case "local":
		if pc.Files.Dir == "" {
			return fmt.Errorf("files.dir is required for the local driver")
		}
	case "s3":
		if pc.Files.S3.Endpoint == "" || pc.Files.S3.Bucket == "" {
			return fmt.Errorf("files.s3.endpoint and files.s3.bucket are required for the s3 driver")
		}
	default:
		return fmt.Errorf("files.driver must be 'local' or 's3'")
	}
	if pc.Generation.BatchSize < 1 {
		return fmt.Errorf("generation.batch_size must be >= 1")
	}
	return nil
}

// normalizeDatabase resolves relative sqlite paths against base. Postgres
// DSNs and in-memory databases are returned unchanged.
func normalizeDatabase(base, dsn string) string {
	trimmed := strings.TrimSpace(dsn)
	lower := strings.ToLower(trimmed)
	switch {
	case trimmed == "", trimmed == ":memory:":
		return trimmed
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return trimmed
	case strings.HasPrefix(lower, "sqlite://"):
		rest := trimmed[len("sqlite://"):]
		if rest == ":memory:" || strings.HasPrefix(rest, "file:") {
			return trimmed
		}
		return "sqlite://" + resolvePath(base, rest)
	default:
		return "sqlite://" + resolvePath(base, trimmed)
	}
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}

func ensureProjectConfig(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0o644)
}
