package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/flatroutes-dev/flatroutes/internal/errors"
	"github.com/flatroutes-dev/flatroutes/pkg/flatroutes"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "flatroutes.json"

	// DefaultPort is the default development server port.
	DefaultPort = 3000

	// DefaultHost is the default development server host.
	DefaultHost = "localhost"

	// DefaultRoutesDir is the default routes directory.
	DefaultRoutesDir = "app/routes"

	// DefaultManifestOutput is the default manifest output path.
	DefaultManifestOutput = "routes.json"
)

// Config represents the complete flatroutes.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Version is the project version.
	Version string `json:"version,omitempty"`

	// Routes contains route scanning configuration.
	Routes RoutesConfig `json:"routes,omitempty"`

	// Dev contains development server configuration.
	Dev DevConfig `json:"dev,omitempty"`

	// Publish contains manifest publishing configuration.
	Publish PublishConfig `json:"publish,omitempty"`

	// Output is the path the compiled manifest is written to.
	Output string `json:"output,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// RoutesConfig contains route scanning settings.
type RoutesConfig struct {
	// Dir is the directory containing route files.
	Dir string `json:"dir,omitempty"`

	// Extensions lists the file extensions treated as route files.
	Extensions []string `json:"extensions,omitempty"`

	// Ignore contains base-name glob patterns to skip while scanning.
	Ignore []string `json:"ignore,omitempty"`
}

// DevConfig contains development server settings.
type DevConfig struct {
	// Port is the port to run the dev server on.
	Port int `json:"port,omitempty"`

	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// DebounceMs is the file watcher debounce window in milliseconds.
	DebounceMs int `json:"debounceMs,omitempty"`
}

// PublishConfig contains manifest publishing settings.
type PublishConfig struct {
	// Bucket is the S3 bucket manifests are uploaded to.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is the key prefix inside the bucket.
	Prefix string `json:"prefix,omitempty"`

	// Region is the bucket's AWS region.
	Region string `json:"region,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Version: "0.1.0",
		Routes: RoutesConfig{
			Dir:        DefaultRoutesDir,
			Extensions: flatroutes.DefaultExtensions,
			Ignore:     flatroutes.DefaultIgnore,
		},
		Dev: DevConfig{
			Port:       DefaultPort,
			Host:       DefaultHost,
			DebounceMs: 100,
		},
		Publish: PublishConfig{
			Prefix: "manifests",
		},
		Output: DefaultManifestOutput,
	}
}

// Load reads configuration from the specified directory.
// It looks for flatroutes.json in the directory.
func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	return LoadFile(configPath)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E100").
				WithDetail("No flatroutes.json found in " + filepath.Dir(path)).
				WithSuggestion("Create flatroutes.json or pass --routes explicitly")
		}
		return nil, errors.New("E101").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E101").
			WithDetail("Failed to parse flatroutes.json: " + err.Error()).
			WithSuggestion("Check that flatroutes.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E101").Wrap(err)
	}

	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E101").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Routes.Dir == "" {
		c.Routes.Dir = DefaultRoutesDir
	}
	if c.Routes.Extensions == nil {
		c.Routes.Extensions = flatroutes.DefaultExtensions
	}
	if c.Routes.Ignore == nil {
		c.Routes.Ignore = flatroutes.DefaultIgnore
	}

	if c.Dev.Port == 0 {
		c.Dev.Port = DefaultPort
	}
	if c.Dev.Host == "" {
		c.Dev.Host = DefaultHost
	}
	if c.Dev.DebounceMs == 0 {
		c.Dev.DebounceMs = 100
	}

	if c.Publish.Prefix == "" {
		c.Publish.Prefix = "manifests"
	}

	if c.Output == "" {
		c.Output = DefaultManifestOutput
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Dev.Port < 0 || c.Dev.Port > 65535 {
		return errors.New("E103").
			WithDetail("Port must be between 0 and 65535")
	}
	return nil
}

// DevAddress returns the address string for the dev server.
func (c *Config) DevAddress() string {
	return c.Dev.Host + ":" + itoa(c.Dev.Port)
}

// DevURL returns the full URL for the dev server.
func (c *Config) DevURL() string {
	return "http://" + c.DevAddress()
}

// RoutesPath returns the absolute path to the routes directory.
func (c *Config) RoutesPath() string {
	path := c.Routes.Dir
	if path == "" {
		path = DefaultRoutesDir
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// OutputPath returns the absolute path to the manifest output file.
func (c *Config) OutputPath() string {
	path := c.Output
	if path == "" {
		path = DefaultManifestOutput
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Walker builds a route file walker from the configuration.
func (c *Config) Walker() *flatroutes.Walker {
	return &flatroutes.Walker{
		RootDir:    c.RoutesPath(),
		Extensions: c.Routes.Extensions,
		Ignore:     c.Routes.Ignore,
	}
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	path := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(path)
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing flatroutes.json, or an error if not
// found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E120").
				WithDetail("No flatroutes.json found in " + startDir + " or any parent directory").
				WithSuggestion("Create flatroutes.json in your project root")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}

// itoa converts int to string without importing strconv.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	if n < 0 {
		return "-" + itoa(-n)
	}
	digits := make([]byte, 0, 10)
	for n > 0 {
		digits = append(digits, byte('0'+n%10))
		n /= 10
	}
	// Reverse
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return string(digits)
}
