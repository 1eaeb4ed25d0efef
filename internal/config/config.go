package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/a3tai/mcp-pdf-identity/internal/extract"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort         = 8080
	DefaultHost         = "127.0.0.1"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
	DefaultMaxFileSize  = 100 * 1024 * 1024 // 100MB
	DefaultMinTextChars = 50
	DefaultCacheSize    = 32 * 1024 * 1024 // 32MB
	DefaultNERTimeout   = 5 * time.Second
	DefaultNERRetries   = 2

	// Directory permissions
	DefaultDirPerm = 0o750

	// EnvPrefix prefixes every environment variable, e.g. MCP_IDENTITY_DIR.
	EnvPrefix = "MCP_IDENTITY"
)

// ErrVersionRequested is returned when --version is on the command line.
var ErrVersionRequested = errors.New("version requested")

// Config holds the process configuration of the identity server.
type Config struct {
	// Server configuration
	Mode string `validate:"oneof=stdio server"`
	Host string `validate:"required"`
	Port int

	// Documents
	DocumentDirectory string `validate:"required"`
	MaxFileSize       int64  `validate:"gt=0"`
	MinTextChars      int    `validate:"min=0"`
	CacheSize         int64  `validate:"min=0"`

	// Application configuration
	Version    string
	ServerName string `validate:"required"`
	LogLevel   string `validate:"oneof=debug info warn error"`
	LogFormat  string `validate:"oneof=text json"`

	// NER collaborator; empty URL disables it
	NERURL     string        `validate:"omitempty,url"`
	NERTimeout time.Duration `validate:"min=0"`
	NERRetries int           `validate:"min=0,max=10"`

	// ProfilePath points at an extraction profile overriding extract.Config.
	ProfilePath string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:              ModeStdio,
		Host:              DefaultHost,
		Port:              DefaultPort,
		DocumentDirectory: currentDir,
		MaxFileSize:       DefaultMaxFileSize,
		MinTextChars:      DefaultMinTextChars,
		CacheSize:         DefaultCacheSize,
		Version:           "1.0.0",
		ServerName:        "mcp-pdf-identity",
		LogLevel:          DefaultLogLevel,
		LogFormat:         DefaultLogFormat,
		NERTimeout:        DefaultNERTimeout,
		NERRetries:        DefaultNERRetries,
	}
}

// LoadFromFlags loads configuration from os.Args and the environment.
func LoadFromFlags() (*Config, error) {
	return Load(os.Args[1:])
}

// Load resolves configuration from args, the environment and defaults, in
// that order of precedence, and validates it.
func Load(args []string) (*Config, error) {
	cfg := DefaultConfig()
	if checkVersionFlag(args) {
		return nil, ErrVersionRequested
	}

	v := viper.New()
	setupViperEnvironment(v, cfg)
	flags := defineCommandLineFlags(cfg)
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	populateConfigFromViper(v, cfg)

	if cfg.DocumentDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.DocumentDirectory); err == nil {
			cfg.DocumentDirectory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setupViperEnvironment(v *viper.Viper, cfg *Config) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("mode", cfg.Mode)
	v.SetDefault("host", cfg.Host)
	v.SetDefault("port", cfg.Port)
	v.SetDefault("dir", cfg.DocumentDirectory)
	v.SetDefault("loglevel", cfg.LogLevel)
	v.SetDefault("logformat", cfg.LogFormat)
	v.SetDefault("maxfilesize", cfg.MaxFileSize)
	v.SetDefault("min-text-chars", cfg.MinTextChars)
	v.SetDefault("cache-size", cfg.CacheSize)
	v.SetDefault("ner-url", cfg.NERURL)
	v.SetDefault("ner-timeout", cfg.NERTimeout)
	v.SetDefault("ner-retries", cfg.NERRetries)
	v.SetDefault("profile", cfg.ProfilePath)
}

func defineCommandLineFlags(cfg *Config) *pflag.FlagSet {
	fs := pflag.NewFlagSet("mcp-pdf-identity", pflag.ContinueOnError)
	fs.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP/SSE server")
	fs.String("host", cfg.Host, "Server host address (server mode only)")
	fs.Int("port", cfg.Port, "Server port (server mode only)")
	fs.String("dir", cfg.DocumentDirectory, "Directory containing the documents to analyze")
	fs.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.String("logformat", cfg.LogFormat, "Log format (text, json)")
	fs.Int64("maxfilesize", cfg.MaxFileSize, "Maximum document size in bytes")
	fs.Int("min-text-chars", cfg.MinTextChars, "Minimum text a PDF with images must yield before it is treated as scanned")
	fs.Int64("cache-size", cfg.CacheSize, "Page cache size in bytes (0 disables caching)")
	fs.String("ner-url", cfg.NERURL, "Person NER endpoint (empty disables the NER fallback)")
	fs.Duration("ner-timeout", cfg.NERTimeout, "Timeout for one NER call")
	fs.Int("ner-retries", cfg.NERRetries, "Retries for failed NER calls")
	fs.String("profile", cfg.ProfilePath, "Extraction profile file (YAML, JSON or TOML)")
	fs.Usage = func() { usage(fs) }
	return fs
}

func usage(fs *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "\nMCP PDF Identity - extracts people and identifiers (DNI, CUIL, CUIT, CUIF, matrícula) from legal documents\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	fs.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/expedientes                 # stdio mode\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s --mode=server --port=8081                  # SSE server\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s --profile=profile.yaml --ner-url=http://localhost:9000/ner\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
	for _, name := range []string{"MODE", "HOST", "PORT", "DIR", "LOGLEVEL", "LOGFORMAT", "MAXFILESIZE",
		"MIN_TEXT_CHARS", "NER_URL", "NER_TIMEOUT", "NER_RETRIES", "PROFILE"} {
		fmt.Fprintf(os.Stderr, "  %s_%s\n", EnvPrefix, name)
	}
}

func checkVersionFlag(args []string) bool {
	for _, arg := range args {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return true
		}
	}
	return false
}

func populateConfigFromViper(v *viper.Viper, cfg *Config) {
	cfg.Mode = v.GetString("mode")
	cfg.Host = v.GetString("host")
	cfg.Port = v.GetInt("port")
	cfg.DocumentDirectory = v.GetString("dir")
	cfg.LogLevel = strings.ToLower(v.GetString("loglevel"))
	cfg.LogFormat = strings.ToLower(v.GetString("logformat"))
	cfg.MaxFileSize = v.GetInt64("maxfilesize")
	cfg.MinTextChars = v.GetInt("min-text-chars")
	cfg.CacheSize = v.GetInt64("cache-size")
	cfg.NERURL = v.GetString("ner-url")
	cfg.NERTimeout = v.GetDuration("ner-timeout")
	cfg.NERRetries = v.GetInt("ner-retries")
	cfg.ProfilePath = v.GetString("profile")
}

var validate = validator.New()

// Validate checks the configuration and creates the document directory
// when it does not exist.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if _, err := os.Stat(c.DocumentDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.DocumentDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create document directory %s: %w", c.DocumentDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access document directory %s: %w", c.DocumentDirectory, err)
	}

	if c.ProfilePath != "" {
		if _, err := os.Stat(c.ProfilePath); err != nil {
			return fmt.Errorf("cannot access profile %s: %w", c.ProfilePath, err)
		}
	}
	return nil
}

// Extraction returns the extraction configuration: defaults overridden by
// the profile, if one is set.
func (c *Config) Extraction() (extract.Config, error) {
	cfg := extract.DefaultConfig()
	cfg.NERTimeout = c.NERTimeout
	if c.ProfilePath == "" {
		return cfg, cfg.Validate()
	}
	return LoadProfile(c.ProfilePath, cfg)
}

// LoadProfile reads an extraction profile over base. Keys missing from the
// file keep the values of base.
func LoadProfile(path string, base extract.Config) (extract.Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return base, fmt.Errorf("failed to read profile %s: %w", path, err)
	}
	cfg := base
	if err := v.Unmarshal(&cfg); err != nil {
		return base, fmt.Errorf("failed to decode profile %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return base, fmt.Errorf("profile %s: %w", path, err)
	}
	return cfg, nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, DocumentDirectory: %s, LogLevel: %s, MaxFileSize: %d, NER: %t, Profile: %q}",
		c.Mode, c.Host, c.Port, c.DocumentDirectory, c.LogLevel, c.MaxFileSize, c.NERURL != "", c.ProfilePath)
}

func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
