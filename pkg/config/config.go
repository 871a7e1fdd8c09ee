package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/issuehub/config"
	ConfigFileName    = "issuehub.yml"
)

// Config holds all IssueHub configuration settings
type Config struct {
	// BindAddress is the address the HTTP server listens on
	BindAddress string `yaml:"bind_address" json:"bind_address"`

	// Port is the HTTP server port
	Port string `yaml:"port" json:"port"`

	// TokenSecret is the HMAC secret for signing access tokens
	TokenSecret string `yaml:"token_secret" json:"token_secret"`

	// TokenTTLMinutes is the access token lifetime in minutes
	TokenTTLMinutes int `yaml:"token_ttl_minutes" json:"token_ttl_minutes"`

	// ListLimitMax caps the limit parameter on listing requests
	ListLimitMax int `yaml:"list_limit_max" json:"list_limit_max"`

	// WriteRateCapacity is the token-bucket capacity for mutating requests
	WriteRateCapacity int `yaml:"write_rate_capacity" json:"write_rate_capacity"`

	// WriteRateRefill is the token-bucket refill rate (tokens/second) for mutating requests
	WriteRateRefill float64 `yaml:"write_rate_refill" json:"write_rate_refill"`

	// AuthRateCapacity is the token-bucket capacity for signup/login attempts
	AuthRateCapacity int `yaml:"auth_rate_capacity" json:"auth_rate_capacity"`

	// AuthRateRefill is the token-bucket refill rate (tokens/second) for signup/login attempts
	AuthRateRefill float64 `yaml:"auth_rate_refill" json:"auth_rate_refill"`

	// AuditEnabled controls whether audit events are recorded
	AuditEnabled bool `yaml:"audit_enabled" json:"audit_enabled"`

	// LogLevel is the application log level
	LogLevel string `yaml:"log_level" json:"log_level"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *Config
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// newDefault returns a config with default values
func newDefault() *Config {
	return &Config{
		BindAddress:       "0.0.0.0",
		Port:              "8000",
		TokenSecret:       "",
		TokenTTLMinutes:   60 * 24,
		ListLimitMax:      100,
		WriteRateCapacity: 30,
		WriteRateRefill:   0.5,
		AuthRateCapacity:  10,
		AuthRateRefill:    0.2,
		AuditEnabled:      true,
		LogLevel:          "info",
		sources:           make(map[string]string),
	}
}

// Load loads configuration from file and environment variables
// Environment variables take precedence over file values
func Load() (*Config, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("ISSUEHUB_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig Config
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"bind_address", "port", "token_secret", "token_ttl_minutes",
		"list_limit_max", "write_rate_capacity", "write_rate_refill",
		"auth_rate_capacity", "auth_rate_refill", "audit_enabled", "log_level",
	}
}

func (c *Config) applyFileConfig(file *Config) {
	if file.BindAddress != "" {
		c.BindAddress = file.BindAddress
		c.sources["bind_address"] = "file"
	}
	if file.Port != "" {
		c.Port = file.Port
		c.sources["port"] = "file"
	}
	if file.TokenSecret != "" {
		c.TokenSecret = file.TokenSecret
		c.sources["token_secret"] = "file"
	}
	if file.TokenTTLMinutes != 0 {
		c.TokenTTLMinutes = file.TokenTTLMinutes
		c.sources["token_ttl_minutes"] = "file"
	}
	if file.ListLimitMax != 0 {
		c.ListLimitMax = file.ListLimitMax
		c.sources["list_limit_max"] = "file"
	}
	if file.WriteRateCapacity != 0 {
		c.WriteRateCapacity = file.WriteRateCapacity
		c.sources["write_rate_capacity"] = "file"
	}
	if file.WriteRateRefill != 0 {
		c.WriteRateRefill = file.WriteRateRefill
		c.sources["write_rate_refill"] = "file"
	}
	if file.AuthRateCapacity != 0 {
		c.AuthRateCapacity = file.AuthRateCapacity
		c.sources["auth_rate_capacity"] = "file"
	}
	if file.AuthRateRefill != 0 {
		c.AuthRateRefill = file.AuthRateRefill
		c.sources["auth_rate_refill"] = "file"
	}
	if file.LogLevel != "" {
		c.LogLevel = file.LogLevel
		c.sources["log_level"] = "file"
	}
}

func (c *Config) applyEnvConfig() {
	if val := os.Getenv("ISSUEHUB_BIND_ADDRESS"); val != "" {
		c.BindAddress = val
		c.sources["bind_address"] = "environment"
	}
	if val := os.Getenv("ISSUEHUB_PORT"); val != "" {
		c.Port = val
		c.sources["port"] = "environment"
	}
	if val := os.Getenv("ISSUEHUB_TOKEN_SECRET"); val != "" {
		c.TokenSecret = val
		c.sources["token_secret"] = "environment"
	}
	if val := os.Getenv("ISSUEHUB_TOKEN_TTL_MINUTES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.TokenTTLMinutes = i
			c.sources["token_ttl_minutes"] = "environment"
		}
	}
	if val := os.Getenv("ISSUEHUB_LIST_LIMIT_MAX"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.ListLimitMax = i
			c.sources["list_limit_max"] = "environment"
		}
	}
	if val := os.Getenv("ISSUEHUB_WRITE_RATE_CAPACITY"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.WriteRateCapacity = i
			c.sources["write_rate_capacity"] = "environment"
		}
	}
	if val := os.Getenv("ISSUEHUB_WRITE_RATE_REFILL"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			c.WriteRateRefill = f
			c.sources["write_rate_refill"] = "environment"
		}
	}
	if val := os.Getenv("ISSUEHUB_AUTH_RATE_CAPACITY"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.AuthRateCapacity = i
			c.sources["auth_rate_capacity"] = "environment"
		}
	}
	if val := os.Getenv("ISSUEHUB_AUTH_RATE_REFILL"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			c.AuthRateRefill = f
			c.sources["auth_rate_refill"] = "environment"
		}
	}
	if val := os.Getenv("ISSUEHUB_AUDIT_ENABLED"); val != "" {
		c.AuditEnabled = val == "true" || val == "1"
		c.sources["audit_enabled"] = "environment"
	}
	if val := os.Getenv("ISSUEHUB_LOG_LEVEL"); val != "" {
		c.LogLevel = val
		c.sources["log_level"] = "environment"
	}
}

// ConfigFilePath returns the path to the config file
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *Config) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// TokenTTL returns the access token TTL as a duration
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.TokenSecret == "" {
		return fmt.Errorf("token_secret is required (set ISSUEHUB_TOKEN_SECRET)")
	}
	if c.ListLimitMax < 1 {
		return fmt.Errorf("list_limit_max must be positive, got %d", c.ListLimitMax)
	}
	if c.WriteRateCapacity < 1 || c.AuthRateCapacity < 1 {
		return fmt.Errorf("rate-limit capacities must be positive")
	}
	if c.WriteRateRefill <= 0 || c.AuthRateRefill <= 0 {
		return fmt.Errorf("rate-limit refill rates must be positive")
	}
	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *Config) Attributes() []Attribute {
	secret := ""
	if c.TokenSecret != "" {
		secret = "(set)"
	}
	return []Attribute{
		{Name: "bind_address", Value: c.BindAddress, Source: c.Source("bind_address")},
		{Name: "port", Value: c.Port, Source: c.Source("port")},
		{Name: "token_secret", Value: secret, Source: c.Source("token_secret")},
		{Name: "token_ttl_minutes", Value: strconv.Itoa(c.TokenTTLMinutes), Source: c.Source("token_ttl_minutes")},
		{Name: "list_limit_max", Value: strconv.Itoa(c.ListLimitMax), Source: c.Source("list_limit_max")},
		{Name: "write_rate_capacity", Value: strconv.Itoa(c.WriteRateCapacity), Source: c.Source("write_rate_capacity")},
		{Name: "write_rate_refill", Value: strconv.FormatFloat(c.WriteRateRefill, 'f', -1, 64), Source: c.Source("write_rate_refill")},
		{Name: "auth_rate_capacity", Value: strconv.Itoa(c.AuthRateCapacity), Source: c.Source("auth_rate_capacity")},
		{Name: "auth_rate_refill", Value: strconv.FormatFloat(c.AuthRateRefill, 'f', -1, 64), Source: c.Source("auth_rate_refill")},
		{Name: "audit_enabled", Value: strconv.FormatBool(c.AuditEnabled), Source: c.Source("audit_enabled")},
		{Name: "log_level", Value: c.LogLevel, Source: c.Source("log_level")},
	}
}

// FormatText returns a text representation of the configuration
func (c *Config) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-24s %-24s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-24s %-24s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-24s %-24s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *Config) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
