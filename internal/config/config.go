// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	ConfigDirName  = "bucketwarden"
	ConfigFileName = "config.yaml"

	// ConfigPathEnv overrides the default config file location (mainly for
	// scripting and tests).
	ConfigPathEnv = "BUCKETWARDEN_CONFIG"
)

type S3Settings struct {
	Endpoint        string `mapstructure:"endpoint" validate:"omitempty,url"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	VerifySSL       bool   `mapstructure:"verify_ssl"`
	CABundle        string `mapstructure:"ca_bundle"`
}

type GCPSettings struct {
	Project string `mapstructure:"project"`
}

type Config struct {
	S3  *S3Settings  `mapstructure:"s3"`
	GCP *GCPSettings `mapstructure:"gcp"`
}

// Keys that may be persisted to the config file via 'config set'.
var persistableKeys = map[string]bool{
	"s3.endpoint":   true,
	"s3.region":     true,
	"s3.verify_ssl": true,
	"s3.ca_bundle":  true,
	"gcp.project":   true,
}

// Credentials are environment-only and must never end up in the config file.
var secretKeys = map[string]bool{
	"s3.access_key_id":     true,
	"s3.secret_access_key": true,
}

// Environment bindings follow the variable surface the surrounding tooling
// (CronJob templates, CI) already exports.
var envBindings = map[string]string{
	"s3.endpoint":          "S3_ENDPOINT",
	"s3.access_key_id":     "AWS_ACCESS_KEY_ID",
	"s3.secret_access_key": "AWS_SECRET_ACCESS_KEY",
	"s3.region":            "AWS_DEFAULT_REGION",
	"s3.verify_ssl":        "AWS_VERIFY_SSL",
	"s3.ca_bundle":         "S3_CA_BUNDLE",
	"gcp.project":          "GCP_PROJECT",
}

var validate = validator.New()

// ConfigManager layers the config file under the process environment and
// exposes the get/set/delete operations behind the config command.
type ConfigManager struct {
	v    *viper.Viper
	path string
}

func NewConfigManager() (*ConfigManager, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("s3.verify_ssl", false)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env-only operation is the common
		// case for scheduled invocations.
		if !os.IsNotExist(err) {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return nil, fmt.Errorf("error reading config file %s: %w", path, err)
			}
		}
	}

	return &ConfigManager{v: v, path: path}, nil
}

func resolveConfigPath() (string, error) {
	if override := os.Getenv(ConfigPathEnv); override != "" {
		return override, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error getting user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", ConfigDirName, ConfigFileName), nil
}

// LoadConfig decodes the layered settings into the typed Config and validates it.
func (m *ConfigManager) LoadConfig() (*Config, error) {
	var config Config
	err := m.v.Unmarshal(&config, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
	})
	if err != nil {
		return nil, fmt.Errorf("error decoding configuration: %w", err)
	}

	if err := validate.Struct(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func (m *ConfigManager) SetValue(key, value string) error {
	key = strings.ToLower(key)

	if secretKeys[key] {
		return fmt.Errorf("%s holds a credential and is supplied via the %s environment variable, never the config file", key, envBindings[key])
	}
	if !persistableKeys[key] {
		return fmt.Errorf("unknown config key: %s. Use format 'provider.key' (e.g., 's3.endpoint' or 'gcp.project')", key)
	}

	settings, err := m.readFileSettings()
	if err != nil {
		return err
	}
	setNested(settings, key, value)

	if err := m.writeFileSettings(settings); err != nil {
		return err
	}

	// Refresh the file layer rather than calling viper's Set: Set sits above
	// the env layer and would let a file value outrank the environment.
	return m.refresh()
}

func (m *ConfigManager) GetValue(key string) (string, bool) {
	key = strings.ToLower(key)
	if !m.v.IsSet(key) {
		return "", false
	}
	value := m.v.GetString(key)
	return value, value != ""
}

func (m *ConfigManager) DeleteValue(key string) (bool, error) {
	key = strings.ToLower(key)

	settings, err := m.readFileSettings()
	if err != nil {
		return false, err
	}

	if !deleteNested(settings, key) {
		return false, nil
	}

	if err := m.writeFileSettings(settings); err != nil {
		return false, err
	}
	if err := m.refresh(); err != nil {
		return false, err
	}
	return true, nil
}

// refresh reloads the file layer so in-process reads see the rewritten file
// while environment bindings keep their precedence.
func (m *ConfigManager) refresh() error {
	if err := m.v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		if _, notFound := err.(viper.ConfigFileNotFoundError); notFound {
			return nil
		}
		return fmt.Errorf("error reloading config file %s: %w", m.path, err)
	}
	return nil
}

func (m *ConfigManager) GetAllSettings() map[string]interface{} {
	return m.v.AllSettings()
}

func (m *ConfigManager) Path() string {
	return m.path
}

func (m *ConfigManager) readFileSettings() (map[string]interface{}, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]interface{}{}, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	settings := map[string]interface{}{}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	return settings, nil
}

func (m *ConfigManager) writeFileSettings(settings map[string]interface{}) error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}

	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}

func setNested(settings map[string]interface{}, key, value string) {
	parts := strings.SplitN(key, ".", 2)
	if len(parts) == 1 {
		settings[key] = value
		return
	}

	section, ok := settings[parts[0]].(map[string]interface{})
	if !ok {
		section = map[string]interface{}{}
		settings[parts[0]] = section
	}
	section[parts[1]] = value
}

func deleteNested(settings map[string]interface{}, key string) bool {
	parts := strings.SplitN(key, ".", 2)
	if len(parts) == 1 {
		if _, ok := settings[key]; !ok {
			return false
		}
		delete(settings, key)
		return true
	}

	section, ok := settings[parts[0]].(map[string]interface{})
	if !ok {
		return false
	}
	if _, ok := section[parts[1]]; !ok {
		return false
	}
	delete(section, parts[1])
	if len(section) == 0 {
		delete(settings, parts[0])
	}
	return true
}
