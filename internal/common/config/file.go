package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML layout. Empty values leave the defaults untouched.
type fileConfig struct {
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`
	Remote      struct {
		BaseURL   string `yaml:"base_url"`
		Timeout   string `yaml:"timeout"`
		UserAgent string `yaml:"user_agent"`
	} `yaml:"remote"`
	Transport string `yaml:"transport"`
	HTTP      struct {
		Addr      string `yaml:"addr"`
		JWTSecret string `yaml:"jwt_secret"`
		JWTScope  string `yaml:"jwt_scope"`
	} `yaml:"http"`
	AWS struct {
		Region              string `yaml:"region"`
		AuditTable          string `yaml:"audit_table"`
		APIKeySecretID      string `yaml:"api_key_secret_id"`
		APIKeyKMSCiphertext string `yaml:"api_key_kms_ciphertext"`
	} `yaml:"aws"`
}

// applyFile reads a YAML file; ${VAR} references are expanded first.
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	expanded := os.ExpandEnv(string(data))

	var fc fileConfig
	if err := yaml.Unmarshal([]byte(expanded), &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.Environment, fc.Environment)
	set(&c.LogLevel, fc.LogLevel)
	set(&c.BaseURL, fc.Remote.BaseURL)
	set(&c.UserAgent, fc.Remote.UserAgent)
	set(&c.Transport, fc.Transport)
	set(&c.HTTPAddr, fc.HTTP.Addr)
	set(&c.JWTSecret, fc.HTTP.JWTSecret)
	set(&c.JWTScope, fc.HTTP.JWTScope)
	set(&c.AWSRegion, fc.AWS.Region)
	set(&c.AuditTableName, fc.AWS.AuditTable)
	set(&c.APIKeySecretID, fc.AWS.APIKeySecretID)
	set(&c.APIKeyKMSCiphertext, fc.AWS.APIKeyKMSCiphertext)

	if fc.Remote.Timeout != "" {
		d, err := parseTimeout(fc.Remote.Timeout)
		if err != nil {
			return fmt.Errorf("config file %s: remote.timeout: %w", path, err)
		}
		c.Timeout = d
	}
	return nil
}
