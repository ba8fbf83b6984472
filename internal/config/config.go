// Package config loads the esadvisor YAML configuration file.
package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Defaults applied by ReadFile for any field left empty.
const (
	DefaultSchedule       = "@every 30s"
	DefaultHistorySize    = 60
	DefaultListen         = ":8080"
	DefaultRequestTimeout = 10 * time.Second
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
)

// Cluster is one monitored Elasticsearch cluster.
type Cluster struct {
	Name               string        `yaml:"name"`
	URL                string        `yaml:"url"`
	Username           string        `yaml:"username,omitempty"`
	Password           string        `yaml:"password,omitempty"`
	InsecureSkipVerify bool          `yaml:"insecureSkipVerify,omitempty"`
	RequestTimeout     time.Duration `yaml:"requestTimeout,omitempty"`
}

// Config is the top-level configuration file.
type Config struct {
	Clusters []Cluster `yaml:"clusters"`

	Poll struct {
		Schedule    string `yaml:"schedule"`
		HistorySize int    `yaml:"historySize"`
	} `yaml:"poll"`

	Server struct {
		Listen string `yaml:"listen"`
	} `yaml:"server"`

	Notifications struct {
		Slack struct {
			WebhookURL string `yaml:"webhookUrl,omitempty"`
			Channel    string `yaml:"channel,omitempty"`
		} `yaml:"slack,omitempty"`
	} `yaml:"notifications,omitempty"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Unmarshal decodes YAML without applying defaults or validation.
func Unmarshal(bytes []byte) (config Config, err error) {
	err = yaml.Unmarshal(bytes, &config)
	return config, err
}

// ReadFile reads, expands, defaults and validates the config at filepath.
func ReadFile(filepath string) (config Config, err error) {
	var fileBytes []byte
	fileBytes, err = os.ReadFile(filepath)
	if err != nil {
		return config, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables present in the config
	// This will cause expansion in the following way: field: "$FIELD" -> field: "value_of_field"
	fileExpandedEnv := os.ExpandEnv(string(fileBytes))

	config, err = Unmarshal([]byte(fileExpandedEnv))
	if err != nil {
		return config, fmt.Errorf("parse config: %w", err)
	}

	config.ApplyDefaults()
	if err = config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

// ApplyDefaults fills every unset field with its default.
func (c *Config) ApplyDefaults() {
	if c.Poll.Schedule == "" {
		c.Poll.Schedule = DefaultSchedule
	}
	if c.Poll.HistorySize <= 0 {
		c.Poll.HistorySize = DefaultHistorySize
	}
	if c.Server.Listen == "" {
		c.Server.Listen = DefaultListen
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	for i := range c.Clusters {
		if c.Clusters[i].RequestTimeout <= 0 {
			c.Clusters[i].RequestTimeout = DefaultRequestTimeout
		}
	}
}

// Validate checks that at least one cluster is configured and that every
// cluster has a unique name and an http(s) URL.
func (c *Config) Validate() error {
	if len(c.Clusters) == 0 {
		return fmt.Errorf("config: at least one cluster is required")
	}
	seen := make(map[string]bool, len(c.Clusters))
	for i, cl := range c.Clusters {
		if cl.Name == "" {
			return fmt.Errorf("config: clusters[%d]: name is required", i)
		}
		if seen[cl.Name] {
			return fmt.Errorf("config: clusters[%d]: duplicate name %q", i, cl.Name)
		}
		seen[cl.Name] = true

		u, err := url.Parse(cl.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("config: cluster %q: url must be http:// or https://, got %q", cl.Name, cl.URL)
		}
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}
