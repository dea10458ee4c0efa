// Optional YAML config file supplying defaults for command-line options.
package main

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

// configEnv names the environment variable holding the default config path.
const configEnv = "HTML2DOCBOOK_CONFIG"

// maxConfigSize limits config file input to prevent memory exhaustion (1MB).
var maxConfigSize = 1 << 20

// fileConfig mirrors the options a config file may set. Unknown keys are
// rejected. Pointer fields distinguish "false" from "not set".
type fileConfig struct {
	WrapParagraphs  *bool  `yaml:"wrap-paragraphs"`
	InvisibleSpace  *bool  `yaml:"invisible-space"`
	Standalone      string `yaml:"standalone"`
	Timeout         string `yaml:"timeout"`
	UserAgent       string `yaml:"user-agent"`
	Proxy           string `yaml:"proxy"`
	MaxResponseSize int64  `yaml:"max-response-size"` // megabytes
	Concurrency     int    `yaml:"concurrency"`
	LogLevel        string `yaml:"log-level"`
}

// loadConfig reads and strictly decodes a config file. An empty file is
// valid and sets nothing.
func loadConfig(path string) (fileConfig, error) {
	var fc fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("reading config: %w", err)
	}
	if len(data) > maxConfigSize {
		return fc, fmt.Errorf("%w: %s is %d bytes (max %d)", ErrConfigTooLarge, path, len(data), maxConfigSize)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return fc, nil
	}
	if err := yaml.UnmarshalWithOptions(data, &fc, yaml.Strict()); err != nil {
		return fc, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	return fc, nil
}

// apply copies file values into cfg for every option the command line did
// not set explicitly. changed reports whether a flag was given.
func (fc fileConfig) apply(cfg *cliConfig, changed func(name string) bool) error {
	if fc.WrapParagraphs != nil && !changed("para") {
		cfg.para = *fc.WrapParagraphs
	}
	if fc.InvisibleSpace != nil && !changed("invisible-space") {
		cfg.invisibleSpace = *fc.InvisibleSpace
	}
	if fc.Standalone != "" && !changed("standalone") {
		cfg.standalone = fc.Standalone
	}
	if fc.Timeout != "" && !changed("timeout") {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return fmt.Errorf("%w: timeout %q: %v", ErrInvalidConfig, fc.Timeout, err)
		}
		cfg.fetch.timeout = d
	}
	if fc.UserAgent != "" && !changed("user-agent") {
		cfg.fetch.userAgent = fc.UserAgent
	}
	if fc.Proxy != "" && !changed("proxy") {
		cfg.fetch.proxy = fc.Proxy
	}
	if fc.MaxResponseSize < 0 {
		return fmt.Errorf("%w: max-response-size must not be negative", ErrInvalidConfig)
	}
	if fc.MaxResponseSize > 0 && !changed("max-response-size") {
		cfg.fetch.maxBytes = fc.MaxResponseSize * 1024 * 1024
	}
	if fc.Concurrency != 0 && !changed("concurrency") {
		cfg.concurrency = fc.Concurrency
	}
	if fc.LogLevel != "" && !changed("log-level") {
		cfg.logLevel = fc.LogLevel
	}
	return nil
}
