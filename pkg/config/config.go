// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"bytes"
	stderrors "errors"
	"io"
	"io/fs"
	"net"
	"net/url"
	"os"
	"regexp"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/connaudit/pkg/address"
	"github.com/NVIDIA/connaudit/pkg/errors"
	"github.com/NVIDIA/connaudit/pkg/serializer"
)

// DefaultEnvFile is loaded when present and no env file is named explicitly.
const DefaultEnvFile = ".env"

// Config is the on-disk run configuration. Flags override file values.
type Config struct {
	Store        StoreConfig        `yaml:"store"`
	Cloud        CloudConfig        `yaml:"cloud"`
	Orchestrator OrchestratorConfig `yaml:"orchestrator"`
	Output       OutputConfig       `yaml:"output"`

	// Overrides are manual address to name entries layered over the built-in table.
	Overrides map[string]string `yaml:"overrides,omitempty"`
}

// StoreConfig locates the PostgreSQL store. DSN wins over the discrete fields.
type StoreConfig struct {
	DSN      string `yaml:"dsn,omitempty"`
	Host     string `yaml:"host,omitempty"`
	Port     int    `yaml:"port,omitempty"`
	User     string `yaml:"user,omitempty"`
	Password string `yaml:"password,omitempty"`
	Database string `yaml:"database,omitempty"`
	SSLMode  string `yaml:"sslmode,omitempty"`
}

// CloudConfig controls the EC2 identity source.
type CloudConfig struct {
	Region string `yaml:"region,omitempty"`
	Skip   bool   `yaml:"skip,omitempty"`
}

// OrchestratorConfig controls the Kubernetes identity source.
type OrchestratorConfig struct {
	Kubeconfig string `yaml:"kubeconfig,omitempty"`
	Skip       bool   `yaml:"skip,omitempty"`
}

// OutputConfig controls where and how artifacts are written.
type OutputConfig struct {
	Dir          string `yaml:"dir,omitempty"`
	Format       string `yaml:"format,omitempty"`
	SnapshotName string `yaml:"snapshotName,omitempty"`
	ReportName   string `yaml:"reportName,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Dir:    ".",
			Format: string(serializer.FormatXLSX),
		},
	}
}

// LoadEnv loads variables from the named dotenv files without overriding
// variables already set. With no names it loads DefaultEnvFile if present.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		if _, err := os.Stat(DefaultEnvFile); stderrors.Is(err, fs.ErrNotExist) {
			return nil
		}
		files = []string{DefaultEnvFile}
	}
	if err := godotenv.Load(files...); err != nil {
		return errors.WrapWithContext(errors.ErrCodeInvalidRequest, "failed to load env file", err,
			map[string]any{"files": files})
	}
	return nil
}

// Load reads path over Default. An empty path returns Default.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "failed to read config file", err,
			map[string]any{"path": path})
	}

	if err := cfg.decode(data); err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "failed to parse config file", err,
			map[string]any{"path": path})
	}
	return cfg, nil
}

// Parse decodes YAML data over Default.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "failed to parse config", err)
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(Expand(data)))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !stderrors.Is(err, io.EOF) {
		return err
	}
	return nil
}

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Expand replaces ${VAR} references with environment values. Unset
// variables expand to the empty string. Bare $VAR is left untouched.
func Expand(data []byte) []byte {
	return envRef.ReplaceAllFunc(data, func(m []byte) []byte {
		name := envRef.FindSubmatch(m)[1]
		return []byte(os.Getenv(string(name)))
	})
}

// ConnString returns the pgx connection string for the store.
func (s StoreConfig) ConnString() string {
	if s.DSN != "" {
		return s.DSN
	}
	if s.Host == "" {
		return ""
	}

	host := s.Host
	if s.Port > 0 {
		host = net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
	}

	u := url.URL{Scheme: "postgres", Host: host}
	switch {
	case s.User != "" && s.Password != "":
		u.User = url.UserPassword(s.User, s.Password)
	case s.User != "":
		u.User = url.User(s.User)
	}
	if s.Database != "" {
		u.Path = "/" + s.Database
	}
	if s.SSLMode != "" {
		q := url.Values{}
		q.Set("sslmode", s.SSLMode)
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// Validate checks values shared by every command.
func (c *Config) Validate() error {
	if _, err := serializer.ParseFormat(c.Output.Format); err != nil {
		return errors.WrapWithContext(errors.ErrCodeInvalidRequest, "invalid output format", err,
			map[string]any{"format": c.Output.Format})
	}
	if c.Store.Port < 0 || c.Store.Port > 65535 {
		return errors.NewWithContext(errors.ErrCodeInvalidRequest, "invalid store port",
			map[string]any{"port": c.Store.Port})
	}
	for addr, name := range c.Overrides {
		if !address.IsValid(addr) {
			return errors.NewWithContext(errors.ErrCodeInvalidRequest, "invalid override address",
				map[string]any{"address": addr})
		}
		if name == "" {
			return errors.NewWithContext(errors.ErrCodeInvalidRequest, "override name is empty",
				map[string]any{"address": addr})
		}
	}
	return nil
}

// ValidateStore checks that a store location is configured.
func (c *Config) ValidateStore() error {
	if c.Store.ConnString() == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "store is not configured: set store.dsn or store.host")
	}
	return nil
}
