// Package config provides a centralized entrypoint for the application parameters.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/creasty/defaults"
	"go.yaml.in/yaml/v3"
)

var (
	// Global is a struct that contains the global configuration.
	Global global
	// Server is a struct that contains the configuration of the webhook service connection.
	Server server
	// Export is a struct that contains the configuration of the export command.
	Export export
	// Manage is a struct that contains the configuration of the interactive session.
	Manage manage
	// Receive is a struct that contains the configuration of the local delivery receiver.
	Receive receive
)

type global struct {
	// Logging is a struct that contains the logging configuration.
	Logging struct {
		// Verbosity is the verbosity level of the application. It represents slog levels.
		Verbosity int `yaml:"verbosity,omitempty"`
		// CallerTrace is a flag that enables the caller trace in the logger.
		CallerTrace bool `yaml:"callerTrace,omitempty"`
	} `yaml:"logging,omitempty"`
	// AssumeYes answers every confirmation prompt positively.
	AssumeYes bool `yaml:"assumeYes,omitempty"`
}

type server struct {
	// URL is the base URL of the webhook service, e.g. https://wa.example.com.
	URL string `yaml:"url,omitempty" default:"http://localhost:3000"`
	// AuthMode is one of none, basic, token or ssm.
	AuthMode string `yaml:"authMode,omitempty" default:"none"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	Token    string `yaml:"token,omitempty"`
	// SSMKey is the SSM parameter holding the API token when AuthMode is ssm.
	SSMKey string `yaml:"ssmKey,omitempty"`
	// Timeout bounds every request. Zero disables it.
	Timeout            time.Duration `yaml:"timeout,omitempty"`
	InsecureSkipVerify bool          `yaml:"insecureSkipVerify,omitempty"`
}

type export struct {
	// Output is the file the export is written to. Empty or "-" means stdout.
	Output string `yaml:"output,omitempty" default:"-"`
	// S3 is a struct that contains the configuration for S3.
	S3 struct {
		BucketName string `yaml:"bucketName,omitempty"`
		Key        string `yaml:"key,omitempty" default:"webhooks.yaml"`
		// Endpoint replaces the AWS endpoint, e.g. for an S3-compatible store.
		Endpoint  string `yaml:"endpoint,omitempty"`
		PathStyle bool   `yaml:"pathStyle,omitempty"`
	} `yaml:"s3,omitempty"`
}

type manage struct {
	// Prompt is printed before each command of the interactive session.
	Prompt string `yaml:"prompt,omitempty" default:"webhooks> "`
}

type receive struct {
	Path    string        `yaml:"path,omitempty" default:"/"`
	Addr    string        `yaml:"addr,omitempty"`
	Port    string        `yaml:"port,omitempty" default:"8080"`
	Timeout time.Duration `yaml:"timeout,omitempty" default:"5s"`
	// Secret enables signature verification of the deliveries.
	Secret string `yaml:"secret,omitempty"`
}

// Reset clears every parameter, including the defaults.
func Reset() {
	Global = global{}
	Server = server{}
	Export = export{}
	Manage = manage{}
	Receive = receive{}
}

// SetDefaults sets the default values for the configuration.
func SetDefaults() error {
	return errors.Join(
		defaults.Set(&Global),
		defaults.Set(&Server),
		defaults.Set(&Export),
		defaults.Set(&Manage),
		defaults.Set(&Receive),
	)
}

// LoadFromFile loads the configuration from a file.
func LoadFromFile(path string) error {
	if len(path) == 0 {
		return nil
	}
	fstat, err := os.Stat(path)
	if err != nil {
		return nil //nolint:nilerr // If the file does not exist, we ignore it.
	}
	if fstat.IsDir() {
		return fmt.Errorf("configuration file %s is a directory", path)
	}
	if !fstat.Mode().IsRegular() {
		return fmt.Errorf("configuration file %s is not a regular file", path)
	}

	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}
	a := struct {
		Global  global  `yaml:"global,omitempty"`
		Server  server  `yaml:"server,omitempty"`
		Export  export  `yaml:"export,omitempty"`
		Manage  manage  `yaml:"manage,omitempty"`
		Receive receive `yaml:"receive,omitempty"`
	}{Global, Server, Export, Manage, Receive}
	if err = yaml.Unmarshal(content, &a); err != nil {
		return fmt.Errorf("failed to unmarshal configuration file %s: %w", path, err)
	}
	Global = a.Global
	Server = a.Server
	Export = a.Export
	Manage = a.Manage
	Receive = a.Receive

	return nil
}
