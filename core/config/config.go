// Package config holds the on-disk configuration of a hostsh
// installation: the interpreter defaults and the SSH front-end settings,
// stored as YAML in a configuration directory.
package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

//go:embed default/config.yaml
var defaultConfigData []byte

const (
	ConfigurationName = "config.yaml"
	PrivateKeyName    = "private_key"
	HistoryName       = "history"
	AppLogName        = "app.log"
	SessionLogsName   = "session_logs"
)

// Config is the root of the configuration file.
type Config struct {
	configFs afero.Fs

	// Motd is printed once when an interactive session starts.
	Motd string `json:"motd"`

	// Prompt is the string printed before each line read.
	Prompt string `json:"prompt" validate:"required"`

	// Env seeds the session variable table, KEY=value entries.
	Env []string `json:"env"`

	// AllowExternal permits dispatching names not in the registry as
	// host processes found on PATH.
	AllowExternal bool `json:"allow_external"`

	SSH SSH `json:"ssh"`
}

// SSH configures the network front-end.
type SSH struct {
	Port   int    `json:"port" validate:"gte=0,lte=65535"`
	Banner string `json:"banner"`

	// OutputRateBytes throttles session output, bytes per second.
	// Zero disables throttling.
	OutputRateBytes int64 `json:"output_rate_bytes" validate:"gte=0"`

	// RecordSessions writes a transcript of every session's terminal
	// traffic under session_logs.
	RecordSessions bool `json:"record_sessions"`
}

// Validate the configuration for basic semantic errors.
func (c *Config) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})

	return validate.Struct(c)
}

func (c *Config) fs() afero.Fs {
	return c.configFs
}

// PrivateKeyPem returns the bytes of the SSH host key.
func (c *Config) PrivateKeyPem() ([]byte, error) {
	return afero.ReadFile(c.fs(), PrivateKeyName)
}

// OpenAppLog opens the application log in an append only state.
func (c *Config) OpenAppLog() (afero.File, error) {
	return c.fs().OpenFile(AppLogName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// CreateSessionLog creates a session transcript with the given name.
func (c *Config) CreateSessionLog(name string) (afero.File, error) {
	return c.fs().Create(filepath.Join(SessionLogsName, name))
}

// HistoryFile opens the shared line history, creating it if needed.
func (c *Config) HistoryFile() (afero.File, error) {
	return c.fs().OpenFile(HistoryName, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0600)
}

func defaultConfig() *Config {
	var out Config
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
