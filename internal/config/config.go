package config

import (
	"os"
	"strings"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/tliron/commonlog"
)

// DefaultFile is looked up in the working directory when no configuration
// file is named explicitly.
const DefaultFile = "ssagraph.toml"

// Config encapsulates the settings shared by the ssagraph binaries.
type Config struct {
	Log   LogCfg   `toml:"log"`
	Build BuildCfg `toml:"build"`
}

// LogCfg controls logging and terminal output.
type LogCfg struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
	NoColor   bool   `toml:"no_color"`
}

// BuildCfg controls what happens once a script has been run to the end.
type BuildCfg struct {
	ComputeDom bool `toml:"compute_dom" default:"true"`
	Verify     bool `toml:"verify" default:"true"`
}

func logger() commonlog.Logger {
	return commonlog.GetLogger("ssagraph.config")
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Build: BuildCfg{
			ComputeDom: true,
			Verify:     true,
		},
	}
}

// ParseConfig parses the TOML configuration file on top of the defaults.
func ParseConfig(tomlCfgFile string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(tomlCfgFile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read configuration")
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", tomlCfgFile)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid configuration in %s", tomlCfgFile)
	}
	return cfg, nil
}

// ParseConfigOptions returns the defaults with cfgOptions applied.
func ParseConfigOptions(cfgOptions ...Option) *Config {
	cfg := Default()
	cfg.ProcessOptions(cfgOptions...)
	return cfg
}

// Validate rejects settings no binary can honor.
func (c *Config) Validate() error {
	if c.Log.Verbosity < 0 {
		return errors.Errorf("verbosity must not be negative, got %d", c.Log.Verbosity)
	}
	return nil
}

// Option is an option setter function type used to adjust a Config.
type Option func(c *Config)

// OptionVerbosity returns an option setter for the log verbosity.
func OptionVerbosity(v int) Option {
	return func(c *Config) {
		logger().Debugf("Option Verbosity: %d", v)
		c.Log.Verbosity = v
	}
}

// OptionLogFile returns an option setter for the log file.
func OptionLogFile(path string) Option {
	return func(c *Config) {
		logger().Debugf("Option LogFile: %s", path)
		c.Log.File = strings.TrimSpace(path)
	}
}

// OptionNoColor returns an option setter that disables colored output.
func OptionNoColor(noColor bool) Option {
	return func(c *Config) {
		c.Log.NoColor = noColor
	}
}

// OptionComputeDom returns an option setter for recomputing dominated lists
// at the end of a run.
func OptionComputeDom(enabled bool) Option {
	return func(c *Config) {
		c.Build.ComputeDom = enabled
	}
}

// OptionVerify returns an option setter for verifying the graph at the end
// of a run.
func OptionVerify(enabled bool) Option {
	return func(c *Config) {
		c.Build.Verify = enabled
	}
}

// ProcessOptions processes options and stores it in config
func (c *Config) ProcessOptions(options ...Option) {
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
}

// BindFlags registers the configuration flags on fs.
func BindFlags(fs *pflag.FlagSet) {
	fs.StringP("config", "c", "", "configuration file (default ./"+DefaultFile+" if present)")
	fs.CountP("verbose", "v", "increase log verbosity, repeatable")
	fs.String("log-file", "", "write logs to this file instead of stderr")
	fs.Bool("no-color", false, "disable colored output")
	fs.Bool("compute-dom", true, "recompute dominated lists when the script ends")
	fs.Bool("verify", true, "verify the graph when the script ends")
}

// FromFlags loads the file named by --config, or DefaultFile when it exists,
// and overlays every flag that was set explicitly on the command line.
func FromFlags(fs *pflag.FlagSet) (*Config, error) {
	path, _ := fs.GetString("config")
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	cfg := Default()
	if _, err := os.Stat(path); err == nil {
		if cfg, err = ParseConfig(path); err != nil {
			return nil, err
		}
	} else if explicit {
		return nil, errors.Wrap(err, "configuration file")
	}

	var opts []Option
	if fs.Changed("verbose") {
		v, _ := fs.GetCount("verbose")
		opts = append(opts, OptionVerbosity(v))
	}
	if fs.Changed("log-file") {
		v, _ := fs.GetString("log-file")
		opts = append(opts, OptionLogFile(v))
	}
	if fs.Changed("no-color") {
		v, _ := fs.GetBool("no-color")
		opts = append(opts, OptionNoColor(v))
	}
	if fs.Changed("compute-dom") {
		v, _ := fs.GetBool("compute-dom")
		opts = append(opts, OptionComputeDom(v))
	}
	if fs.Changed("verify") {
		v, _ := fs.GetBool("verify")
		opts = append(opts, OptionVerify(v))
	}
	cfg.ProcessOptions(opts...)
	return cfg, cfg.Validate()
}

// LogFile returns the configured log file as commonlog.Configure expects it:
// nil for stderr.
func (c *Config) LogFile() *string {
	if c.Log.File == "" {
		return nil
	}
	return &c.Log.File
}
