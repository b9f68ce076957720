package config

import (
	"os"
	"strings"
	"time"

	"codeberg.org/mutker/hwstat/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultLogLevel   = string(LogLevelWarning)
	DefaultFormat     = ""
	DefaultOutput     = "-"
	DefaultSensorsBin = "sensors"
	DefaultIOStatBin  = "iostat"
	DefaultTimeout    = 10 * time.Second
	DefaultDatabase   = "/var/lib/hwstat/hwstat.db"

	defaultEnvPrefix  = "HWSTAT"
	defaultConfigName = "hwstat"
)

var formats = map[string]bool{
	"csv":    true,
	"json":   true,
	"yaml":   true,
	"sqlite": true,
}

type Config struct {
	Command     Command       `mapstructure:"-"`
	Format      string        `mapstructure:"format"`
	Output      string        `mapstructure:"output"`
	Input       string        `mapstructure:"input"`
	SensorsBin  string        `mapstructure:"sensors_bin"`
	SensorsArgs []string      `mapstructure:"sensors_args"`
	IOStatBin   string        `mapstructure:"iostat_bin"`
	IOStatArgs  []string      `mapstructure:"iostat_args"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Database    string        `mapstructure:"database"`
	LogLevel    string        `mapstructure:"log_level"`
}

// Load builds the configuration from defaults, the config file,
// HWSTAT_* environment variables and the command line, in increasing
// order of precedence. args excludes the program name.
func Load(args []string, opts ...Option) (*Config, error) {
	errFactory := errors.New()

	o := &options{envPrefix: defaultEnvPrefix}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, errFactory.Wrap(errors.ErrInvalidArgument, err)
		}
	}
	if o.configPath == "" {
		o.configPath = os.Getenv(o.envPrefix + "_CONFIG")
	}

	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidArgument, err)
	}

	v := viper.New()
	setDefaults(v)

	if err := bindFlags(v, fs); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(o.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path, _ := fs.GetString("config"); path != "" {
		o.configPath = path
	}

	if err := readConfigFile(v, o.configPath); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrReadConfig, err)
	}

	cfg.Command = CommandSensors
	if fs.NArg() > 0 {
		cfg.Command = Command(fs.Arg(0))
	}
	cfg.Format = strings.ToLower(cfg.Format)
	if cfg.Format == "" {
		cfg.Format = defaultFormatFor(cfg.Command)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaultFormatFor(cmd Command) string {
	if cmd == CommandSensors {
		return "csv"
	}
	return "json"
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("hwstat", pflag.ContinueOnError)
	fs.String("config", "", "Path to a TOML config file")
	fs.StringP("format", "f", DefaultFormat, "Output format: csv, json, yaml or sqlite (default csv for sensors, json otherwise)")
	fs.StringP("output", "o", DefaultOutput, "Output file, - for stdout")
	fs.StringP("input", "i", "", "Parse captured tool output from a file (- for stdin) instead of running the tool")
	fs.String("sensors-bin", DefaultSensorsBin, "Path to the lm-sensors binary")
	fs.String("iostat-bin", DefaultIOStatBin, "Path to the sysstat iostat binary")
	fs.Duration("timeout", DefaultTimeout, "Maximum time to wait for a tool")
	fs.String("database", DefaultDatabase, "SQLite database used by the sqlite format")
	fs.String("log-level", DefaultLogLevel, "Log level: debug, info, warning or error")
	return fs
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("format", DefaultFormat)
	v.SetDefault("output", DefaultOutput)
	v.SetDefault("input", "")
	v.SetDefault("sensors_bin", DefaultSensorsBin)
	v.SetDefault("sensors_args", []string{})
	v.SetDefault("iostat_bin", DefaultIOStatBin)
	v.SetDefault("iostat_args", []string{})
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("database", DefaultDatabase)
	v.SetDefault("log_level", DefaultLogLevel)
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for _, name := range []string{
		"format", "output", "input", "sensors-bin", "iostat-bin",
		"timeout", "database", "log-level",
	} {
		key := strings.ReplaceAll(name, "-", "_")
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return errors.New().Wrap(errors.ErrBindFlags, err)
		}
	}
	return nil
}

func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
	} else {
		v.SetConfigName(defaultConfigName)
		v.SetConfigType("toml")
		v.AddConfigPath("/etc")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home + "/.config")
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return errors.New().Wrap(errors.ErrReadConfig, err)
		}
	}

	return nil
}

// Validate checks field values and their combinations
func (c *Config) Validate() error {
	errFactory := errors.New()

	if !LogLevel(c.LogLevel).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, ValidationError{
			Field: "log_level", Value: c.LogLevel, Reason: "must be debug, info, warning or error",
		})
	}

	if !c.Command.IsValid() {
		return errFactory.WithData(errors.ErrInvalidCommand, ValidationError{
			Field: "command", Value: c.Command, Reason: "must be sensors, iostat or all",
		})
	}

	if !formats[c.Format] {
		return errFactory.WithData(errors.ErrInvalidFormat, ValidationError{
			Field: "format", Value: c.Format, Reason: "must be csv, json, yaml or sqlite",
		})
	}

	if c.Format == "csv" && c.Command != CommandSensors {
		return errFactory.WithData(errors.ErrInvalidFormat, ValidationError{
			Field: "format", Value: c.Format, Reason: "csv output is only available for sensors",
		})
	}

	if c.Format == "sqlite" && c.Database == "" {
		return errFactory.WithData(errors.ErrInvalidConfig, ValidationError{
			Field: "database", Value: c.Database, Reason: "required for sqlite output",
		})
	}

	if c.Input != "" && c.Command == CommandAll {
		return errFactory.WithData(errors.ErrInvalidConfig, ValidationError{
			Field: "input", Value: c.Input, Reason: "cannot be combined with the all command",
		})
	}

	if c.Timeout <= 0 {
		return errFactory.WithData(errors.ErrInvalidTimeout, ValidationError{
			Field: "timeout", Value: c.Timeout, Reason: "must be positive",
		})
	}

	return nil
}

// IsDebug reports whether debug logging is enabled
func (c *Config) IsDebug() bool {
	return LogLevel(c.LogLevel) == LogLevelDebug
}
