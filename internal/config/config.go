package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/datavista-cli/internal/analysis"
)

const dirName = ".datavista"

// Global configuration structure.
type Global struct {
	WorkspacesDir  string `mapstructure:"workspaces_dir" yaml:"workspaces_dir"`
	OutputFormat   string `mapstructure:"output_format" yaml:"output_format" validate:"oneof=markdown json yaml"`
	LogLevel       string `mapstructure:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat      string `mapstructure:"log_format" yaml:"log_format" validate:"oneof=console json"`
	SparklineWidth int    `mapstructure:"sparkline_width" yaml:"sparkline_width" validate:"min=8,max=200"`
	// CSVDelimiter overrides the separator picked from the file extension.
	// A literal `\t` selects tab.
	CSVDelimiter string `mapstructure:"csv_delimiter" yaml:"csv_delimiter" validate:"max=2"`

	// Detector calibration
	AnomalySigma             float64 `mapstructure:"anomaly_sigma" yaml:"anomaly_sigma" validate:"gt=0"`
	TrendStableSlope         float64 `mapstructure:"trend_stable_slope" yaml:"trend_stable_slope" validate:"gte=0"`
	CyclicalTolerance        float64 `mapstructure:"cyclical_tolerance" yaml:"cyclical_tolerance" validate:"gt=0,lt=1"`
	SeasonalMaxStd           float64 `mapstructure:"seasonal_max_std" yaml:"seasonal_max_std" validate:"gt=0"`
	ExponentialCompareLinear bool    `mapstructure:"exponential_compare_linear" yaml:"exponential_compare_linear"`
}

var validate = validator.New()

// Validate checks value ranges and enumerations.
func (c *Global) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// AnalysisOptions overlays the configured calibration on the engine defaults.
func (c *Global) AnalysisOptions() analysis.Options {
	opt := analysis.DefaultOptions()
	opt.AnomalySigma = c.AnomalySigma
	opt.TrendStableSlope = c.TrendStableSlope
	opt.CyclicalTolerance = c.CyclicalTolerance
	opt.SeasonalMaxStd = c.SeasonalMaxStd
	opt.ExponentialCompareLinear = c.ExponentialCompareLinear
	return opt
}

// Delimiter returns the configured CSV separator, or 0 when unset.
func (c *Global) Delimiter() rune {
	if c.CSVDelimiter == "" {
		return 0
	}
	if c.CSVDelimiter == `\t` {
		return '\t'
	}
	return []rune(c.CSVDelimiter)[0]
}

// Keys lists the settable keys in display order.
func Keys() []string {
	return []string{
		"workspaces_dir", "output_format", "log_level", "log_format", "sparkline_width", "csv_delimiter",
		"anomaly_sigma", "trend_stable_slope", "cyclical_tolerance", "seasonal_max_std", "exponential_compare_linear",
	}
}

// Set parses val into the named key and validates the result. The config is
// left unchanged on error.
func (c *Global) Set(key, val string) error {
	next := *c
	switch key {
	case "workspaces_dir":
		next.WorkspacesDir = val
	case "output_format":
		next.OutputFormat = strings.ToLower(val)
	case "log_level":
		next.LogLevel = strings.ToLower(val)
	case "log_format":
		next.LogFormat = strings.ToLower(val)
	case "csv_delimiter":
		next.CSVDelimiter = val
	case "sparkline_width":
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid int for %s: %w", key, err)
		}
		next.SparklineWidth = i
	case "anomaly_sigma", "trend_stable_slope", "cyclical_tolerance", "seasonal_max_std":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid float for %s: %w", key, err)
		}
		switch key {
		case "anomaly_sigma":
			next.AnomalySigma = f
		case "trend_stable_slope":
			next.TrendStableSlope = f
		case "cyclical_tolerance":
			next.CyclicalTolerance = f
		case "seasonal_max_std":
			next.SeasonalMaxStd = f
		}
	case "exponential_compare_linear":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for %s: %w", key, err)
		}
		next.ExponentialCompareLinear = b
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// Get renders the named key as set would accept it.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "workspaces_dir":
		return c.WorkspacesDir, nil
	case "output_format":
		return c.OutputFormat, nil
	case "log_level":
		return c.LogLevel, nil
	case "log_format":
		return c.LogFormat, nil
	case "csv_delimiter":
		return c.CSVDelimiter, nil
	case "sparkline_width":
		return strconv.Itoa(c.SparklineWidth), nil
	case "anomaly_sigma":
		return strconv.FormatFloat(c.AnomalySigma, 'g', -1, 64), nil
	case "trend_stable_slope":
		return strconv.FormatFloat(c.TrendStableSlope, 'g', -1, 64), nil
	case "cyclical_tolerance":
		return strconv.FormatFloat(c.CyclicalTolerance, 'g', -1, 64), nil
	case "seasonal_max_std":
		return strconv.FormatFloat(c.SeasonalMaxStd, 'g', -1, 64), nil
	case "exponential_compare_linear":
		return strconv.FormatBool(c.ExponentialCompareLinear), nil
	}
	return "", fmt.Errorf("unknown key: %s", key)
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.datavista/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, dirName)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("DATAVISTA")
	v.AutomaticEnv()

	def := analysis.DefaultOptions()
	v.SetDefault("workspaces_dir", "")
	v.SetDefault("output_format", "markdown")
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "console")
	v.SetDefault("sparkline_width", 40)
	v.SetDefault("csv_delimiter", "")
	v.SetDefault("anomaly_sigma", def.AnomalySigma)
	v.SetDefault("trend_stable_slope", def.TrendStableSlope)
	v.SetDefault("cyclical_tolerance", def.CyclicalTolerance)
	v.SetDefault("seasonal_max_std", def.SeasonalMaxStd)
	v.SetDefault("exponential_compare_linear", def.ExponentialCompareLinear)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, dirName))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.WorkspacesDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		c.WorkspacesDir = filepath.Join(home, dirName, "workspaces")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
