// Package config loads generator settings from flags, an optional YAML
// file, and TRAITGEN_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/setanarut/traitgen"
	"github.com/setanarut/traitgen/utils"
)

const EnvPrefix = "TRAITGEN"

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Assets     string              `mapstructure:"assets"`
	Output     string              `mapstructure:"output"`
	Amount     int                 `mapstructure:"amount"`
	Layers     []string            `mapstructure:"layers"`
	Collection traitgen.Collection `mapstructure:"collection"`
	Seed       int64               `mapstructure:"seed"`
	Workers    int                 `mapstructure:"workers"`
	Strategy   string              `mapstructure:"strategy"`
	Palette    PaletteConfig       `mapstructure:"palette"`
	Log        LogConfig           `mapstructure:"log"`
	Metrics    MetricsConfig       `mapstructure:"metrics"`
	Rarity     RarityConfig        `mapstructure:"rarity"`
}

type PaletteConfig struct {
	Size   int    `mapstructure:"size"`
	Method string `mapstructure:"method"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	// Textfile, when set, receives a Prometheus text dump after the run.
	Textfile string `mapstructure:"textfile"`
}

type RarityConfig struct {
	Report bool `mapstructure:"report"`
}

// flag name -> viper key
var flagKeys = map[string]string{
	"assets":           "assets",
	"output":           "output",
	"amount":           "amount",
	"layers":           "layers",
	"name":             "collection.name",
	"description":      "collection.description",
	"base-uri":         "collection.base_uri",
	"seed":             "seed",
	"workers":          "workers",
	"strategy":         "strategy",
	"palette-size":     "palette.size",
	"palette-method":   "palette.method",
	"log-level":        "log.level",
	"log-format":       "log.format",
	"metrics-textfile": "metrics.textfile",
	"rarity-report":    "rarity.report",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("assets", "./assets")
	v.SetDefault("output", "./output")
	v.SetDefault("amount", 10)
	v.SetDefault("layers", []string{})
	v.SetDefault("collection.name", "")
	v.SetDefault("collection.description", "")
	v.SetDefault("collection.base_uri", "")
	v.SetDefault("seed", 0)
	v.SetDefault("workers", 1)
	v.SetDefault("strategy", traitgen.StrategyShuffle.String())
	v.SetDefault("palette.size", 0)
	v.SetDefault("palette.method", utils.PaletteMethodDominantColor.String())
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("rarity.report", false)
}

// NewFlagSet declares every command-line flag. Usage output goes to out.
func NewFlagSet(name string, out io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(out)
	fs.String("config", "", "optional YAML config file")
	fs.String("assets", "./assets", "assets root, one subdirectory per layer")
	fs.String("output", "./output", "output root; images/ and metadata/ are reset before the run")
	fs.IntP("amount", "n", 10, "number of tokens to generate")
	fs.StringSlice("layers", nil, "layer names in stacking order, bottom first (default: every layer directory, sorted)")
	fs.String("name", "", "collection name")
	fs.String("description", "", "collection description")
	fs.String("base-uri", "", "prefix of each token's image URI")
	fs.Int64("seed", 0, "random seed, 0 for a fresh one")
	fs.Int("workers", 1, "tokens rendered concurrently")
	fs.String("strategy", traitgen.StrategyShuffle.String(), "combination planning: shuffle or rejection")
	fs.Int("palette-size", 0, "extract this many colors per token and set background_color (0 disables)")
	fs.String("palette-method", utils.PaletteMethodDominantColor.String(), "palette extraction: dominantcolor or kmeans")
	fs.String("log-level", "info", "debug, info, warn or error")
	fs.String("log-format", "text", "text or json")
	fs.String("metrics-textfile", "", "write Prometheus metrics to this file after the run")
	fs.Bool("rarity-report", false, "write rarity.json to the output root")
	return fs
}

// Load parses args and merges them with the config file and environment.
// It returns pflag.ErrHelp when help was requested.
func Load(args []string, out io.Writer) (*Config, error) {
	fs := NewFlagSet("traitgen", out)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}

	if path, _ := fs.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Amount <= 0 {
		errs = append(errs, fmt.Errorf("amount must be positive, got %d", c.Amount))
	}
	if c.Assets == "" {
		errs = append(errs, errors.New("assets directory is required"))
	}
	if c.Output == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	if c.Workers <= 0 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", c.Workers))
	}
	if _, ok := traitgen.ParseStrategy(c.Strategy); !ok {
		errs = append(errs, fmt.Errorf("unknown strategy %q", c.Strategy))
	}
	if _, ok := utils.ParsePaletteMethod(c.Palette.Method); !ok {
		errs = append(errs, fmt.Errorf("unknown palette method %q", c.Palette.Method))
	}
	if c.Palette.Size < 0 {
		errs = append(errs, fmt.Errorf("palette size must not be negative, got %d", c.Palette.Size))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// Options converts the generation settings into traitgen.Options.
func (c *Config) Options() traitgen.Options {
	strategy, _ := traitgen.ParseStrategy(c.Strategy)
	method, _ := utils.ParsePaletteMethod(c.Palette.Method)
	opt := traitgen.DefaultOptions()
	opt.Strategy = strategy
	opt.Workers = c.Workers
	opt.Seed = c.Seed
	opt.PaletteSize = c.Palette.Size
	opt.PaletteMethod = method
	return opt
}
