// Package config はコマンドの設定を既定値、設定ファイル、環境変数、フラグの順に重ねて読み込みます。
package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/YuminosukeSato/hpml/pkg/errors"
	"github.com/YuminosukeSato/hpml/pkg/log"
)

// 既定値
const (
	DefaultFile       = "hpml.yaml"
	DefaultTrainData  = "../data/HousePriceDataset.csv"
	DefaultScoreData  = "data/raw/TestDataForPrediction.csv"
	DefaultModelPath  = "app/model.gob"
	DefaultMetaPath   = "app/model_meta.json"
	DefaultExportPath = "data/processed/Prediction_Result_with_price.csv"
	DefaultListenAddr = ":8000"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "console"
	EnvPrefix         = "HPML_"
)

// Config はすべてのコマンドが共有する設定です。
type Config struct {
	TrainData    string  `koanf:"train_data"`
	ScoreData    string  `koanf:"score_data"`
	ModelPath    string  `koanf:"model_path"`
	MetaPath     string  `koanf:"meta_path"`
	Target       string  `koanf:"target"`
	ExportPath   string  `koanf:"export_path"`
	LogLevel     string  `koanf:"log_level"`
	LogFormat    string  `koanf:"log_format"`
	RegistryPath string  `koanf:"registry_path"`
	PlotPath     string  `koanf:"plot_path"`
	Alpha        float64 `koanf:"alpha"`
	ListenAddr   string  `koanf:"listen_addr"`

	// FileUsed は読み込んだ設定ファイル。なければ空
	FileUsed string `koanf:"-"`
}

// flagKeys はフラグ名と設定キーが異なるものの対応
var flagKeys = map[string]string{
	"model":    "model_path",
	"meta":     "meta_path",
	"export":   "export_path",
	"registry": "registry_path",
	"plot":     "plot_path",
	"listen":   "listen_addr",
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"train_data":    DefaultTrainData,
		"score_data":    DefaultScoreData,
		"model_path":    DefaultModelPath,
		"meta_path":     DefaultMetaPath,
		"target":        "",
		"export_path":   DefaultExportPath,
		"log_level":     DefaultLogLevel,
		"log_format":    DefaultLogFormat,
		"registry_path": "",
		"plot_path":     "",
		"alpha":         1.0,
		"listen_addr":   DefaultListenAddr,
	}
}

// Load は設定を読み込みます。
// 優先順位は フラグ > 環境変数(HPML_) > 設定ファイル > 既定値 です。
// cfgFile が空なら、カレントディレクトリの hpml.yaml があれば読みます。
// flags のうち明示的に指定されたものだけが反映され、"data" フラグは dataKey に割り当てられます。
func Load(cfgFile string, flags *pflag.FlagSet, dataKey string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load defaults")
	}

	used := cfgFile
	if used == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			used = DefaultFile
		}
	}
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "error reading config file %s", used)
		}
	}

	// HPML_MODEL_PATH -> model_path
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load env vars")
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			if mapped, ok := flagKeys[f.Name]; ok {
				key = mapped
			}
			if f.Name == "data" {
				if dataKey == "" {
					return "", nil
				}
				key = dataKey
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, errors.Wrap(err, "failed to load flags")
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, "unable to decode config")
	}
	cfg.FileUsed = used
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate は設定値を検証します。
func (c *Config) Validate() error {
	if c.ModelPath == "" {
		return errors.NewValidationError("model_path", "model_path is required", c.ModelPath)
	}
	if c.MetaPath == "" {
		return errors.NewValidationError("meta_path", "meta_path is required", c.MetaPath)
	}
	if c.Alpha < 0 {
		return errors.NewValidationError("alpha", "alpha must be non-negative", c.Alpha)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.NewValidationError("log_level", err.Error(), c.LogLevel)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return errors.NewValidationError("log_format", "log_format must be json or console", c.LogFormat)
	}
	return nil
}

// Level は LogLevel を log.Level に変換します。Validate 済みであることが前提です。
func (c *Config) Level() log.Level {
	level, _ := log.ParseLevel(c.LogLevel)
	return level
}
