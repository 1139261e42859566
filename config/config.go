// Package config loads record schemas from YAML or JSON files.
//
//	name: Header
//	fields:
//	  - {name: a, type: uint, bits: 3}
//	  - {name: mode, type: enum, variants: [idle, run, stop, fault]}
//	  - {name: code, type: enum, cases: [{name: ok, value: 0}, {name: fail, value: 5}]}
//	  - {name: c, type: bool}
//	log:
//	  level: debug
//
// Unknown keys are rejected. Log settings can be overridden from the
// environment with the BITPACK_ prefix, e.g. BITPACK_LOG_LEVEL.
package config

import (
	stderrors "errors"
	"io/fs"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/wippyai/bitfield/errors"
)

// EnvPrefix is the environment variable prefix for overrides.
const EnvPrefix = "BITPACK"

// File is a decoded schema file.
type File struct {
	Name   string        `mapstructure:"name"`
	Fields []FieldConfig `mapstructure:"fields"`
	Log    LogConfig     `mapstructure:"log"`
}

// FieldConfig declares one field. Type is uint, bool or enum; enums give
// either Variants (variant-count rule) or Cases (discriminant rule).
type FieldConfig struct {
	Name     string       `mapstructure:"name"`
	Type     string       `mapstructure:"type"`
	Bits     int          `mapstructure:"bits"`
	Variants []string     `mapstructure:"variants"`
	Cases    []CaseConfig `mapstructure:"cases"`
}

type CaseConfig struct {
	Name  string `mapstructure:"name"`
	Value uint64 `mapstructure:"value"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`    // megabytes
	MaxBackups int    `mapstructure:"max_backups"` // number of backups
	MaxAge     int    `mapstructure:"max_age"`     // days
	Compress   bool   `mapstructure:"compress"`
}

// DefaultLog is applied before the file and environment are read.
var DefaultLog = LogConfig{
	Level:      "info",
	MaxSize:    10,
	MaxBackups: 3,
	MaxAge:     7,
}

// Load reads and strictly decodes the schema file at path. The format
// follows the file extension.
func Load(path string) (*File, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		kind := errors.KindInvalidInput
		if stderrors.Is(err, fs.ErrNotExist) {
			kind = errors.KindNotFound
		}
		return nil, errors.Wrap(errors.PhaseConfig, kind, err, "read "+path)
	}
	return decode(v, path)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log.level", DefaultLog.Level)
	v.SetDefault("log.file", DefaultLog.File)
	v.SetDefault("log.max_size", DefaultLog.MaxSize)
	v.SetDefault("log.max_backups", DefaultLog.MaxBackups)
	v.SetDefault("log.max_age", DefaultLog.MaxAge)
	v.SetDefault("log.compress", DefaultLog.Compress)
	return v
}

func decode(v *viper.Viper, source string) (*File, error) {
	var f File
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &f,
		TagName:          "mapstructure",
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "decoder setup")
	}
	if err := dec.Decode(v.AllSettings()); err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "decode "+source)
	}
	if f.Name == "" {
		return nil, errors.InvalidInput(errors.PhaseConfig, []string{"name"}, source+": schema has no name")
	}
	return &f, nil
}
