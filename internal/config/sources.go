package config

import (
	"flag"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	apperrors "github.com/agbru/fibbench/internal/errors"
)

// setting binds a viper key to the flag names that set the same field.
// The first flag name is the one assigned from external sources.
type setting struct {
	key   string
	flags []string
}

// settings lists every key read from FIBBENCH_* variables and config files.
// Environment variables use the upper-cased key with dashes replaced by
// underscores, e.g. FIBBENCH_MAX_INDEX.
var settings = []setting{
	{"n", []string{"n"}},
	{"algo", []string{"algo"}},
	{"max-index", []string{"max-index"}},
	{"timeout", []string{"timeout"}},
	{"threshold", []string{"threshold"}},
	{"verbose", []string{"v"}},
	{"details", []string{"d", "details"}},
	{"calculate", []string{"calculate", "c"}},
	{"json", []string{"json"}},
	{"hex", []string{"hex"}},
	{"quiet", []string{"quiet", "q"}},
	{"output", []string{"output", "o"}},
	{"no-color", []string{"no-color"}},
	{"server", []string{"server"}},
	{"port", []string{"port"}},
	{"sweep", []string{"sweep"}},
	{"sweep-format", []string{"sweep-format"}},
	{"sweep-repeat", []string{"sweep-repeat"}},
	{"sweep-report", []string{"sweep-report"}},
	{"log-level", []string{"log-level"}},
}

// newViper returns a viper instance reading FIBBENCH_* variables and files
// from fsys.
func newViper(fsys afero.Fs) *viper.Viper {
	v := viper.New()
	v.SetFs(fsys)
	v.SetEnvPrefix(strings.TrimSuffix(EnvPrefix, "_"))
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// applyExternalSources assigns environment and config-file values to every
// flag that was not given on the command line. Viper already ranks the
// environment above the file.
func applyExternalSources(fsys afero.Fs, fs *flag.FlagSet, config *AppConfig) error {
	v := newViper(fsys)

	if !isFlagSet(fs, "config") {
		config.ConfigFile = v.GetString("config")
	}
	if config.ConfigFile != "" {
		v.SetConfigFile(config.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return apperrors.NewConfigError("reading config file %s: %v", config.ConfigFile, err)
		}
	}

	for _, s := range settings {
		if anyFlagSet(fs, s.flags) || !v.IsSet(s.key) {
			continue
		}
		value := normalizeBool(fs, s.flags[0], v.GetString(s.key))
		if err := fs.Set(s.flags[0], value); err != nil {
			return apperrors.NewConfigError("invalid value %q for %s: %v", value, s.key, err)
		}
	}
	return nil
}

// normalizeBool accepts yes/no spellings for boolean flags.
func normalizeBool(fs *flag.FlagSet, name, value string) string {
	f := fs.Lookup(name)
	if f == nil {
		return value
	}
	if bf, ok := f.Value.(interface{ IsBoolFlag() bool }); !ok || !bf.IsBoolFlag() {
		return value
	}
	switch strings.ToLower(value) {
	case "yes", "y", "on":
		return "true"
	case "no", "n", "off":
		return "false"
	}
	return value
}

// isFlagSet reports whether name was given on the command line.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func anyFlagSet(fs *flag.FlagSet, names []string) bool {
	for _, name := range names {
		if isFlagSet(fs, name) {
			return true
		}
	}
	return false
}
