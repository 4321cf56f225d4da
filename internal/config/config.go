// Package config resolves the run configuration from command-line flags,
// FPARSE_* environment variables, an optional YAML file and the defaults, in
// that order of precedence.
package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"gopkg.microglot.org/fparse.go/internal/cpp"
	"gopkg.microglot.org/fparse.go/internal/exc"
)

const EnvPrefix = "FPARSE"

const (
	KeyCppCommand     = "cpp.command"
	KeyCppFlags       = "cpp.flags"
	KeyCppDefines     = "cpp.defines"
	KeyCppDisabled    = "cpp.disabled"
	KeyLogLevel       = "log.level"
	KeyLogFormat      = "log.format"
	KeyDumpStatements = "dump-statements"
	KeyVerbose        = "verbose"
)

const (
	FormatAuto = "auto"
	FormatText = "text"
	FormatJSON = "json"
)

type Config struct {
	Cpp            Cpp
	LogLevel       string
	LogFormat      string
	DumpStatements bool
}

type Cpp struct {
	Command  string
	Flags    []string
	Defines  []string
	Disabled bool
}

// Preprocessor returns the preprocessor described by c.
func (c Cpp) Preprocessor() *cpp.Preprocessor {
	return &cpp.Preprocessor{
		Command: c.Command,
		Flags:   append([]string(nil), c.Flags...),
		Defines: append([]string(nil), c.Defines...),
	}
}

// RegisterFlags adds the configuration flags to flags.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "YAML configuration file")
	flags.String("cpp", cpp.DefaultCommand, "Preprocessor command")
	flags.StringArrayP("define", "D", nil, "Predefine a macro for the preprocessor (repeatable, replaces the defaults)")
	flags.Bool("no-cpp", false, "Read the input verbatim without running the preprocessor")
	flags.BoolP("verbose", "v", false, "Debug output")
	flags.String("log-format", FormatAuto, "Log format: auto, text or json")
	flags.Bool("dump-statements", false, "Log every logical statement as it is parsed")
}

var bindings = map[string]string{
	KeyCppCommand:     "cpp",
	KeyCppDefines:     "define",
	KeyCppDisabled:    "no-cpp",
	KeyVerbose:        "verbose",
	KeyLogFormat:      "log-format",
	KeyDumpStatements: "dump-statements",
}

// Load resolves the configuration. flags must come from RegisterFlags.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault(KeyCppCommand, cpp.DefaultCommand)
	v.SetDefault(KeyCppFlags, cpp.DefaultFlags)
	v.SetDefault(KeyCppDefines, cpp.DefaultDefines)
	v.SetDefault(KeyCppDisabled, false)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, FormatAuto)
	v.SetDefault(KeyDumpStatements, false)
	v.SetDefault(KeyVerbose, false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for key, name := range bindings {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return nil, exc.Newf(exc.Location{}, exc.CodeUsage, "flag --%s: %s", name, err)
		}
	}

	if f := flags.Lookup("config"); f != nil && f.Value.String() != "" {
		path := f.Value.String()
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, exc.Wrap(exc.Location{File: path}, exc.CodeFileNotFound, err)
			}
			return nil, exc.Wrap(exc.Location{File: path}, exc.CodeUnsupportedFileFormat, err)
		}
	}

	c := &Config{
		Cpp: Cpp{
			Command:  v.GetString(KeyCppCommand),
			Flags:    v.GetStringSlice(KeyCppFlags),
			Defines:  v.GetStringSlice(KeyCppDefines),
			Disabled: v.GetBool(KeyCppDisabled),
		},
		LogLevel:       strings.ToLower(v.GetString(KeyLogLevel)),
		LogFormat:      strings.ToLower(v.GetString(KeyLogFormat)),
		DumpStatements: v.GetBool(KeyDumpStatements),
	}
	switch {
	case c.DumpStatements:
		c.LogLevel = "trace"
	case v.GetBool(KeyVerbose) && c.LogLevel != "trace":
		c.LogLevel = "debug"
	}
	switch c.LogFormat {
	case FormatAuto, FormatText, FormatJSON:
	default:
		return nil, exc.Newf(exc.Location{}, exc.CodeUsage, "unknown log format %q", c.LogFormat)
	}
	return c, nil
}
