package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meigma/pak"
)

// Configuration keys. Each can be set by flag, by PAKTOOL_<KEY> in the
// environment (dashes become underscores) or in paktool.yaml/paktool.toml.
const (
	keyMethod          = "method"
	keyAlgorithm       = "algorithm"
	keyLogLevel        = "log-level"
	keyNestedPattern   = "nested-pattern"
	keySkipCompressed  = "skip-compressed"
	keyMinCompressSize = "min-compress-size"
	keyMaxEntrySize    = "max-entry-size"
)

const envPrefix = "PAKTOOL"

// app carries the state shared by every command of one invocation.
type app struct {
	v            *viper.Viper
	cfgFile      string
	logger       *slog.Logger
	maxEntrySize uint64
}

func newApp() *app {
	return &app{
		v:      viper.New(),
		logger: slog.New(slog.DiscardHandler),
	}
}

// loadConfig resolves configuration for the command about to run and
// installs the logger.
func (a *app) loadConfig(cmd *cobra.Command) error {
	v := a.v
	v.SetDefault(keyMethod, pak.CompressionZlib.String())
	v.SetDefault(keyAlgorithm, pak.DefaultHashAlgorithm.String())
	v.SetDefault(keyLogLevel, "warn")
	v.SetDefault(keyNestedPattern, pak.DefaultNestedPattern)
	v.SetDefault(keySkipCompressed, false)
	v.SetDefault(keyMinCompressSize, 0)
	v.SetDefault(keyMaxEntrySize, "0")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}

	if a.cfgFile != "" {
		v.SetConfigFile(a.cfgFile)
	} else {
		v.SetConfigName("paktool")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "paktool"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	limit, err := humanize.ParseBytes(v.GetString(keyMaxEntrySize))
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", keyMaxEntrySize, v.GetString(keyMaxEntrySize), err)
	}
	a.maxEntrySize = limit

	logger, err := newLogger(cmd.ErrOrStderr(), v.GetString(keyLogLevel))
	if err != nil {
		return err
	}
	a.logger = logger
	if used := v.ConfigFileUsed(); used != "" {
		a.logger.Debug("config loaded", slog.String("file", used))
	}
	return nil
}

// newLogger returns a slog logger backed by a charmbracelet/log handler.
func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", keyLogLevel, level, err)
	}
	handler := log.NewWithOptions(w, log.Options{
		Level:  lvl,
		Prefix: "paktool",
	})
	return slog.New(handler), nil
}

func (a *app) method() (pak.Compression, error) {
	return pak.ParseCompression(a.v.GetString(keyMethod))
}

func (a *app) algorithm() (pak.HashAlgorithm, error) {
	return pak.ParseHashAlgorithm(a.v.GetString(keyAlgorithm))
}

// archiveOptions returns the engine options selected by configuration.
func (a *app) archiveOptions() []pak.Option {
	opts := []pak.Option{
		pak.WithLogger(a.logger),
		pak.WithNestedPattern(a.v.GetString(keyNestedPattern)),
		pak.WithMaxEntrySize(a.maxEntrySize),
	}
	if a.v.GetBool(keySkipCompressed) {
		opts = append(opts, pak.WithSkipCompression(pak.DefaultSkipCompression(a.v.GetInt(keyMinCompressSize))))
	}
	return opts
}

// openArchive loads path, or returns an empty archive bound to it when
// the file does not exist and missingOK is set.
func (a *app) openArchive(path string, missingOK bool) (*pak.Archive, error) {
	archive := pak.New(path, a.archiveOptions()...)
	if missingOK {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			a.logger.Debug("creating archive", slog.String("path", path))
			return archive, nil
		}
	}
	if err := archive.Load(); err != nil {
		return nil, err
	}
	return archive, nil
}
