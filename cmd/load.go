package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cottand/variance/internal/config"
	"github.com/cottand/variance/internal/log"
	"github.com/cottand/variance/variance"
	"github.com/spf13/cobra"
)

var cliLogger = log.DefaultLogger.With("section", log.SectionCLI)

const (
	flagConfig           = "config"
	flagRuntime          = "runtime"
	flagCacheSize        = "cache-size"
	flagLogLevel         = "log-level"
	flagColor            = "color"
	flagWarningsAsErrors = "warnings-as-errors"
)

// addLoadFlags registers the flags that override the config file on c
func addLoadFlags(c *cobra.Command) {
	def := config.Default()
	c.Flags().String(flagConfig, "", "path of the config file, by default "+config.FileName+" is looked up from the target")
	c.Flags().String(flagRuntime, def.Runtime, "runtime model casts are checked against, 'erased' or 'reified'")
	c.Flags().Int(flagCacheSize, def.CacheSize, "number of memoised subtype judgements, 0 disables the cache")
	c.Flags().StringP(flagLogLevel, "l", def.LogLevel, "log level, one of debug, info, warn or error")
	c.Flags().String(flagColor, def.Color, "colour output, one of auto, always or never")
	c.Flags().Bool(flagWarningsAsErrors, def.WarningsAsErrors, "fail when warnings are found")
}

// loadConfig reads the config for rootDir and applies the flags set explicitly on c
func loadConfig(c *cobra.Command, rootDir string) (*config.Config, error) {
	path, err := c.Flags().GetString(flagConfig)
	if err != nil {
		return nil, err
	}
	if path == "" {
		path, err = config.Find(rootDir)
		if err != nil {
			return nil, fmt.Errorf("could not look up config: %w", err)
		}
	}
	cfg := config.Default()
	if path != "" {
		cfg, err = config.Load(path)
		if err != nil {
			return nil, err
		}
		cliLogger.Debug("loaded config", "path", path)
	}

	flags := c.Flags()
	if flags.Changed(flagRuntime) {
		cfg.Runtime, _ = flags.GetString(flagRuntime)
	}
	if flags.Changed(flagCacheSize) {
		cfg.CacheSize, _ = flags.GetInt(flagCacheSize)
	}
	if flags.Changed(flagLogLevel) {
		cfg.LogLevel, _ = flags.GetString(flagLogLevel)
	}
	if flags.Changed(flagColor) {
		cfg.Color, _ = flags.GetString(flagColor)
	}
	if flags.Changed(flagWarningsAsErrors) {
		cfg.WarningsAsErrors, _ = flags.GetBool(flagWarningsAsErrors)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

// loadTarget loads the package at target, which is either a folder or a
// declaration file, in which case its whole folder is loaded
func loadTarget(c *cobra.Command, target string) (*variance.Package, *config.Config, error) {
	target, err := filepath.Abs(target)
	if err != nil {
		return nil, nil, fmt.Errorf("could not get absolute path of target: %w", err)
	}

	stat, err := os.Stat(target)
	if err != nil {
		return nil, nil, fmt.Errorf("could not stat target: %w", err)
	}

	rootDir := target
	if !stat.IsDir() {
		rootDir = filepath.Dir(target)
	}

	cfg, err := loadConfig(c, rootDir)
	if err != nil {
		return nil, nil, err
	}
	level, _ := cfg.Level()
	log.SetLevel(level)

	folderFS, ok := os.DirFS(rootDir).(variance.FS)
	if !ok {
		return nil, nil, fmt.Errorf("could not read directory %s", rootDir)
	}
	pkg, err := variance.LoadPackage(c.Context(), folderFS, variance.PkgLoadSettings{
		Name:    filepath.Base(rootDir),
		Options: cfg.Options(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("could not load package: %w", err)
	}
	return pkg, cfg, nil
}
