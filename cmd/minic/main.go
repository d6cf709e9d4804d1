package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"minic/interpreter-go/pkg/ast"
	"minic/interpreter-go/pkg/driver"
)

const cliToolVersion = "minic 0.1.0-dev"

// errCheckFailed marks an exit caused by diagnostics that were already
// printed, so nothing more needs to be reported.
var errCheckFailed = errors.New("typecheck reported errors")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd, err := newRootCommand(viper.New(), stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errCheckFailed) {
			fmt.Fprintf(stderr, "error: %v\n", err)
		}
		return 1
	}
	return 0
}

type config struct {
	typecheck    string
	maxCallDepth int
	logLevel     zapcore.Level
}

type cli struct {
	cfg    config
	stdout io.Writer
	stderr io.Writer
}

func newRootCommand(v *viper.Viper, stdout, stderr io.Writer) (*cobra.Command, error) {
	c := &cli{stdout: stdout, stderr: stderr}
	root := &cobra.Command{
		Use:           "minic",
		Short:         "Type-check and interpret minic AST documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	configureEnv(v, "minic")
	err := bindOptions(v, root.PersistentFlags(), []opt{
		{
			DestP: &c.cfg.typecheck,
			Flag:  "typecheck",
			Desc:  "typecheck mode for run: strict, warn or off (overrides the manifest)",
		},
		{
			DestP: &c.cfg.maxCallDepth,
			Flag:  "max-call-depth",
			Desc:  "maximum function call depth (overrides the manifest)",
		},
		{
			DestP:   &c.cfg.logLevel,
			Flag:    "log-level",
			Default: zapcore.WarnLevel,
			Desc:    "log level: debug, info, warn, error",
		},
	})
	if err != nil {
		return nil, err
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "check [file]",
			Short: "Decode and type-check a program, printing diagnostics",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				return c.check(args)
			},
		},
		&cobra.Command{
			Use:   "run [file]",
			Short: "Decode, type-check and execute a program",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				return c.run(args)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the tool version and the current project",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintln(cmd.OutOrStdout(), cliToolVersion)
				if manifest := nearbyManifest(); manifest != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "project: %s\n", manifest.Summary())
				}
			},
		},
	)
	return root, nil
}

// nearbyManifest returns the manifest governing the working directory, or
// nil when there is none or it cannot be read.
func nearbyManifest() *driver.Manifest {
	path, err := driver.FindManifest(".")
	if err != nil {
		return nil
	}
	manifest, err := driver.LoadManifest(path)
	if err != nil {
		return nil
	}
	return manifest
}

// target is a resolved program document plus the manifest governing it.
type target struct {
	entry    string
	manifest *driver.Manifest
}

func (c *cli) resolve(args []string, logger *zap.Logger) (target, error) {
	if len(args) == 0 {
		manifestPath, err := driver.FindManifest(".")
		if err != nil {
			if errors.Is(err, driver.ErrManifestNotFound) {
				return target{}, fmt.Errorf("no program file given and %s not found", driver.ManifestFileName)
			}
			return target{}, err
		}
		manifest, err := driver.LoadManifest(manifestPath)
		if err != nil {
			return target{}, err
		}
		return target{entry: manifest.EntryPath(), manifest: manifest}, nil
	}

	entry := strings.TrimSpace(args[0])
	if entry == "" {
		return target{}, fmt.Errorf("program file must not be empty")
	}
	abs, err := filepath.Abs(entry)
	if err != nil {
		return target{}, fmt.Errorf("resolve %s: %w", entry, err)
	}
	manifestPath, err := driver.FindManifest(filepath.Dir(abs))
	if err != nil {
		if errors.Is(err, driver.ErrManifestNotFound) {
			return target{entry: entry}, nil
		}
		return target{}, err
	}
	manifest, err := driver.LoadManifest(manifestPath)
	if err != nil {
		logger.Warn("ignoring unreadable manifest", zap.String("path", manifestPath), zap.Error(err))
		return target{entry: entry}, nil
	}
	return target{entry: entry, manifest: manifest}, nil
}

func (c *cli) load(args []string) (*ast.Program, target, *zap.Logger, error) {
	logger := driver.NewLogger(c.stderr, c.cfg.logLevel)
	tgt, err := c.resolve(args, logger)
	if err != nil {
		return nil, target{}, logger, err
	}
	if m := tgt.manifest; m != nil {
		logger.Info("project",
			zap.String("name", m.Name),
			zap.String("version", m.Version),
			zap.Strings("authors", m.Authors),
			zap.String("description", m.Description))
	}
	logger.Info("loading program", zap.String("entry", tgt.entry))
	program, err := driver.LoadProgram(tgt.entry)
	if err != nil {
		return nil, target{}, logger, err
	}
	return program, tgt, logger, nil
}

func (c *cli) check(args []string) error {
	program, _, logger, err := c.load(args)
	if err != nil {
		return err
	}
	defer logger.Sync()
	result, err := driver.Check(program, logger)
	if err != nil {
		return err
	}
	if err := driver.WriteDiagnostics(c.stdout, result.Diagnostics); err != nil {
		return err
	}
	if result.Err() != nil {
		return errCheckFailed
	}
	return nil
}

func (c *cli) run(args []string) error {
	program, tgt, logger, err := c.load(args)
	if err != nil {
		return err
	}
	defer logger.Sync()

	opts := driver.RunOptions{
		Typecheck:    driver.TypecheckStrict,
		MaxCallDepth: driver.DefaultMaxCallDepth,
		Output:       c.stdout,
		Diagnostics:  c.stderr,
		Logger:       logger,
	}
	if tgt.manifest != nil {
		opts.Typecheck = tgt.manifest.Typecheck
		opts.MaxCallDepth = tgt.manifest.Limits.MaxCallDepth
	}
	if c.cfg.typecheck != "" {
		mode, err := driver.ParseTypecheckMode(c.cfg.typecheck)
		if err != nil {
			return err
		}
		opts.Typecheck = mode
	}
	if c.cfg.maxCallDepth != 0 {
		if c.cfg.maxCallDepth < 0 || c.cfg.maxCallDepth > driver.MaxCallDepthLimit {
			return fmt.Errorf("max-call-depth must be between 1 and %d (got %d)", driver.MaxCallDepthLimit, c.cfg.maxCallDepth)
		}
		opts.MaxCallDepth = c.cfg.maxCallDepth
	}

	_, err = driver.Run(program, opts)
	if errors.Is(err, driver.ErrTypecheckFailed) {
		return errCheckFailed
	}
	return err
}
