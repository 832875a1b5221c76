// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Command bddtool runs the classic BDD benchmarks (n-queens, Milner's
// cyclers) and small finite-domain computations with the bdd kernel.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hwre/bdd"
	"github.com/hwre/bdd/internal/config"
)

// app holds the state shared by all the subcommands.
type app struct {
	configPath string
	verbose    bool
	reorder    string

	cfg    *config.Config
	method bdd.ReorderMethod
	logger *zap.Logger
}

var (
	okColor   = color.New(color.FgGreen).SprintFunc()
	failColor = color.New(color.FgRed, color.Bold).SprintFunc()
	keyColor  = color.New(color.FgCyan).SprintFunc()
)

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "bddtool",
		Short: "Run BDD benchmarks with the bdd kernel",
		Long: `bddtool builds the BDD of classic problems and reports the number of
solutions and the size of the diagrams.

Kernel sizes, the reordering heuristic and logging can be set in a YAML
configuration file (see --config).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "bddtool.yaml", "configuration file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log kernel events (GC, resize, reordering)")
	root.PersistentFlags().StringVarP(&a.reorder, "reorder", "r", "", "reordering method: none, win2, win2ite, sift, siftite or random")

	root.AddCommand(a.queensCmd(), a.milnerCmd(), a.fddCmd())
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.reorder != "" {
		cfg.Reorder.Method = a.reorder
	}
	if a.verbose {
		cfg.Logging.Level = zapcore.DebugLevel.String()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.method, _ = cfg.ReorderMethod()
	a.cfg = cfg
	a.logger, err = cfg.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger.Debug("configuration loaded",
		zap.String("command", cmd.Name()),
		zap.String("reorder", a.method.String()),
		zap.Int("workers", cfg.Workers))
	return nil
}

// newKernel returns a kernel configured with the options of the configuration
// file. The logger is named after the job, since kernels may run in parallel.
func (a *app) newKernel(varnum int, job string) (*bdd.Kernel, error) {
	return bdd.New(varnum, a.cfg.Options(a.logger.Named(job))...)
}

// reorderKernel applies the reordering method selected by the user, if any.
func (a *app) reorderKernel(k *bdd.Kernel) error {
	if a.method == bdd.ReorderNone {
		return nil
	}
	return k.Reorder(a.method)
}

func status(ok bool) string {
	if ok {
		return okColor("ok")
	}
	return failColor("FAIL")
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
