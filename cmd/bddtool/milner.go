// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package main

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hwre/bdd"
	"github.com/hwre/bdd/internal/models"
)

type milnerResult struct {
	n        int
	states   *big.Int
	ok       bool
	nodes    int
	stats    bdd.Stats
	duration time.Duration
}

func (a *app) milnerCmd() *cobra.Command {
	var fast, stats bool
	cmd := &cobra.Command{
		Use:   "milner N...",
		Short: "Compute the reachable states of Milner's cyclers",
		Long: `Computes the set of reachable states of a ring of N cyclers for every
size given on the command line, and checks it against the expected number of
states, N * 2^(N+1).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sizes, err := parseSizes(args)
			if err != nil {
				return err
			}
			results := make([]milnerResult, len(sizes))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(a.cfg.Workers)
			for i, n := range sizes {
				i, n := i, n
				g.Go(func() error {
					res, err := a.milner(ctx, n, fast)
					results[i] = res
					return err
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, res := range results {
				fmt.Fprintf(out, "%s N=%d states=%s nodes=%d %s\n",
					keyColor("milner"), res.n, res.states, res.nodes,
					status(res.ok))
				if stats {
					fmt.Fprintf(out, "time: %s\n%s", res.duration.Round(time.Millisecond), res.stats)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&fast, "fast", true, "compute images with AndExist")
	cmd.Flags().BoolVar(&stats, "stats", false, "print the statistics of each kernel")
	return cmd
}

func (a *app) milner(ctx context.Context, n int, fast bool) (milnerResult, error) {
	res := milnerResult{n: n}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	start := time.Now()
	k, err := a.newKernel(6*n, "milner-"+strconv.Itoa(n))
	if err != nil {
		return res, err
	}
	defer k.Done()
	if a.method != bdd.ReorderNone {
		// each cycler is moved as a whole
		for i := 0; i < n; i++ {
			if err := k.AddVarBlockRange(6*i, 6*i+5, false); err != nil {
				return res, err
			}
		}
	}
	r, err := models.Milner(k, n, fast)
	if err != nil {
		return res, err
	}
	if err := a.reorderKernel(k); err != nil {
		return res, err
	}
	count := k.Satcount(r)
	res.ok = count.Cmp(models.MilnerStates(n)) == 0
	// primed variables are free in r
	res.states = count.Rsh(count, uint(3*n))
	res.nodes = k.Nodecount(r)
	res.stats = k.Stats()
	res.duration = time.Since(start)
	a.logger.Info("milner done",
		zap.Int("N", n),
		zap.String("states", res.states.String()),
		zap.Duration("duration", res.duration))
	return res, nil
}
