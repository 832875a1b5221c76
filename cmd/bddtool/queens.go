// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package main

import (
	"context"
	"fmt"
	"math/big"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hwre/bdd/circuit"
	"github.com/hwre/bdd/internal/models"
)

type queensResult struct {
	n         int
	solutions *big.Int
	nodes     int
	checked   bool // a SAT model has been found and checked
}

func (a *app) queensCmd() *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "queens N...",
		Short: "Count the solutions of the N-queens problem",
		Long: `Builds the BDD of the N-queens problem for every size given on the
command line. Each size is solved in its own kernel and sizes are solved in
parallel.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sizes, err := parseSizes(args)
			if err != nil {
				return err
			}
			results := make([]queensResult, len(sizes))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(a.cfg.Workers)
			for i, n := range sizes {
				i, n := i, n
				g.Go(func() error {
					res, err := a.queens(ctx, n, check)
					results[i] = res
					return err
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, res := range results {
				fmt.Fprintf(out, "%s N=%d solutions=%s nodes=%d", keyColor("queens"), res.n, res.solutions, res.nodes)
				if expected, ok := models.QueensSolutions[res.n]; ok {
					fmt.Fprintf(out, " %s", status(res.solutions.Cmp(big.NewInt(expected)) == 0))
				}
				if check {
					fmt.Fprintf(out, " sat=%s", status(res.checked == (res.solutions.Sign() > 0)))
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "cross-check satisfiability with a SAT solver")
	return cmd
}

func (a *app) queens(ctx context.Context, n int, check bool) (queensResult, error) {
	res := queensResult{n: n}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	job := "queens-" + strconv.Itoa(n)
	k, err := a.newKernel(n*n, job)
	if err != nil {
		return res, err
	}
	defer k.Done()
	q := models.Queens(k, n)
	if err := a.reorderKernel(k); err != nil {
		return res, err
	}
	if k.Errored() {
		return res, k.Err()
	}
	res.solutions = k.Satcount(q)
	res.nodes = k.Nodecount(q)
	if check {
		sat, model, err := circuit.Satisfiable(k, q)
		if err != nil {
			return res, err
		}
		if sat {
			// the model must place exactly one queen on each row
			for i := 0; i < n; i++ {
				count := 0
				for j := 0; j < n; j++ {
					if model[i*n+j] {
						count++
					}
				}
				if count != 1 {
					return res, fmt.Errorf("SAT model for %d-queens has %d queens on row %d", n, count, i)
				}
			}
		}
		res.checked = sat
	}
	a.logger.Info("queens done",
		zap.Int("N", n),
		zap.String("solutions", res.solutions.String()),
		zap.Int("nodes", res.nodes))
	return res, nil
}

func parseSizes(args []string) ([]int, error) {
	sizes := make([]int, len(args))
	for i, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("bad size %q: expected a positive integer", arg)
		}
		sizes[i] = n
	}
	return sizes, nil
}
