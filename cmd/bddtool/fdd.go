// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hwre/bdd/fdd"
)

func (a *app) fddCmd() *cobra.Command {
	var mult, start int
	var printset bool
	cmd := &cobra.Command{
		Use:   "fdd N",
		Short: "Compute the orbit of a value under multiplication modulo N",
		Long: `Encodes the relation x' = m*x mod N with two finite domains of size N,
then computes the values reachable from the start value by iterating the
image of the relation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("bad domain size %q: expected a positive integer", args[0])
			}
			if mult < 0 {
				return fmt.Errorf("negative multiplier %d", mult)
			}
			if start < 0 || start >= n {
				return fmt.Errorf("start value %d out of domain [0, %d)", start, n)
			}
			return a.orbit(cmd.OutOrStdout(), n, mult, start, printset)
		},
	}
	cmd.Flags().IntVarP(&mult, "mult", "m", 2, "multiplier")
	cmd.Flags().IntVarP(&start, "start", "s", 1, "start value")
	cmd.Flags().BoolVar(&printset, "print", false, "print the BDD of the reachable values")
	return cmd
}

// orbit prints the values reachable from start with x' = mult*x mod n.
func (a *app) orbit(out io.Writer, n, mult, start int, printset bool) error {
	k, err := a.newKernel(0, "fdd-"+strconv.Itoa(n))
	if err != nil {
		return err
	}
	defer k.Done()
	doms := fdd.New(k)
	// x and x' are interleaved
	x, err := doms.ExtDomain(n, n)
	if err != nil {
		return err
	}
	xp := x + 1
	if err := doms.AddVarBlock(x, xp, false); err != nil {
		return err
	}
	doms.SetPrinter(func(w io.Writer, d int) error {
		name := "x"
		if d == xp {
			name = "x'"
		}
		_, err := io.WriteString(w, name)
		return err
	})
	pair, err := doms.NewPair([]int{xp}, []int{x})
	if err != nil {
		return err
	}

	rel := k.False()
	for v := 0; v < n; v++ {
		rel = k.Or(rel, k.And(doms.Ithvar(x, v), doms.Ithvar(xp, (mult*v)%n)))
	}
	reach := doms.Ithvar(x, start)
	steps := 0
	for {
		prev := reach
		img := k.Replace(k.AndExist(doms.Ithset(x), reach, rel), pair)
		reach = k.Or(reach, img)
		if k.Errored() {
			return k.Err()
		}
		if err := doms.Err(); err != nil {
			return err
		}
		if k.Equal(prev, reach) {
			break
		}
		steps++
	}
	if err := a.reorderKernel(k); err != nil {
		return err
	}

	values := []int{}
	for v := 0; v < n; v++ {
		if !k.Equal(k.And(reach, doms.Ithvar(x, v)), k.False()) {
			values = append(values, v)
		}
	}
	fmt.Fprintf(out, "%s N=%d m=%d start=%d steps=%d values=%v\n", keyColor("orbit"), n, mult, start, steps, values)
	if printset {
		if err := doms.Fprintset(out, reach); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}
	return checkOrbit(values, n, mult, start)
}

// checkOrbit compares values with the orbit computed by enumeration.
func checkOrbit(values []int, n, mult, start int) error {
	seen := make([]bool, n)
	for v := start; !seen[v]; v = (mult * v) % n {
		seen[v] = true
	}
	count := 0
	for _, b := range seen {
		if b {
			count++
		}
	}
	for _, v := range values {
		if !seen[v] {
			return fmt.Errorf("value %d is not reachable from %d", v, start)
		}
	}
	if count != len(values) {
		return fmt.Errorf("expected %d reachable values, found %d", count, len(values))
	}
	return nil
}
