// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Package models builds the BDD of classic benchmark problems. They are used
// in tests and by the bddtool command.
package models

import (
	"github.com/hwre/bdd"
)

// Queens returns the BDD encoding the solutions of the N-Queens chess
// problem, using N*N variables corresponding to the squares in the chess board
// like:
//
//	0 4  8 12
//	1 5  9 13
//	2 6 10 14
//	3 7 11 15
//
// One solution is then that 2,4,11,13 should be true, meaning a queen should be
// placed there:
//
//	. X . .
//	. . . X
//	X . . .
//	. . X .
//
// The kernel must have at least N*N variables.
func Queens(k *bdd.Kernel, N int) bdd.Node {
	queen := k.True()
	X := make([][]bdd.Node, N)
	for i := range X {
		X[i] = make([]bdd.Node, N)
		for j := range X[i] {
			X[i][j] = k.Ithvar(i*N + j)
		}
	}
	// Place a queen in each row
	for i := 0; i < N; i++ {
		e := k.False()
		for j := 0; j < N; j++ {
			e = k.Or(e, X[i][j])
		}
		queen = k.And(queen, e)
	}

	// Build requirements for each square
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			// No one in the same column
			a := k.True()
			for l := 0; l < N; l++ {
				if l != j {
					a = k.And(a, k.Imp(X[i][j], k.Not(X[i][l])))
				}
			}
			// No one in the same row
			b := k.True()
			for l := 0; l < N; l++ {
				if l != i {
					b = k.And(b, k.Imp(X[i][j], k.Not(X[l][j])))
				}
			}
			// No one in the same up-right diagonal
			c := k.True()
			for l := 0; l < N; l++ {
				ll := l - i + j
				if ll >= 0 && ll < N && l != i {
					c = k.And(c, k.Imp(X[i][j], k.Not(X[l][ll])))
				}
			}
			// No one in the same down-right diagonal
			d := k.True()
			for l := 0; l < N; l++ {
				ll := i + j - l
				if ll >= 0 && ll < N && l != i {
					d = k.And(d, k.Imp(X[i][j], k.Not(X[l][ll])))
				}
			}
			queen = k.And(queen, a, b, c, d)
		}
	}
	return queen
}
