// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package models

import (
	"math/big"

	"github.com/hwre/bdd"
)

// Milner computes the reachable states of a system composed of N cyclers, as
// in the examples of the BuDDy distribution. The kernel must have at least
// 6*N variables. When fast is true, the image is computed with AndExist
// instead of a conjunction followed by a quantification.
func Milner(k *bdd.Kernel, N int, fast bool) (bdd.Node, error) {
	c := make([]bdd.Node, N)
	cp := make([]bdd.Node, N)
	t := make([]bdd.Node, N)
	tp := make([]bdd.Node, N)
	h := make([]bdd.Node, N)
	hp := make([]bdd.Node, N)

	for n := 0; n < N; n++ {
		c[n] = k.Ithvar(n * 6)
		cp[n] = k.Ithvar(n*6 + 1)
		t[n] = k.Ithvar(n*6 + 2)
		tp[n] = k.Ithvar(n*6 + 3)
		h[n] = k.Ithvar(n*6 + 4)
		hp[n] = k.Ithvar(n*6 + 5)
	}

	nvar := make([]int, N*3)
	pvar := make([]int, N*3)
	for n := 0; n < N*3; n++ {
		nvar[n] = n * 2   // normal variables
		pvar[n] = n*2 + 1 // primed variables
	}
	replacer, err := k.NewReplacer(pvar, nvar)
	if err != nil {
		return nil, err
	}

	// We create a BDD for the initial state of Milner's cyclers.
	I := k.And(c[0], k.Not(h[0]), k.Not(t[0]))
	for i := 1; i < N; i++ {
		I = k.And(I, k.Not(c[i]), k.Not(h[i]), k.Not(t[i]))
	}

	// A builds a BDD expressing that all other variables than 'z' is unchanged.
	A := func(x, y []bdd.Node, z int) bdd.Node {
		res := k.True()
		for i := 0; i < N; i++ {
			if i != z {
				res = k.And(res, k.Equiv(x[i], y[i]))
			}
		}
		return res
	}

	// Now we compute the transition relation
	T := k.False()
	for i := 0; i < N; i++ {
		P1 := k.And(c[i], k.Not(cp[i]), tp[i], k.Not(t[i]), hp[i], A(c, cp, i), A(t, tp, i), A(h, hp, i))
		P2 := k.And(h[i], k.Not(hp[i]), cp[(i+1)%N], A(c, cp, (i+1)%N), A(h, hp, i), A(t, tp, N))
		E := k.And(t[i], k.Not(tp[i]), A(t, tp, i), A(h, hp, N), A(c, cp, N))
		T = k.Or(T, P1, P2, E)
	}

	// We compute the reachable states.
	R := I
	normvar := k.Makeset(nvar)
	for {
		prev := R
		if fast {
			R = k.Or(k.Replace(k.AndExist(normvar, R, T), replacer), R)
		} else {
			R = k.Or(k.Replace(k.Exist(k.And(R, T), normvar), replacer), R)
		}
		if k.Errored() {
			return nil, k.Err()
		}
		if k.Equal(prev, R) {
			break
		}
	}
	return R, nil
}

// MilnerStates returns the number of assignments satisfying the result of
// Milner over its 6*N variables, that is N * 2^(4N+1). The primed variables
// are free, so the number of reachable states is N * 2^(N+1).
func MilnerStates(N int) *big.Int {
	expected := big.NewInt(int64(N))
	pow := big.NewInt(0)
	pow.SetBit(pow, 4*N+1, 1)
	return expected.Mul(expected, pow)
}

// QueensSolutions gives the number of solutions of the N-Queens problem for
// small values of N.
var QueensSolutions = map[int]int64{
	1: 1, 2: 0, 3: 0, 4: 2, 5: 10, 6: 4, 7: 40, 8: 92, 9: 352, 10: 724, 11: 2680, 12: 14200,
}
