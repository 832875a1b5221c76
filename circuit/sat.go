// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package circuit

import (
	"github.com/go-air/gini"
	"github.com/go-air/gini/z"

	"github.com/hwre/bdd"
)

// solve checks the satisfiability of literal m in the circuit of e. The
// constant True of the circuit is not constrained by its CNF, so we add it as
// a unit clause.
func (e *Encoder) solve(m z.Lit) (*gini.Gini, bool) {
	g := gini.New()
	e.c.ToCnf(g)
	g.Add(e.c.T)
	g.Add(0)
	g.Assume(m)
	return g, g.Solve() == 1
}

// Satisfiable uses a SAT solver to check whether n has a satisfying
// assignment. When this is the case, it also returns a model giving the value
// of every variable in the support of n.
func Satisfiable(k *bdd.Kernel, n bdd.Node) (bool, map[int]bool, error) {
	e := NewEncoder(k)
	m, err := e.Encode(n)
	if err != nil {
		return false, nil, err
	}
	g, sat := e.solve(m)
	if !sat {
		return false, nil, nil
	}
	model := make(map[int]bool, len(e.ins))
	for v, in := range e.ins {
		model[v] = g.Value(in)
	}
	return true, model, nil
}

// Equivalent uses a SAT solver to check whether a and b denote the same
// Boolean function. Since the kernel is canonical, this is the same as
// k.Equal(a, b) when both nodes come from k.
func Equivalent(k *bdd.Kernel, a, b bdd.Node) (bool, error) {
	e := NewEncoder(k)
	ma, err := e.Encode(a)
	if err != nil {
		return false, err
	}
	mb, err := e.Encode(b)
	if err != nil {
		return false, err
	}
	_, sat := e.solve(e.c.Xor(ma, mb))
	return !sat, nil
}
