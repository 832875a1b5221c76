// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Package circuit translates BDDs into and-inverter circuits, using the logic
// package of the gini SAT solver. The translation is linear in the size of the
// BDD: each node becomes a multiplexer on the input of its variable. This is
// mostly useful to cross-check the results of the kernel with a SAT solver.
package circuit

import (
	"fmt"
	"sort"

	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"

	"github.com/hwre/bdd"
)

// Encoder builds circuits for BDDs of a kernel. All the BDDs encoded by the
// same Encoder share the same circuit and the same inputs, one for each BDD
// variable, so they can be combined with the operations of logic.C.
type Encoder struct {
	k   *bdd.Kernel
	c   *logic.C
	ins map[int]z.Lit
}

// NewEncoder returns an Encoder with an empty circuit.
func NewEncoder(k *bdd.Kernel) *Encoder {
	return &Encoder{
		k:   k,
		c:   logic.NewC(),
		ins: make(map[int]z.Lit),
	}
}

// Circuit returns the circuit built so far.
func (e *Encoder) Circuit() *logic.C {
	return e.c
}

// Input returns the input literal associated with BDD variable v. Inputs are
// created on demand.
func (e *Encoder) Input(v int) z.Lit {
	if m, ok := e.ins[v]; ok {
		return m
	}
	m := e.c.Lit()
	e.ins[v] = m
	return m
}

// Inputs returns, in increasing order, the BDD variables that have an input
// in the circuit.
func (e *Encoder) Inputs() []int {
	res := make([]int, 0, len(e.ins))
	for v := range e.ins {
		res = append(res, v)
	}
	sort.Ints(res)
	return res
}

type bddnode struct {
	variable, low, high int
}

// Encode returns a literal of the circuit equivalent to n. Node ids are only
// used during the call, so it is safe to interleave calls to Encode with
// garbage collections or reorderings.
func (e *Encoder) Encode(n bdd.Node) (z.Lit, error) {
	if n == nil {
		return z.LitNull, fmt.Errorf("nil node in call to Encode: %w", bdd.ErrNode)
	}
	switch {
	case e.k.Equal(n, e.k.False()):
		return e.c.F, nil
	case e.k.Equal(n, e.k.True()):
		return e.c.T, nil
	}
	nodes := make(map[int]bddnode)
	err := e.k.Allnodes(func(id, variable, low, high int) error {
		if id > 1 {
			nodes[id] = bddnode{variable, low, high}
		}
		return nil
	}, n)
	if err != nil {
		return z.LitNull, err
	}
	// the root is the only node that is not a successor
	succ := make(map[int]bool, len(nodes))
	for _, nd := range nodes {
		succ[nd.low] = true
		succ[nd.high] = true
	}
	root := -1
	for id := range nodes {
		if !succ[id] {
			root = id
			break
		}
	}
	if root < 0 {
		return z.LitNull, fmt.Errorf("no root found in call to Encode: %w", bdd.ErrNode)
	}
	lits := map[int]z.Lit{0: e.c.F, 1: e.c.T}
	return e.encode(root, nodes, lits), nil
}

func (e *Encoder) encode(id int, nodes map[int]bddnode, lits map[int]z.Lit) z.Lit {
	if m, ok := lits[id]; ok {
		return m
	}
	nd := nodes[id]
	high := e.encode(nd.high, nodes, lits)
	low := e.encode(nd.low, nodes, lits)
	m := e.c.Choice(e.Input(nd.variable), high, low)
	lits[id] = m
	return m
}
