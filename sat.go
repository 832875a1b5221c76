// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"math/big"
)

// Satcount computes the number of satisfying variable assignments for the
// function denoted by n. We return a result using arbitrary-precision
// arithmetic to avoid possible overflows. The result is zero (and we record an
// error) if there is an error.
func (b *Kernel) Satcount(n Node) *big.Int {
	res := big.NewInt(0)
	if err := b.checkptr(n); err != nil {
		b.badnode(err, "wrong operand in call to Satcount")
		return res
	}
	// We compute 2^level with a bit shift 1 << level
	res.SetBit(res, int(b.level(*n)), 1)
	satc := make(map[int]*big.Int)
	return res.Mul(res, b.satcount(*n, satc))
}

func (b *Kernel) satcount(n int, satc map[int]*big.Int) *big.Int {
	if n < 2 {
		return big.NewInt(int64(n))
	}
	// we use satc to memoize the value of satcount for each nodes
	res, ok := satc[n]
	if ok {
		return res
	}
	level := b.level(n)
	low := b.low(n)
	high := b.high(n)

	res = big.NewInt(0)
	two := big.NewInt(0)
	two.SetBit(two, int(b.level(low)-level-1), 1)
	res.Add(res, two.Mul(two, b.satcount(low, satc)))
	two = big.NewInt(0)
	two.SetBit(two, int(b.level(high)-level-1), 1)
	res.Add(res, two.Mul(two, b.satcount(high, satc)))
	satc[n] = res
	return res
}

// Allsat Iterates through all legal variable assignments for n and calls the
// function f on each of them. We pass an int slice of length varnum to f where
// each entry is either 0 if the variable is false, 1 if it is true, and -1 if
// it is a don't care. The slice is indexed by variables and is reused between
// calls. We stop and return the error if f returns an error at some point.
//
// The following is an example of a callback handler that counts the number of
// possible assignments (such that we do not count don't care twice):
//
//	acc := new(int)
//	b.Allsat(n, func(varset []int) error {
//		*acc++
//		return nil
//	})
func (b *Kernel) Allsat(n Node, f func([]int) error) error {
	if err := b.checkptr(n); err != nil {
		b.badnode(err, "wrong node in call to Allsat")
		return err
	}
	prof := make([]int, b.varnum)
	for k := range prof {
		prof[k] = -1
	}
	// the function does not create new nodes, so we do not need to take care of
	// possible resizing
	return b.allsat(*n, prof, f)
}

func (b *Kernel) allsat(n int, prof []int, f func([]int) error) error {
	if n == 1 {
		return f(prof)
	}
	if n == 0 {
		return nil
	}
	level := b.level(n)
	if low := b.low(n); low != 0 {
		prof[b.level2var[level]] = 0
		for l := b.level(low) - 1; l > level; l-- {
			prof[b.level2var[l]] = -1
		}
		if err := b.allsat(low, prof, f); err != nil {
			return err
		}
	}
	if high := b.high(n); high != 0 {
		prof[b.level2var[level]] = 1
		for l := b.level(high) - 1; l > level; l-- {
			prof[b.level2var[l]] = -1
		}
		if err := b.allsat(high, prof, f); err != nil {
			return err
		}
	}
	return nil
}

// Allnodes applies function f over all the nodes accessible from the nodes in
// the sequence n..., or all the active nodes if n is absent. The parameters to
// function f are the id, variable, and id's of the low and high successors of
// each node. The two constant nodes (True and False) have always the id 1 and
// 0, respectively, and they are always visited first; their variable is
// Varnum.
//
// The order in which nodes are visited is not specified. The behavior is very
// similar to the one of Allsat. In particular, we stop the computation and
// return an error if f returns an error at some point.
func (b *Kernel) Allnodes(f func(id, variable, low, high int) error, n ...Node) error {
	for _, v := range n {
		if err := b.checkptr(v); err != nil {
			b.badnode(err, "wrong node in call to Allnodes")
			return err
		}
	}
	if err := b.checkrunning("Allnodes"); err != nil {
		return err
	}
	for k := 0; k < 2; k++ {
		if err := f(k, int(b.varnum), k, k); err != nil {
			return err
		}
	}
	if len(n) == 0 {
		for k := 2; k < len(b.nodes); k++ {
			if b.nodes[k].low == -1 {
				continue
			}
			if err := b.visit(k, f); err != nil {
				return err
			}
		}
		return nil
	}
	// we mark the nodes reachable from n then visit them in the order of the
	// table; we need to clear all the marks before returning.
	for _, v := range n {
		b.markrec(*v)
	}
	var err error
	for k := 2; k < len(b.nodes); k++ {
		if !b.ismarked(k) || b.nodes[k].low == -1 {
			continue
		}
		b.unmarknode(k)
		if err == nil {
			err = b.visit(k, f)
		}
	}
	return err
}

func (b *Kernel) visit(k int, f func(id, variable, low, high int) error) error {
	return f(k, int(b.level2var[b.level(k)]), b.low(k), b.high(k))
}

// Nodecount returns the number of nodes, not counting the constants, used by
// the BDDs in n.
func (b *Kernel) Nodecount(n ...Node) int {
	for _, v := range n {
		if err := b.checkptr(v); err != nil {
			b.badnode(err, "wrong node in call to Nodecount")
			return 0
		}
	}
	res := 0
	for _, v := range n {
		res += b.markcount(*v)
	}
	for _, v := range n {
		b.unmarkrec(*v)
	}
	return res
}

// Satone returns a single satisfying assignment of n, as a conjunction of
// literals. The assignment prefers the low branch of each node, meaning that
// variables are set to false whenever possible. The result is False only if n
// is False.
func (b *Kernel) Satone(n Node) Node {
	if err := b.checkptr(n); err != nil {
		return b.badnode(err, "wrong node in call to Satone")
	}
	b.initref()
	b.pushref(*n)
	res := b.satone(*n)
	b.popref(1)
	return b.retnode(res)
}

func (b *Kernel) satone(n int) int {
	if n < 2 {
		return n
	}
	var res int
	if b.low(n) == 0 {
		res = b.pushref(b.satone(b.high(n)))
		res = b.makenode(b.level(n), 0, res)
	} else {
		res = b.pushref(b.satone(b.low(n)))
		res = b.makenode(b.level(n), res, 0)
	}
	b.popref(1)
	return res
}
