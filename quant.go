// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import "math"

// quantset2cache takes a variable set, similar to the ones generated with
// Makeset, and marks its levels in quantset with a fresh id.
func (b *Kernel) quantset2cache(n int) error {
	if n < 2 {
		return b.fail(ErrVar, "illegal variable set (%d)", n)
	}
	b.nextquantsetID()
	for i := n; i > 1; i = b.high(i) {
		b.quantset[b.level(i)] = b.quantsetID
		b.quantlast = b.level(i)
	}
	return nil
}

func (b *Kernel) nextquantsetID() {
	b.quantsetID++
	if b.quantsetID == math.MaxInt32 {
		b.quantset = make([]int32, b.varnum)
		b.quantsetID = 1
	}
}

// Exist returns the existential quantification of n for the variables in
// varset, where varset is a node built with a method such as Makeset. We
// return False and record an error if there is a problem.
func (b *Kernel) Exist(n, varset Node) Node {
	return b.quantify(n, varset, OPor, cacheid_EXIST, "Exist")
}

// Forall returns the universal quantification of n for the variables in
// varset, where varset is a node built with a method such as Makeset.
func (b *Kernel) Forall(n, varset Node) Node {
	return b.quantify(n, varset, OPand, cacheid_FORALL, "Forall")
}

// Unique returns the unique quantification of n for the variables in varset,
// meaning the exclusive or of all the cofactors of n with respect to these
// variables.
func (b *Kernel) Unique(n, varset Node) Node {
	return b.quantify(n, varset, OPxor, cacheid_UNIQUE, "Unique")
}

func (b *Kernel) quantify(n, varset Node, op Operator, cacheid int, name string) Node {
	if err := b.checkptr(n); err != nil {
		return b.badnode(err, "wrong node in call to %s", name)
	}
	if err := b.checkptr(varset); err != nil {
		return b.badnode(err, "wrong varset in call to %s", name)
	}
	if *varset < 2 { // we have an empty set or a constant
		return b.retnode(*n)
	}
	if err := b.quantset2cache(*varset); err != nil {
		return bddzero
	}
	b.quantcache.id = (*varset << 3) | cacheid
	b.initref()
	b.pushref(*n)
	b.pushref(*varset)
	res := b.quant(*n, op)
	b.popref(2)
	return b.retnode(res)
}

func (b *Kernel) quant(n int, op Operator) int {
	if n < 0 {
		return -1
	}
	if (n < 2) || (b.level(n) > b.quantlast) {
		return n
	}
	if res := b.matchquant(n); res >= 0 {
		return res
	}
	low := b.pushref(b.quant(b.low(n), op))
	high := b.pushref(b.quant(b.high(n), op))
	var res int
	if b.quantset[b.level(n)] == b.quantsetID {
		res = b.apply(low, high, op)
	} else {
		res = b.makenode(b.level(n), low, high)
	}
	b.popref(2)
	return b.setquant(n, res)
}

// AppEx applies the binary operator op on the two operands left and right
// then performs an existential quantification over the variables in varset.
// This is done in a bottom up manner such that both the apply and
// quantification is done on the lower nodes before stepping up to the higher
// nodes. This makes AppEx much more efficient than an apply operation followed
// by a quantification. Note that, when op is a conjunction, this operation
// returns the relational product of two BDDs.
func (b *Kernel) AppEx(left Node, right Node, op Operator, varset Node) Node {
	if !op.binary() {
		return b.seterror(ErrOp, "operator %s not supported in call to AppEx", op)
	}
	if err := b.checkptr(varset); err != nil {
		return b.badnode(err, "wrong varset in call to AppEx")
	}
	if *varset < 2 { // we have an empty set
		return b.Apply(left, right, op)
	}
	if err := b.checkptr(left); err != nil {
		return b.badnode(err, "wrong operand in call to AppEx %s(left, ...)", op)
	}
	if err := b.checkptr(right); err != nil {
		return b.badnode(err, "wrong operand in call to AppEx %s(..., right)", op)
	}
	if err := b.quantset2cache(*varset); err != nil {
		return bddzero
	}
	b.appexcache.id = (*varset << 4) | int(op)
	b.quantcache.id = (*varset << 3) | cacheid_EXIST
	b.initref()
	b.pushref(*left)
	b.pushref(*right)
	b.pushref(*varset)
	res := b.appquant(*left, *right, op)
	b.popref(3)
	return b.retnode(res)
}

func (b *Kernel) appquant(left, right int, op Operator) int {
	if left < 0 || right < 0 {
		return -1
	}
	switch op {
	case OPand:
		if left == 0 || right == 0 {
			return 0
		}
		if left == right {
			return b.quant(left, OPor)
		}
		if left == 1 {
			return b.quant(right, OPor)
		}
		if right == 1 {
			return b.quant(left, OPor)
		}
	case OPor:
		if left == 1 || right == 1 {
			return 1
		}
		if left == right {
			return b.quant(left, OPor)
		}
		if left == 0 {
			return b.quant(right, OPor)
		}
		if right == 0 {
			return b.quant(left, OPor)
		}
	case OPxor:
		if left == right {
			return 0
		}
		if left == 0 {
			return b.quant(right, OPor)
		}
		if right == 0 {
			return b.quant(left, OPor)
		}
	case OPnand:
		if left == 0 || right == 0 {
			return 1
		}
	case OPnor:
		if left == 1 || right == 1 {
			return 0
		}
	}

	// we deal with the case where we have no more variables to quantify, which
	// includes the case where both operands are constants
	if (b.level(left) > b.quantlast) && (b.level(right) > b.quantlast) {
		return b.apply(left, right, op)
	}

	// next we check if the operation is already in our cache
	if res := b.matchappex(left, right); res >= 0 {
		return res
	}
	leftlvl := b.level(left)
	rightlvl := b.level(right)
	var low, high int
	var level int32
	switch {
	case leftlvl == rightlvl:
		level = leftlvl
		low = b.pushref(b.appquant(b.low(left), b.low(right), op))
		high = b.pushref(b.appquant(b.high(left), b.high(right), op))
	case leftlvl < rightlvl:
		level = leftlvl
		low = b.pushref(b.appquant(b.low(left), right, op))
		high = b.pushref(b.appquant(b.high(left), right, op))
	default:
		level = rightlvl
		low = b.pushref(b.appquant(left, b.low(right), op))
		high = b.pushref(b.appquant(left, b.high(right), op))
	}
	var res int
	if b.quantset[level] == b.quantsetID {
		res = b.apply(low, high, OPor)
	} else {
		res = b.makenode(level, low, high)
	}
	b.popref(2)
	return b.setappex(left, right, res)
}
