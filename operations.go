// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import "sort"

// Not returns the negation of the expression corresponding to node n. It
// negates a BDD by exchanging all references to the zero-terminal with
// references to the one-terminal and vice versa.
func (b *Kernel) Not(n Node) Node {
	if err := b.checkptr(n); err != nil {
		return b.badnode(err, "wrong operand in call to Not")
	}
	b.initref()
	b.pushref(*n)
	res := b.not(*n)
	b.popref(1)
	return b.retnode(res)
}

func (b *Kernel) not(n int) int {
	if n < 0 {
		return -1
	}
	if n == 0 {
		return 1
	}
	if n == 1 {
		return 0
	}
	if res := b.matchnot(n); res >= 0 {
		return res
	}
	low := b.pushref(b.not(b.low(n)))
	high := b.pushref(b.not(b.high(n)))
	res := b.makenode(b.level(n), low, high)
	b.popref(2)
	return b.setnot(n, res)
}

// Apply performs all of the basic bdd operations with two operands, such as
// AND, OR etc. Left and right are the operand and op is the requested
// operation and must be one of the following:
//
//	Identifier    Description             Truth table
//
//	OPand         logical and             [0,0,0,1]
//	OPxor         logical xor             [0,1,1,0]
//	OPor          logical or              [0,1,1,1]
//	OPnand        logical not-and         [1,1,1,0]
//	OPnor         logical not-or          [1,0,0,0]
//	OPimp         implication             [1,1,0,1]
//	OPbiimp       equivalence             [1,0,0,1]
//	OPdiff        set difference          [0,0,1,0]
//	OPless        less than               [0,1,0,0]
//	OPinvimp      reverse implication     [1,0,1,1]
func (b *Kernel) Apply(left Node, right Node, op Operator) Node {
	if err := b.checkptr(left); err != nil {
		return b.badnode(err, "wrong operand in call to Apply %s(left, ...)", op)
	}
	if err := b.checkptr(right); err != nil {
		return b.badnode(err, "wrong operand in call to Apply %s(..., right)", op)
	}
	if !op.binary() {
		return b.seterror(ErrOp, "operator %s in call to Apply", op)
	}
	b.initref()
	b.pushref(*left)
	b.pushref(*right)
	res := b.apply(*left, *right, op)
	b.popref(2)
	return b.retnode(res)
}

// applyterminal returns the result of left op right when it can be computed
// without looking at the structure of the operands, or -1.
func applyterminal(left, right int, op Operator) int {
	switch op {
	case OPand:
		if left == right {
			return left
		}
		if (left == 0) || (right == 0) {
			return 0
		}
		if left == 1 {
			return right
		}
		if right == 1 {
			return left
		}
	case OPor:
		if left == right {
			return left
		}
		if (left == 1) || (right == 1) {
			return 1
		}
		if left == 0 {
			return right
		}
		if right == 0 {
			return left
		}
	case OPxor:
		if left == right {
			return 0
		}
		if left == 0 {
			return right
		}
		if right == 0 {
			return left
		}
	case OPnand:
		if (left == 0) || (right == 0) {
			return 1
		}
	case OPnor:
		if (left == 1) || (right == 1) {
			return 0
		}
	case OPimp:
		if (left == 0) || (right == 1) || (left == right) {
			return 1
		}
		if left == 1 {
			return right
		}
	case OPbiimp:
		if left == right {
			return 1
		}
		if left == 1 {
			return right
		}
		if right == 1 {
			return left
		}
	case OPdiff:
		if (left == right) || (left == 0) || (right == 1) {
			return 0
		}
		if right == 0 {
			return left
		}
	case OPless:
		if (left == right) || (left == 1) || (right == 0) {
			return 0
		}
		if left == 0 {
			return right
		}
	case OPinvimp:
		if (right == 0) || (left == 1) || (left == right) {
			return 1
		}
		if right == 1 {
			return left
		}
	}
	if (left < 2) && (right < 2) {
		return opres[op][left][right]
	}
	return -1
}

func (b *Kernel) apply(left int, right int, op Operator) int {
	if left < 0 || right < 0 {
		return -1
	}
	if res := applyterminal(left, right, op); res >= 0 {
		return res
	}
	if res := b.matchapply(left, right, op); res >= 0 {
		return res
	}
	leftlvl := b.level(left)
	rightlvl := b.level(right)
	var res int
	switch {
	case leftlvl == rightlvl:
		low := b.pushref(b.apply(b.low(left), b.low(right), op))
		high := b.pushref(b.apply(b.high(left), b.high(right), op))
		res = b.makenode(leftlvl, low, high)
	case leftlvl < rightlvl:
		low := b.pushref(b.apply(b.low(left), right, op))
		high := b.pushref(b.apply(b.high(left), right, op))
		res = b.makenode(leftlvl, low, high)
	default:
		low := b.pushref(b.apply(left, b.low(right), op))
		high := b.pushref(b.apply(left, b.high(right), op))
		res = b.makenode(rightlvl, low, high)
	}
	b.popref(2)
	return b.setapply(left, right, op, res)
}

// Ite, short for if-then-else operator, computes the BDD for the expression [(f
// /\ g) \/ (not f /\ h)] more efficiently than doing the three operations
// separately.
func (b *Kernel) Ite(f, g, h Node) Node {
	if err := b.checkptr(f); err != nil {
		return b.badnode(err, "wrong operand in call to Ite (f)")
	}
	if err := b.checkptr(g); err != nil {
		return b.badnode(err, "wrong operand in call to Ite (g)")
	}
	if err := b.checkptr(h); err != nil {
		return b.badnode(err, "wrong operand in call to Ite (h)")
	}
	b.initref()
	b.pushref(*f)
	b.pushref(*g)
	b.pushref(*h)
	res := b.ite(*f, *g, *h)
	b.popref(3)
	return b.retnode(res)
}

// ite_low returns n if its level p is strictly higher than q or r, otherwise
// it returns the low branch of n. This is used in function ite to know which
// node to follow: we always follow the smallest(s) nodes.
func (b *Kernel) ite_low(p, q, r int32, n int) int {
	if (p > q) || (p > r) {
		return n
	}
	return b.low(n)
}

func (b *Kernel) ite_high(p, q, r int32, n int) int {
	if (p > q) || (p > r) {
		return n
	}
	return b.high(n)
}

// min3 returns the smallest value between p, q and r. This is used in function
// ite to compute the smallest level.
func min3(p, q, r int32) int32 {
	if p <= q {
		if p <= r { // p <= q && p <= r
			return p
		}
		return r // r < p <= q
	}
	if q <= r { // q < p && q <= r
		return q
	}
	return r // r < q < p
}

func (b *Kernel) ite(f, g, h int) int {
	if f < 0 || g < 0 || h < 0 {
		return -1
	}
	switch {
	case f == 1:
		return g
	case f == 0:
		return h
	case g == h:
		return g
	case (g == 1) && (h == 0):
		return f
	case (g == 0) && (h == 1):
		return b.not(f)
	}
	if res := b.matchite(f, g, h); res >= 0 {
		return res
	}
	p := b.level(f)
	q := b.level(g)
	r := b.level(h)
	low := b.pushref(b.ite(b.ite_low(p, q, r, f), b.ite_low(q, p, r, g), b.ite_low(r, p, q, h)))
	high := b.pushref(b.ite(b.ite_high(p, q, r, f), b.ite_high(q, p, r, g), b.ite_high(r, p, q, h)))
	res := b.makenode(min3(p, q, r), low, high)
	b.popref(2)
	return b.setite(f, g, h, res)
}

// ************************************************************

// Makeset returns a node corresponding to the conjunction (the cube) of all the
// variables in varset, in their positive form. It is such that
// Scanset(Makeset(a)) == a, up to the order of variables. It returns False and
// records an error wrapping ErrVar if one of the variables is outside the
// scope of the kernel (see documentation for function Ithvar).
func (b *Kernel) Makeset(varset []int) Node {
	if err := b.checkrunning("Makeset"); err != nil {
		return bddzero
	}
	levels := make([]int, 0, len(varset))
	for _, v := range varset {
		if (v < 0) || (int32(v) >= b.varnum) {
			return b.seterror(ErrVar, "unknown variable (%d) in call to Makeset", v)
		}
		levels = append(levels, int(b.var2level[v]))
	}
	// we build the cube bottom-up, starting from the highest level
	sort.Sort(sort.Reverse(sort.IntSlice(levels)))
	b.initref()
	res := 1
	for k, l := range levels {
		if k > 0 && l == levels[k-1] {
			continue
		}
		b.pushref(res)
		res = b.makenode(int32(l), 0, res)
		b.popref(1)
		if res < 0 {
			return bddzero
		}
	}
	return b.retnode(res)
}

// Scanset returns the set of variables found when following the high branch of
// node n. This is the dual of function Makeset. The result may be nil if there
// is an error. The result is sorted in the order of levels.
func (b *Kernel) Scanset(n Node) []int {
	if err := b.checkptr(n); err != nil {
		b.badnode(err, "wrong operand in call to Scanset")
		return nil
	}
	if *n < 2 {
		return nil
	}
	res := []int{}
	for i := *n; i > 1; i = b.high(i) {
		res = append(res, int(b.level2var[b.level(i)]))
	}
	return res
}

// Support returns the cube of all the variables that n depends on.
func (b *Kernel) Support(n Node) Node {
	if err := b.checkptr(n); err != nil {
		return b.badnode(err, "wrong operand in call to Support")
	}
	if *n < 2 {
		return bddone
	}
	support := make([]bool, b.varnum)
	b.supportrec(*n, support)
	b.unmarkrec(*n)
	b.initref()
	res := 1
	for l := int(b.varnum) - 1; l >= 0; l-- {
		if !support[l] {
			continue
		}
		b.pushref(res)
		res = b.makenode(int32(l), 0, res)
		b.popref(1)
		if res < 0 {
			return bddzero
		}
	}
	return b.retnode(res)
}

func (b *Kernel) supportrec(n int, support []bool) {
	if n < 2 || b.ismarked(n) {
		return
	}
	support[b.level(n)] = true
	b.marknode(n)
	b.supportrec(b.low(n), support)
	b.supportrec(b.high(n), support)
}
