// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

// Restrict returns the restriction of n to the assignment described by
// minterm, a conjunction of positive and negative literals such as the result
// of Satone or And(Ithvar(1), NIthvar(3)). Every occurrence of a variable in
// minterm is replaced by its value. We return False and record an error
// wrapping ErrVar if minterm is not a conjunction of literals.
func (b *Kernel) Restrict(n, minterm Node) Node {
	if err := b.checkptr(n); err != nil {
		return b.badnode(err, "wrong node in call to Restrict")
	}
	if err := b.checkptr(minterm); err != nil {
		return b.badnode(err, "wrong minterm in call to Restrict")
	}
	if *minterm == 1 {
		return b.retnode(*n)
	}
	if err := b.minterm2cache(*minterm); err != nil {
		return bddzero
	}
	b.misccache.id = (*minterm << 3) | cacheid_RESTRICT
	b.initref()
	b.pushref(*n)
	b.pushref(*minterm)
	res := b.restrict(*n)
	b.popref(2)
	return b.retnode(res)
}

// minterm2cache marks the levels of the literals in n using a positive id for
// positive literals and a negative one otherwise.
func (b *Kernel) minterm2cache(n int) error {
	if n < 2 {
		return b.fail(ErrVar, "illegal minterm (%d)", n)
	}
	b.nextquantsetID()
	for i := n; i > 1; {
		level := b.level(i)
		switch {
		case b.low(i) == 0:
			b.quantset[level] = b.quantsetID
			i = b.high(i)
		case b.high(i) == 0:
			b.quantset[level] = -b.quantsetID
			i = b.low(i)
		default:
			return b.fail(ErrVar, "node %d is not a conjunction of literals", n)
		}
		b.quantlast = level
	}
	return nil
}

func (b *Kernel) restrict(n int) int {
	if n < 0 {
		return -1
	}
	if (n < 2) || (b.level(n) > b.quantlast) {
		return n
	}
	if res := b.matchmisc(n, 0); res >= 0 {
		return res
	}
	var res int
	switch b.quantset[b.level(n)] {
	case b.quantsetID:
		res = b.restrict(b.high(n))
	case -b.quantsetID:
		res = b.restrict(b.low(n))
	default:
		low := b.pushref(b.restrict(b.low(n)))
		high := b.pushref(b.restrict(b.high(n)))
		res = b.makenode(b.level(n), low, high)
		b.popref(2)
	}
	return b.setmisc(n, 0, res)
}

// ************************************************************

// Compose returns the result of substituting variable v in f by the function
// g.
func (b *Kernel) Compose(f, g Node, v int) Node {
	if err := b.checkptr(f); err != nil {
		return b.badnode(err, "wrong operand in call to Compose (f)")
	}
	if err := b.checkptr(g); err != nil {
		return b.badnode(err, "wrong operand in call to Compose (g)")
	}
	if (v < 0) || (int32(v) >= b.varnum) {
		return b.seterror(ErrVar, "unknown variable (%d) in call to Compose", v)
	}
	b.composelevel = b.var2level[v]
	b.misccache.id = (int(b.composelevel) << 3) | cacheid_COMPOSE
	b.initref()
	b.pushref(*f)
	b.pushref(*g)
	res := b.compose(*f, *g)
	b.popref(2)
	return b.retnode(res)
}

func (b *Kernel) compose(f, g int) int {
	if f < 0 || g < 0 {
		return -1
	}
	if b.level(f) > b.composelevel {
		return f
	}
	if res := b.matchmisc(f, g); res >= 0 {
		return res
	}
	var res int
	if b.level(f) < b.composelevel {
		var low, high int
		var level int32
		switch {
		case b.level(f) == b.level(g):
			level = b.level(f)
			low = b.pushref(b.compose(b.low(f), b.low(g)))
			high = b.pushref(b.compose(b.high(f), b.high(g)))
		case b.level(f) < b.level(g):
			level = b.level(f)
			low = b.pushref(b.compose(b.low(f), g))
			high = b.pushref(b.compose(b.high(f), g))
		default:
			level = b.level(g)
			low = b.pushref(b.compose(f, b.low(g)))
			high = b.pushref(b.compose(f, b.high(g)))
		}
		res = b.makenode(level, low, high)
		b.popref(2)
	} else {
		res = b.ite(g, b.high(f), b.low(f))
	}
	return b.setmisc(f, g, res)
}
