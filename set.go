// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

// And returns the logical 'and' of a sequence of nodes. The conjunction of an
// empty sequence is True.
func (b *Kernel) And(n ...Node) Node {
	return b.fold(OPand, bddone, n)
}

// Or returns the logical 'or' of a sequence of nodes. The disjunction of an
// empty sequence is False.
func (b *Kernel) Or(n ...Node) Node {
	return b.fold(OPor, bddzero, n)
}

func (b *Kernel) fold(op Operator, unit Node, n []Node) Node {
	if len(n) == 0 {
		return unit
	}
	res := n[0]
	for _, v := range n[1:] {
		res = b.Apply(res, v, op)
	}
	if len(n) == 1 {
		if err := b.checkptr(res); err != nil {
			return b.badnode(err, "wrong operand in call to %s", op)
		}
	}
	return res
}

// Imp returns the logical 'implication' between two BDDs.
func (b *Kernel) Imp(n1, n2 Node) Node {
	return b.Apply(n1, n2, OPimp)
}

// Equiv returns the logical 'bi-implication' between two BDDs.
func (b *Kernel) Equiv(n1, n2 Node) Node {
	return b.Apply(n1, n2, OPbiimp)
}

// AndExist returns the "relational composition" of two nodes with respect to
// varset, meaning the result of (Exists varset . n1 & n2).
func (b *Kernel) AndExist(varset, n1, n2 Node) Node {
	return b.AppEx(n1, n2, OPand, varset)
}
