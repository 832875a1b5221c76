// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"fmt"
	"runtime"
)

// Node is a reference to an element of a BDD. It represents the atomic unit of
// interactions and computations within a kernel. A Node returned by an
// operation holds a reference on its node in the table, which is released
// when the Node is reclaimed by the Go garbage collector.
type Node *int

// retnode creates a Node for external use and sets a finalizer on it so that
// we can reclaim the node during the next garbage collection of the kernel.
// Negative values are used to signal an error during a computation; the error
// has already been recorded at this point.
func (b *Kernel) retnode(n int) Node {
	if n < 0 || n >= len(b.nodes) {
		return bddzero
	}
	if n < 2 {
		if n == 0 {
			return bddzero
		}
		return bddone
	}
	if b.nodes[n].refcou >= _MAXREFCOUNT {
		return inode(n)
	}
	b.nodes[n].refcou++
	x := n
	res := &x
	runtime.SetFinalizer(res, b.nodefinalizer)
	if _DEBUG {
		b.gcstat.setfinalizers++
	}
	return res
}

// checkptr returns an error if n is not a valid handle for a node in b.
func (b *Kernel) checkptr(n Node) error {
	switch {
	case !b.running:
		return ErrRunning
	case n == nil:
		return fmt.Errorf("%w (nil)", ErrNode)
	case *n < 0 || *n >= len(b.nodes):
		return fmt.Errorf("%w (%d not a valid index)", ErrNode, *n)
	case *n > 1 && b.nodes[*n].low == -1:
		return fmt.Errorf("%w (%d is not in use)", ErrNode, *n)
	}
	return nil
}

// badnode records an error raised by checkptr.
func (b *Kernel) badnode(err error, format string, a ...interface{}) Node {
	b.adderror(fmt.Errorf(format+": %w", append(a, err)...))
	return bddzero
}

func (b *Kernel) checkrunning(op string) error {
	if b.running {
		return nil
	}
	return b.fail(ErrRunning, "call to %s", op)
}

// ************************************************************

// Varnum returns the number of defined variables.
func (b *Kernel) Varnum() int {
	return int(b.varnum)
}

// True returns the constant true BDD.
func (b *Kernel) True() Node {
	return bddone
}

// False returns the constant false BDD.
func (b *Kernel) False() Node {
	return bddzero
}

// From returns a (constant) Node from a boolean value.
func (b *Kernel) From(v bool) Node {
	if v {
		return bddone
	}
	return bddzero
}

// Ithvar returns a BDD representing the i'th variable on success. The
// requested variable must be in the range [0..Varnum). Otherwise we return
// False and record an error wrapping ErrVar.
func (b *Kernel) Ithvar(i int) Node {
	if err := b.checkrunning("Ithvar"); err != nil {
		return bddzero
	}
	if (i < 0) || (int32(i) >= b.varnum) {
		return b.seterror(ErrVar, "unknown variable used (%d) in call to Ithvar", i)
	}
	// we do not need to reference count variables
	return inode(b.varset[i][0])
}

// NIthvar returns a BDD representing the negation of the i'th variable on
// success. See Ithvar for further info.
func (b *Kernel) NIthvar(i int) Node {
	if err := b.checkrunning("NIthvar"); err != nil {
		return bddzero
	}
	if (i < 0) || (int32(i) >= b.varnum) {
		return b.seterror(ErrVar, "unknown variable used (%d) in call to NIthvar", i)
	}
	return inode(b.varset[i][1])
}

// Label returns the variable tested in the root of n. We return -1 and record
// an error wrapping ErrNode if n is a constant.
func (b *Kernel) Label(n Node) int {
	if err := b.checkptr(n); err != nil {
		b.badnode(err, "wrong operand in call to Label")
		return -1
	}
	if *n < 2 {
		b.fail(ErrNode, "constant %d has no label", *n)
		return -1
	}
	return int(b.level2var[b.level(*n)])
}

// Low returns the false branch of a BDD. We return False and record an error
// if n is a constant.
func (b *Kernel) Low(n Node) Node {
	if err := b.checkptr(n); err != nil {
		return b.badnode(err, "wrong operand in call to Low")
	}
	if *n < 2 {
		return b.seterror(ErrNode, "constant %d has no low branch", *n)
	}
	return b.retnode(b.low(*n))
}

// High returns the true branch of a BDD. We return False and record an error
// if n is a constant.
func (b *Kernel) High(n Node) Node {
	if err := b.checkptr(n); err != nil {
		return b.badnode(err, "wrong operand in call to High")
	}
	if *n < 2 {
		return b.seterror(ErrNode, "constant %d has no high branch", *n)
	}
	return b.retnode(b.high(*n))
}

// Equal tests equivalence between nodes. Since diagrams are canonical, two
// nodes are equivalent if and only if they have the same index.
func (b *Kernel) Equal(n1, n2 Node) bool {
	if n1 == n2 {
		return true
	}
	if n1 == nil || n2 == nil {
		return false
	}
	return *n1 == *n2
}

// Var2Level returns the level of variable v in the current variable order, or
// -1 if v is not a variable.
func (b *Kernel) Var2Level(v int) int {
	if (v < 0) || (int32(v) >= b.varnum) {
		b.fail(ErrVar, "unknown variable (%d) in call to Var2Level", v)
		return -1
	}
	return int(b.var2level[v])
}

// Level2Var returns the variable found at the given level in the current
// variable order, or -1 if there is no such level.
func (b *Kernel) Level2Var(level int) int {
	if (level < 0) || (int32(level) >= b.varnum) {
		b.fail(ErrRange, "unknown level (%d) in call to Level2Var", level)
		return -1
	}
	return int(b.level2var[level])
}
