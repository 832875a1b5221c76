// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

// bddNode is a slot in the node table. A slot is free when low is -1; free
// slots are chained together using next. The hash field of slot k is the head
// of the k-th bucket of the unique table, which is unrelated to the content of
// the slot.
type bddNode struct {
	refcou int32 // Count the number of external references
	level  int32 // Order of the variable in the BDD
	low    int   // Reference to the false branch
	high   int   // Reference to the true branch
	hash   int   // Index where to (possibly) find node with this hash value
	next   int   // Next index to check in case of a collision, 0 if last
}

const _MARKMASK int32 = 0x200000

// ************************************************************

// inode returns a Node for known nodes, such as variables, that do not need to
// increase their reference count.
func inode(n int) Node {
	x := n
	return &x
}

var bddone Node = inode(1)

var bddzero Node = inode(0)

// ************************************************************

func (b *Kernel) ismarked(n int) bool {
	return (b.nodes[n].level & _MARKMASK) != 0
}

func (b *Kernel) marknode(n int) {
	b.nodes[n].level = b.nodes[n].level | _MARKMASK
}

func (b *Kernel) unmarknode(n int) {
	b.nodes[n].level = b.nodes[n].level & _MAXVAR
}

func (b *Kernel) level(n int) int32 {
	return b.nodes[n].level
}

func (b *Kernel) low(n int) int {
	return b.nodes[n].low
}

func (b *Kernel) high(n int) int {
	return b.nodes[n].high
}
