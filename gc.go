// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"go.uber.org/zap"
)

// gcstat stores status information about garbage collections. We use a stack
// (slice) of objects to record the sequence of GC during a computation.
type gcstat struct {
	setfinalizers    uint64    // Total number of external references to BDD nodes
	calledfinalizers uint64    // Number of external references that were freed
	history          []gcpoint // Snaphot of GC stats at each occurrence
}

type gcpoint struct {
	nodes            int // Total number of allocated nodes in the nodetable
	freenodes        int // Number of free nodes in the nodetable
	setfinalizers    int // Total number of external references to BDD nodes
	calledfinalizers int // Number of external references that were freed
}

// *************************************************************************

// AddRef increases the reference count on node n and returns n so that calls
// can be easily chained together. A call to AddRef can never raise an error,
// even if we access an unused node or a value outside the range of the table.
//
// Nodes returned by the kernel are already protected until their handle is
// reclaimed by the Go runtime. AddRef is useful to keep a node alive
// independently of its handle, for instance when only its index is stored.
func (b *Kernel) AddRef(n Node) Node {
	if n == nil || *n < 2 || *n >= len(b.nodes) {
		return n
	}
	if b.nodes[*n].low == -1 {
		return n
	}
	if b.nodes[*n].refcou < _MAXREFCOUNT {
		b.nodes[*n].refcou++
	}
	return n
}

// DelRef decreases the reference count on a node and returns n so that calls
// can be easily chained together. A call to DelRef can never raise an error,
// even if we access an unused node or a value outside the range of the table.
func (b *Kernel) DelRef(n Node) Node {
	if n == nil || *n < 2 || *n >= len(b.nodes) {
		return n
	}
	b.decref(*n)
	return n
}

func (b *Kernel) decref(n int) {
	if b.nodes[n].low == -1 {
		return
	}
	if b.nodes[n].refcou <= 0 {
		return
	}
	if b.nodes[n].refcou < _MAXREFCOUNT {
		b.nodes[n].refcou--
	}
}

// GC explicitly starts a garbage collection of unused nodes. Only the
// references released by the Go runtime before the call can be reclaimed.
func (b *Kernel) GC() {
	if !b.running {
		return
	}
	b.gbc()
}

// *************************************************************************

// gbc is the garbage collector called for reclaiming memory, inside a call to
// makenode, when there are no free positions available. Allocated nodes that
// are not reclaimed do not move.
func (b *Kernel) gbc() {
	b.logger.Debug("start GC", zap.Int("free", b.freenum))
	if _DEBUG {
		b.logger.Debug("cache stats", b.cachestat.fields()...)
		b.logTable()
	}
	// we append the current stats to the GC history
	b.gcstat.history = append(b.gcstat.history, gcpoint{
		nodes:            len(b.nodes),
		freenodes:        b.freenum,
		setfinalizers:    int(b.gcstat.setfinalizers),
		calledfinalizers: int(b.gcstat.calledfinalizers),
	})
	b.gcstat.setfinalizers = 0
	b.gcstat.calledfinalizers = 0
	released := b.collect()
	b.logger.Debug("end GC",
		zap.Int("free", b.freenum),
		zap.Int("released", released))
}

// collect is the mark and sweep phase of the garbage collector. It returns the
// number of references released by the Go runtime since the last collection.
// It is also used during reordering to compute the number of live nodes.
func (b *Kernel) collect() int {
	// we release the references of handles reclaimed by the Go runtime
	released := b.released.drain()
	for _, n := range released {
		if n > 1 && n < len(b.nodes) {
			b.decref(n)
		}
	}
	if _DEBUG {
		b.gcstat.calledfinalizers += uint64(len(released))
	}
	// we mark the nodes in the refstack to avoid collecting them
	for _, r := range b.refstack {
		b.markrec(r)
	}
	// we also protect nodes with a positive refcount (and therefore also the
	// ones with a MAXREFCOUNT, such has variables)
	for k := range b.nodes {
		if b.nodes[k].refcou > 0 {
			b.markrec(k)
		}
		b.nodes[k].hash = 0
	}
	b.freepos = 0
	b.freenum = 0
	// we do a pass through the nodes list to update the hash chains and void
	// the unmarked nodes. After finishing this pass, b.freepos points to the
	// first free position in b.nodes, or it is 0 if we found none.
	for n := len(b.nodes) - 1; n > 1; n-- {
		if b.ismarked(n) && (b.nodes[n].low != -1) {
			b.unmarknode(n)
			b.insert(n)
		} else {
			b.nodes[n].low = -1
			b.nodes[n].refcou = 0
			b.nodes[n].next = b.freepos
			b.freepos = n
			b.freenum++
		}
	}
	// we also invalidate the caches
	b.cachereset()
	return len(released)
}

// *************************************************************************
// RECURSIVE MARK / UNMARK

func (b *Kernel) markrec(n int) {
	if n < 2 || b.ismarked(n) || (b.nodes[n].low == -1) {
		return
	}
	b.marknode(n)
	b.markrec(b.nodes[n].low)
	b.markrec(b.nodes[n].high)
}

// markcount returns the number of successors of the node n and mark them.
func (b *Kernel) markcount(n int) int {
	if n < 2 || b.ismarked(n) || (b.nodes[n].low == -1) {
		return 0
	}
	b.marknode(n)
	return 1 + b.markcount(b.nodes[n].low) + b.markcount(b.nodes[n].high)
}

func (b *Kernel) unmarkrec(n int) {
	if n < 2 || !b.ismarked(n) || (b.nodes[n].low == -1) {
		return
	}
	b.unmarknode(n)
	b.unmarkrec(b.nodes[n].low)
	b.unmarkrec(b.nodes[n].high)
}

// *************************************************************************
// private functions to manipulate the refstack; used to prevent nodes that are
// currently being built (e.g. transient nodes built during an apply) to be
// reclaimed during GC.

func (b *Kernel) initref() {
	b.refstack = b.refstack[:0]
}

func (b *Kernel) pushref(n int) int {
	b.refstack = append(b.refstack, n)
	return n
}

func (b *Kernel) popref(a int) {
	b.refstack = b.refstack[:len(b.refstack)-a]
}
