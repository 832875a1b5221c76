// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"fmt"

	"go.uber.org/zap"
)

// makenode returns the index of the node (level, low, high), creating it if
// needed. A node with identical branches is never created. When there are no
// free slots left, we start a garbage collection and possibly resize the
// table. We return -1, and record an error, if no slot can be found.
func (b *Kernel) makenode(level int32, low, high int) int {
	if low < 0 || high < 0 {
		return -1
	}
	if _DEBUG {
		b.cachestat.uniqueAccess++
	}
	// check whether children are equal, in which case we can skip the node
	if low == high {
		return low
	}
	// otherwise try to find an existing node using the unique table
	hash := b.nodehash(level, low, high)
	res := b.nodes[hash].hash
	for res != 0 {
		if b.nodes[res].level == level && b.nodes[res].low == low && b.nodes[res].high == high {
			if _DEBUG {
				b.cachestat.uniqueHit++
			}
			return res
		}
		res = b.nodes[res].next
		if _DEBUG {
			b.cachestat.uniqueChain++
		}
	}
	if _DEBUG {
		b.cachestat.uniqueMiss++
	}
	// If no existing node, we build one. If there is no available spot
	// (b.freepos == 0), we try garbage collection and, as a last resort,
	// resizing the table.
	if b.freepos == 0 {
		if b.reordering {
			b.fail(ErrMemory, "no free node left during reordering (size %d)", len(b.nodes))
			return -1
		}
		b.gbc()
		if (b.freenum*100)/len(b.nodes) <= b.minfreenodes {
			if err := b.noderesize(); err != nil && b.freepos == 0 {
				b.adderror(err)
				return -1
			}
		}
		if b.freepos == 0 {
			b.fail(ErrMemory, "cannot allocate a new node (table size %d)", len(b.nodes))
			return -1
		}
		// the table may have been resized
		hash = b.nodehash(level, low, high)
	}
	res = b.freepos
	b.freepos = b.nodes[b.freepos].next
	b.freenum--
	b.produced++
	b.nodes[res].refcou = 0
	b.nodes[res].level = level
	b.nodes[res].low = low
	b.nodes[res].high = high
	b.nodes[res].next = b.nodes[hash].hash
	b.nodes[hash].hash = res
	return res
}

// noderesize grows the node table. The new size is the double of the current
// one, bounded by maxnodeincrease and maxnodesize. All the nodes are rehashed
// and the caches are resized, and therefore reset.
func (b *Kernel) noderesize() error {
	oldsize := len(b.nodes)
	if (b.maxnodesize > 0) && (oldsize >= b.maxnodesize) {
		return b.maxsizeerror(oldsize)
	}
	nodesize := 2 * oldsize
	if (b.maxnodeincrease > 0) && (nodesize > oldsize+b.maxnodeincrease) {
		nodesize = oldsize + b.maxnodeincrease
	}
	if (b.maxnodesize > 0) && (nodesize > b.maxnodesize) {
		nodesize = b.maxnodesize
	}
	nodesize = bdd_prime_lte(nodesize)
	if nodesize <= oldsize {
		return b.maxsizeerror(oldsize)
	}
	b.nodes = append(b.nodes, make([]bddNode, nodesize-oldsize)...)
	for n := oldsize; n < nodesize; n++ {
		b.nodes[n].low = -1
	}
	b.rehash()
	b.cacheresize()
	b.logger.Debug("resize node table",
		zap.Int("from", oldsize),
		zap.Int("to", nodesize),
		zap.Int("free", b.freenum))
	return nil
}

func (b *Kernel) maxsizeerror(size int) error {
	return fmt.Errorf("cannot resize node table above %d nodes: %w", size, ErrMemory)
}

// rehash rebuilds the hash chains of the unique table, and the list of free
// nodes, from the content of the table. Slots 0 and 1 are never free. After
// this pass b.freepos points to the first free position in b.nodes, or it is 0
// if we found none.
func (b *Kernel) rehash() {
	for k := range b.nodes {
		b.nodes[k].hash = 0
	}
	b.freepos = 0
	b.freenum = 0
	for n := len(b.nodes) - 1; n > 1; n-- {
		if b.nodes[n].low != -1 {
			b.insert(n)
		} else {
			b.nodes[n].next = b.freepos
			b.freepos = n
			b.freenum++
		}
	}
}

// insert adds node n at the head of its hash chain.
func (b *Kernel) insert(n int) {
	hash := b.ptrhash(n)
	b.nodes[n].next = b.nodes[hash].hash
	b.nodes[hash].hash = n
}

// reserve makes sure that there are at least num free nodes in the table,
// collecting garbage and growing the table if needed.
func (b *Kernel) reserve(num int) error {
	if b.freenum >= num {
		return nil
	}
	b.gbc()
	for b.freenum < num {
		if err := b.noderesize(); err != nil {
			return err
		}
	}
	return nil
}
