// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"go.uber.org/zap"
)

// _MINFREENODES is the minimal number of nodes (%) that has to be left after a
// garbage collect unless a resize should be done.
const _MINFREENODES int = 20

// _MAXVAR is the maximal number of levels in the BDD. We use only the first 21
// bits for encoding levels (so also the max number of variables). Bit 22 is
// used for marking nodes during garbage collection.
const _MAXVAR int32 = 0x1FFFFF

// _MAXREFCOUNT is the maximal value of the reference counter (refcou). It is
// also used to stick nodes (like constants and variables) in the node list.
const _MAXREFCOUNT int32 = math.MaxInt32

// _DEFAULTMAXNODEINC is the default value for the maximal increase in the
// number of nodes during a resize. It is approx. one million nodes (1 048 576).
const _DEFAULTMAXNODEINC int = 1 << 20

// _DEFAULTCACHESIZE is the number of entries in each operation cache when no
// size is given.
const _DEFAULTCACHESIZE int = 10000

// Kernel is a table of BDD nodes together with the caches, variable order and
// bookkeeping needed to compute over them. A Kernel is not safe for concurrent
// use; use one kernel per goroutine, or an external lock.
type Kernel struct {
	varnum          int32       // number of BDD variables
	varset          [][2]int    // nodes for the positive and negative occurrence of each variable
	level2var       []int32     // variable found at each level
	var2level       []int32     // level of each variable
	refstack        []int       // internal node reference stack
	nodes           []bddNode   // all the nodes; constants are always kept at index 0 and 1
	freenum         int         // number of free nodes
	freepos         int         // first free node
	produced        int         // total number of new nodes ever produced
	maxnodesize     int         // maximum total number of nodes (0 if no limit)
	maxnodeincrease int         // maximum number of nodes added at each resize (0 if no limit)
	minfreenodes    int         // minimum ratio (%) of free nodes after GC before resizing
	nodefinalizer   func(*int)  // finalizer used to release external references
	released        releaseList // references released by finalizers, waiting for the next GC
	quantset        []int32     // current variable set for quantification and restriction
	quantsetID      int32       // current id used in quantset
	quantlast       int32       // last level in the current quantset
	composelevel    int32       // level of the variable replaced in compose
	pairid          int         // last id given to a Pair
	blocks          []*varblock // variable blocks used during reordering
	orderversion    int         // incremented each time the variable order changes
	reordering      bool        // true while levels are swapped
	rng             *rand.Rand  // source for random reordering
	running         bool        // false after Done
	logger          *zap.Logger
	err             error // sticky error status
	gcstat          gcstat
	cachestat       cacheStat
	reorderstat     reorderStat
	applycache      applycache
	itecache        itecache
	quantcache      quantcache
	appexcache      appexcache
	replacecache    replacecache
	misccache       misccache
}

// releaseList stores the nodes whose handle was finalized by the Go runtime.
// Finalizers run on their own goroutine so we only record the node here and
// decrement its reference count at the next garbage collection.
type releaseList struct {
	mu    sync.Mutex
	nodes []int
}

func (r *releaseList) push(n int) {
	r.mu.Lock()
	r.nodes = append(r.nodes, n)
	r.mu.Unlock()
}

func (r *releaseList) drain() []int {
	r.mu.Lock()
	res := r.nodes
	r.nodes = nil
	r.mu.Unlock()
	return res
}

// New returns a kernel with varnum variables. Options can be used to set the
// initial size of the node table and of the caches, or to attach a logger.
//
// The initial number of nodes is not critical since the table will be resized
// whenever there are too few nodes left after a garbage collection. But it
// does have some impact on the efficiency of the operations.
func New(varnum int, options ...Option) (*Kernel, error) {
	if (varnum < 0) || (varnum > int(_MAXVAR)) {
		return nil, fmt.Errorf("%w: bad number of variables (%d) in call to New", ErrVarnum, varnum)
	}
	config := makeconfigs(varnum)
	for _, f := range options {
		f(config)
	}
	b := &Kernel{}
	b.logger = config.logger
	if b.logger == nil {
		b.logger = zap.NewNop()
	}
	b.maxnodesize = config.maxnodesize
	b.maxnodeincrease = config.maxnodeincrease
	b.minfreenodes = config.minfreenodes
	nodesize := bdd_prime_gte(config.nodesize)
	b.nodes = make([]bddNode, nodesize)
	for k := range b.nodes {
		b.nodes[k] = bddNode{
			refcou: 0,
			level:  0,
			low:    -1,
			high:   0,
			hash:   0,
			next:   k + 1,
		}
	}
	b.nodes[nodesize-1].next = 0
	b.nodes[0] = bddNode{refcou: _MAXREFCOUNT, low: 0, high: 0}
	b.nodes[1] = bddNode{refcou: _MAXREFCOUNT, low: 1, high: 1}
	b.freepos = 2
	b.freenum = nodesize - 2
	b.cacheinit(config.cachesize, config.cacheratio)
	b.gcstat.history = make([]gcpoint, 0)
	b.rng = rand.New(rand.NewSource(1))
	b.nodefinalizer = func(n *int) {
		b.released.push(*n)
	}
	b.running = true
	if err := b.SetVarnum(varnum); err != nil {
		return nil, err
	}
	b.logger.Debug("new kernel",
		zap.Int("varnum", varnum),
		zap.Int("nodesize", nodesize))
	return b, nil
}

// Done releases the memory used by the kernel. Every operation called after
// Done fails with an error wrapping ErrRunning.
func (b *Kernel) Done() {
	if !b.running {
		return
	}
	b.running = false
	b.nodes = nil
	b.varset = nil
	b.level2var = nil
	b.var2level = nil
	b.refstack = nil
	b.quantset = nil
	b.blocks = nil
	b.freenum = 0
	b.freepos = 0
	b.released.drain()
	b.cachedone()
	b.logger.Debug("kernel done")
}
