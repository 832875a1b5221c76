// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// ReorderMethod is the heuristic used when reordering variables.
type ReorderMethod int

const (
	ReorderNone    ReorderMethod = iota // No reordering
	ReorderWin2                         // Swap each pair of adjacent blocks once, keep improvements
	ReorderWin2Ite                      // Iterate ReorderWin2 until no progress is made
	ReorderSift                         // Move each block to its best position (Rudell's sifting)
	ReorderSiftIte                      // Iterate ReorderSift until no progress is made
	ReorderRandom                       // Random swaps of adjacent blocks
)

var reordernames = [...]string{
	ReorderNone:    "none",
	ReorderWin2:    "win2",
	ReorderWin2Ite: "win2ite",
	ReorderSift:    "sift",
	ReorderSiftIte: "siftite",
	ReorderRandom:  "random",
}

func (m ReorderMethod) String() string {
	if m < 0 || int(m) >= len(reordernames) {
		return fmt.Sprintf("ReorderMethod(%d)", int(m))
	}
	return reordernames[m]
}

// ParseReorderMethod returns the method with the given name, as returned by
// String.
func ParseReorderMethod(name string) (ReorderMethod, error) {
	for k, v := range reordernames {
		if v == name {
			return ReorderMethod(k), nil
		}
	}
	return ReorderNone, fmt.Errorf("unknown reordering method %q: %w", name, ErrRange)
}

// reorderStat stores information about the reorderings since the creation of
// the kernel.
type reorderStat struct {
	count  int // number of calls to Reorder
	swaps  int // number of adjacent level swaps
	before int // live nodes before the last reordering
	after  int // live nodes after the last reordering
}

// ************************************************************

// Reorder changes the variable order in order to reduce the number of nodes
// used by the BDDs that are still referenced. Variable blocks (see
// AddVarBlock) are moved as a whole and the order inside fixed blocks is
// preserved. Reordering never changes the function denoted by a Node.
// However, it resets all the operation caches.
func (b *Kernel) Reorder(method ReorderMethod) error {
	if err := b.checkrunning("Reorder"); err != nil {
		return err
	}
	if method < ReorderNone || method > ReorderRandom {
		return b.fail(ErrRange, "unknown reordering method (%d)", int(method))
	}
	if method == ReorderNone || b.varnum < 2 {
		return nil
	}
	tree, err := b.buildtree()
	if err != nil {
		return b.fail(err, "cannot build the block tree")
	}
	b.initref()
	swaps := b.reorderstat.swaps
	before := b.livecount()
	err = b.reorderblock(tree, method)
	after := b.livecount()
	b.reorderstat.count++
	b.reorderstat.before = before
	b.reorderstat.after = after
	b.logger.Info("reorder",
		zap.Stringer("method", method),
		zap.Int("before", before),
		zap.Int("after", after),
		zap.Int("swaps", b.reorderstat.swaps-swaps))
	return err
}

// livecount collects the garbage and returns the number of nodes in use,
// including the constants.
func (b *Kernel) livecount() int {
	b.collect()
	return len(b.nodes) - b.freenum
}

func (b *Kernel) reorderblock(t *blocktree, method ReorderMethod) error {
	if len(t.children) > 1 {
		var err error
		switch method {
		case ReorderWin2:
			err = b.reorderwin2(t)
		case ReorderWin2Ite:
			err = b.iterate(t, b.reorderwin2)
		case ReorderSift:
			err = b.reordersift(t)
		case ReorderSiftIte:
			err = b.iterate(t, b.reordersift)
		case ReorderRandom:
			err = b.reorderrandom(t)
		}
		if err != nil {
			return err
		}
	}
	for _, c := range t.children {
		if !c.fixed && len(c.children) > 1 {
			if err := b.reorderblock(c, method); err != nil {
				return err
			}
		}
	}
	return nil
}

// iterate repeats a reordering pass as long as the number of nodes decreases.
func (b *Kernel) iterate(t *blocktree, pass func(*blocktree) error) error {
	size := b.livecount()
	for {
		if err := pass(t); err != nil {
			return err
		}
		newsize := b.livecount()
		if newsize >= size {
			return nil
		}
		size = newsize
	}
}

// reorderwin2 tries to swap every pair of adjacent items, from top to bottom,
// and keeps the swap if it reduces the number of nodes.
func (b *Kernel) reorderwin2(t *blocktree) error {
	for i := 0; i < len(t.children)-1; i++ {
		best := b.livecount()
		if err := b.swapitems(t, i); err != nil {
			return err
		}
		if b.livecount() >= best {
			if err := b.swapitems(t, i); err != nil {
				return err
			}
		}
	}
	return nil
}

// reordersift moves each item, starting with the ones with the most nodes,
// through all the positions in t and leaves it at the position giving the
// smallest number of nodes.
func (b *Kernel) reordersift(t *blocktree) error {
	b.collect()
	count := make([]int, b.varnum)
	for k := 2; k < len(b.nodes); k++ {
		if b.nodes[k].low != -1 {
			count[b.level(k)]++
		}
	}
	weight := make(map[*blocktree]int, len(t.children))
	items := make([]*blocktree, len(t.children))
	copy(items, t.children)
	for _, item := range items {
		for _, v := range item.vars {
			weight[item] += count[b.var2level[v]]
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return weight[items[i]] > weight[items[j]]
	})
	for _, item := range items {
		if err := b.siftitem(t, item); err != nil {
			return err
		}
	}
	return nil
}

func (b *Kernel) siftitem(t *blocktree, item *blocktree) error {
	pos := 0
	for k, c := range t.children {
		if c == item {
			pos = k
		}
	}
	best := b.livecount()
	bestpos := pos
	// we first move the item down, then up, and stop in one direction as soon
	// as the size doubles.
	for pos < len(t.children)-1 {
		if err := b.swapitems(t, pos); err != nil {
			return err
		}
		pos++
		size := b.livecount()
		if size < best {
			best, bestpos = size, pos
		} else if size > 2*best {
			break
		}
	}
	for pos > 0 {
		if err := b.swapitems(t, pos-1); err != nil {
			return err
		}
		pos--
		size := b.livecount()
		if size < best {
			best, bestpos = size, pos
		} else if size > 2*best {
			break
		}
	}
	for pos < bestpos {
		if err := b.swapitems(t, pos); err != nil {
			return err
		}
		pos++
	}
	for pos > bestpos {
		if err := b.swapitems(t, pos-1); err != nil {
			return err
		}
		pos--
	}
	return nil
}

// reorderrandom swaps randomly chosen adjacent items.
func (b *Kernel) reorderrandom(t *blocktree) error {
	for k := 0; k < len(t.children); k++ {
		if err := b.swapitems(t, b.rng.Intn(len(t.children)-1)); err != nil {
			return err
		}
	}
	return nil
}

// swapitems exchanges the positions of the items i and i+1 in t, preserving
// the order of variables inside each item.
func (b *Kernel) swapitems(t *blocktree, i int) error {
	a, c := t.children[i], t.children[i+1]
	pa := b.itemlevel(a)
	na, nc := int32(len(a.vars)), int32(len(c.vars))
	for k := int32(0); k < nc; k++ {
		for l := pa + na + k - 1; l >= pa+k; l-- {
			if err := b.swaplevel(l); err != nil {
				return err
			}
		}
	}
	t.children[i], t.children[i+1] = c, a
	return nil
}

// itemlevel returns the smallest level of a variable in t.
func (b *Kernel) itemlevel(t *blocktree) int32 {
	res := b.varnum
	for _, v := range t.vars {
		if b.var2level[v] < res {
			res = b.var2level[v]
		}
	}
	return res
}

// ************************************************************

// SetVarOrder changes the variable order so that variable order[l] is at
// level l. The order must be a permutation of all the variables, and it must
// keep the variables of each block at contiguous levels. Otherwise we return
// an error wrapping ErrOrder.
func (b *Kernel) SetVarOrder(order []int) error {
	if err := b.checkrunning("SetVarOrder"); err != nil {
		return err
	}
	if len(order) != int(b.varnum) {
		return b.fail(ErrOrder, "order has %d variables instead of %d", len(order), b.varnum)
	}
	pos := make([]int, b.varnum)
	seen := make([]bool, b.varnum)
	for l, v := range order {
		if v < 0 || v >= int(b.varnum) || seen[v] {
			return b.fail(ErrOrder, "order is not a permutation (variable %d at position %d)", v, l)
		}
		seen[v] = true
		pos[v] = l
	}
	if !b.contiguous(pos) {
		return b.fail(ErrOrder, "order breaks a variable block")
	}
	b.initref()
	for l, v := range order {
		for cl := b.var2level[v]; cl > int32(l); cl-- {
			if err := b.swaplevel(cl - 1); err != nil {
				return err
			}
		}
	}
	b.logger.Debug("set variable order", zap.Ints("order", order))
	return nil
}

// ************************************************************

// swaplevel exchanges the variables at levels l and l+1. Nodes are rewritten
// in place, so that every index keeps denoting the same function. Nodes at
// level l that do not depend on the variable at level l+1 are simply moved to
// level l+1, and nodes at level l+1 are moved to level l. The remaining nodes
// at level l are rebuilt using the cofactors of their children.
func (b *Kernel) swaplevel(l int32) error {
	count := 0
	for k := 2; k < len(b.nodes); k++ {
		if b.nodes[k].low != -1 && b.nodes[k].level == l {
			count++
		}
	}
	if err := b.reserve(2 * count); err != nil {
		b.adderror(err)
		return err
	}
	type cofactors struct {
		n                  int
		f00, f01, f10, f11 int
	}
	var xs, ys []int
	var deps []cofactors
	for k := 2; k < len(b.nodes); k++ {
		if b.nodes[k].low == -1 {
			continue
		}
		switch b.nodes[k].level {
		case l:
			lo, hi := b.low(k), b.high(k)
			if b.level(lo) != l+1 && b.level(hi) != l+1 {
				xs = append(xs, k)
				continue
			}
			c := cofactors{n: k, f00: lo, f01: lo, f10: hi, f11: hi}
			if b.level(lo) == l+1 {
				c.f00, c.f01 = b.low(lo), b.high(lo)
			}
			if b.level(hi) == l+1 {
				c.f10, c.f11 = b.low(hi), b.high(hi)
			}
			deps = append(deps, c)
		case l + 1:
			ys = append(ys, k)
		}
	}
	b.reordering = true
	defer func() { b.reordering = false }()
	// we remove the nodes at levels l and l+1 from the unique table
	for k := range b.nodes {
		b.nodes[k].hash = 0
	}
	for n := len(b.nodes) - 1; n > 1; n-- {
		if b.nodes[n].low != -1 && b.nodes[n].level != l && b.nodes[n].level != l+1 {
			b.insert(n)
		}
	}
	for _, n := range ys {
		b.nodes[n].level = l
		b.insert(n)
	}
	for _, n := range xs {
		b.nodes[n].level = l + 1
		b.insert(n)
	}
	for _, c := range deps {
		lo := b.makenode(l+1, c.f00, c.f10)
		hi := b.makenode(l+1, c.f01, c.f11)
		if lo < 0 || hi < 0 {
			return b.err
		}
		b.nodes[c.n].level = l
		b.nodes[c.n].low = lo
		b.nodes[c.n].high = hi
		b.insert(c.n)
	}
	vx, vy := b.level2var[l], b.level2var[l+1]
	b.level2var[l], b.level2var[l+1] = vy, vx
	b.var2level[vx], b.var2level[vy] = l+1, l
	b.orderversion++
	b.reorderstat.swaps++
	b.cachereset()
	return nil
}
