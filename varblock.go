// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"sort"
)

// varblock is a group of variables that are kept contiguous during
// reordering. The variables inside a fixed block keep their relative order.
type varblock struct {
	vars  []int32
	fixed bool
}

// AddVarBlock adds a new variable block for reordering. The block contains all
// the variables found between the smallest and the largest level of the
// variables in the cube n, in the current variable order. Blocks can be nested
// but they cannot overlap partially; in this case we return an error wrapping
// ErrVarblock.
func (b *Kernel) AddVarBlock(n Node, fixed bool) error {
	if err := b.checkptr(n); err != nil {
		b.badnode(err, "wrong operand in call to AddVarBlock")
		return err
	}
	vars := b.Scanset(n)
	if len(vars) == 0 {
		return b.fail(ErrVarblock, "empty variable set in call to AddVarBlock")
	}
	return b.addblock(vars, fixed)
}

// AddVarBlockRange adds a new variable block, for reordering, containing the
// variables first to last (included). See AddVarBlock for details.
func (b *Kernel) AddVarBlockRange(first, last int, fixed bool) error {
	if err := b.checkrunning("AddVarBlockRange"); err != nil {
		return err
	}
	if (first < 0) || (first > last) || (int32(last) >= b.varnum) {
		return b.fail(ErrVarblock, "bad range [%d..%d] in call to AddVarBlockRange", first, last)
	}
	vars := make([]int, 0, last-first+1)
	for v := first; v <= last; v++ {
		vars = append(vars, v)
	}
	return b.addblock(vars, fixed)
}

func (b *Kernel) addblock(vars []int, fixed bool) error {
	minl, maxl := b.varnum, int32(-1)
	for _, v := range vars {
		l := b.var2level[v]
		if l < minl {
			minl = l
		}
		if l > maxl {
			maxl = l
		}
	}
	blk := &varblock{fixed: fixed}
	in := make([]bool, b.varnum)
	for l := minl; l <= maxl; l++ {
		v := b.level2var[l]
		blk.vars = append(blk.vars, v)
		in[v] = true
	}
	for _, old := range b.blocks {
		common := 0
		for _, v := range old.vars {
			if in[v] {
				common++
			}
		}
		if common != 0 && common != len(old.vars) && common != len(blk.vars) {
			return b.fail(ErrVarblock, "block with levels [%d..%d] overlaps an existing block", minl, maxl)
		}
	}
	b.blocks = append(b.blocks, blk)
	return nil
}

// ClearVarBlocks removes all the variable blocks.
func (b *Kernel) ClearVarBlocks() {
	b.blocks = nil
}

// ************************************************************

// blocktree is the tree of items manipulated by the reordering heuristics. The
// children of an item are sorted by level and occupy contiguous levels.
type blocktree struct {
	vars     []int32
	fixed    bool
	children []*blocktree
}

// buildtree returns the block tree for the current order. The root contains
// all the variables and each variable has its own leaf.
func (b *Kernel) buildtree() (*blocktree, error) {
	root := &blocktree{}
	for l := int32(0); l < b.varnum; l++ {
		v := b.level2var[l]
		root.vars = append(root.vars, v)
		root.children = append(root.children, &blocktree{vars: []int32{v}})
	}
	blocks := make([]*varblock, len(b.blocks))
	copy(blocks, b.blocks)
	sort.SliceStable(blocks, func(i, j int) bool {
		return len(blocks[i].vars) > len(blocks[j].vars)
	})
	in := make([]bool, b.varnum)
	for _, blk := range blocks {
		for k := range in {
			in[k] = false
		}
		for _, v := range blk.vars {
			in[v] = true
		}
		if err := root.insert(blk, in); err != nil {
			return nil, err
		}
	}
	return root, nil
}

func (t *blocktree) count(in []bool) int {
	res := 0
	for _, v := range t.vars {
		if in[v] {
			res++
		}
	}
	return res
}

func (t *blocktree) insert(blk *varblock, in []bool) error {
	for _, c := range t.children {
		if c.count(in) == len(blk.vars) {
			if len(c.vars) == len(blk.vars) {
				c.fixed = c.fixed || blk.fixed
				return nil
			}
			return c.insert(blk, in)
		}
	}
	first, last := -1, -1
	for k, c := range t.children {
		cnt := c.count(in)
		if cnt == 0 {
			continue
		}
		if cnt != len(c.vars) || (first >= 0 && k != last+1) {
			return ErrVarblock
		}
		if first < 0 {
			first = k
		}
		last = k
	}
	if first < 0 {
		return ErrVarblock
	}
	item := &blocktree{
		vars:     append([]int32{}, blk.vars...),
		fixed:    blk.fixed,
		children: append([]*blocktree{}, t.children[first:last+1]...),
	}
	children := make([]*blocktree, 0, len(t.children)-(last-first))
	children = append(children, t.children[:first]...)
	children = append(children, item)
	children = append(children, t.children[last+1:]...)
	t.children = children
	return nil
}

// contiguous reports whether the variables of every block occupy contiguous
// levels when variable v is at level pos[v].
func (b *Kernel) contiguous(pos []int) bool {
	for _, blk := range b.blocks {
		minl, maxl := len(pos), -1
		for _, v := range blk.vars {
			if pos[v] < minl {
				minl = pos[v]
			}
			if pos[v] > maxl {
				maxl = pos[v]
			}
		}
		if maxl-minl+1 != len(blk.vars) {
			return false
		}
	}
	return true
}
