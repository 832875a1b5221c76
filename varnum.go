// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import "go.uber.org/zap"

// SetVarnum sets the number of BDD variables. It may be called more than once,
// but only to increase the number of variables. New variables are added at the
// bottom of the current variable order, meaning that variable v has level v
// when it is created.
func (b *Kernel) SetVarnum(num int) error {
	if err := b.checkrunning("SetVarnum"); err != nil {
		return err
	}
	if (num < 0) || (num > int(_MAXVAR)) {
		return b.fail(ErrVarnum, "bad number of variables (%d) in call to SetVarnum", num)
	}
	inum := int32(num)
	if inum < b.varnum {
		return b.fail(ErrVarnum, "trying to decrease the number of variables from %d to %d", b.varnum, num)
	}
	if inum == b.varnum && b.varset != nil {
		return nil
	}
	oldvarnum := b.varnum

	// Constants always have the highest level.
	b.nodes[0].level = inum
	b.nodes[1].level = inum

	b.initref()
	for v := oldvarnum; v < inum; v++ {
		v0 := b.makenode(v, 0, 1)
		if v0 < 0 {
			return b.varnumerror(oldvarnum, v)
		}
		// variables are never collected
		b.nodes[v0].refcou = _MAXREFCOUNT
		v1 := b.makenode(v, 1, 0)
		if v1 < 0 {
			b.nodes[v0].refcou = 0
			return b.varnumerror(oldvarnum, v)
		}
		b.nodes[v1].refcou = _MAXREFCOUNT
		b.varset = append(b.varset, [2]int{v0, v1})
		b.level2var = append(b.level2var, v)
		b.var2level = append(b.var2level, v)
		b.quantset = append(b.quantset, 0)
		b.varnum = v + 1
	}
	if b.varset == nil {
		b.varset = make([][2]int, 0)
	}
	b.varnum = inum
	// pairs and blocks are refreshed lazily, but they depend on the order
	b.orderversion++
	b.logger.Debug("set varnum",
		zap.Int32("from", oldvarnum),
		zap.Int32("to", inum))
	return nil
}

// varnumerror restores the level of the constants after a failed allocation.
// Variables created before the failure are kept.
func (b *Kernel) varnumerror(oldvarnum, v int32) error {
	b.nodes[0].level = v
	b.nodes[1].level = v
	b.varnum = v
	return b.fail(ErrMemory, "cannot allocate new variable %d in SetVarnum (from %d)", v, oldvarnum)
}

// ExtVarnum extends the current number of allocated BDD variables with num
// extra variables. It returns the index of the first new variable.
func (b *Kernel) ExtVarnum(num int) (int, error) {
	if (num < 0) || (num > int(_MAXVAR)) {
		return -1, b.fail(ErrRange, "bad choice of value (%d) when extending varnum in ExtVarnum", num)
	}
	start := int(b.varnum)
	if err := b.SetVarnum(start + num); err != nil {
		return -1, err
	}
	return start, nil
}
