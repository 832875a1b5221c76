// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"fmt"
	"math"
	"strings"
)

// Pair is an association list used to replace variables in a BDD node; see
// method Replace. A Pair belongs to the kernel that created it. Pairs are
// defined in terms of variables, so they stay valid when the variable order
// changes.
type Pair struct {
	kernel  *Kernel
	id      int     // unique identifier used for caching intermediate results
	image   []int32 // image[v] is the variable replacing v
	result  []int32 // map the level of old variables to the level of new variables
	last    int32   // last level replaced in the pair, to speed up computations
	version int     // order version when result was computed, -1 if stale
}

func (p *Pair) String() string {
	var sb strings.Builder
	sb.WriteString("pair[")
	first := true
	for k, v := range p.image {
		if k != int(v) {
			if !first {
				sb.WriteString(", ")
			}
			first = false
			fmt.Fprintf(&sb, "%d<-%d", k, v)
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// NewPair returns an empty substitution for the variables of b. Variables can
// be added with SetPair and SetPairs.
func (b *Kernel) NewPair() *Pair {
	p := &Pair{kernel: b, version: -1}
	b.newpairid(p)
	return p
}

func (b *Kernel) newpairid(p *Pair) {
	if b.pairid == (math.MaxInt32 >> 2) {
		// ids are recycled; cached results must not be shared between pairs
		b.pairid = 0
		b.replacecache.reset()
	}
	b.pairid++
	p.id = (b.pairid << 2) | cacheid_REPLACE
}

// SetPair adds the substitution of variable oldvar by newvar in p. A previous
// substitution for oldvar is overwritten.
func (b *Kernel) SetPair(p *Pair, oldvar, newvar int) error {
	if err := b.checkrunning("SetPair"); err != nil {
		return err
	}
	if p == nil || p.kernel != b {
		return b.fail(ErrRange, "pair does not belong to this kernel")
	}
	if (oldvar < 0) || (int32(oldvar) >= b.varnum) {
		return b.fail(ErrVar, "unknown variable (%d) in call to SetPair", oldvar)
	}
	if (newvar < 0) || (int32(newvar) >= b.varnum) {
		return b.fail(ErrVar, "unknown variable (%d) in call to SetPair", newvar)
	}
	p.grow(int(b.varnum))
	p.image[oldvar] = int32(newvar)
	p.version = -1
	b.newpairid(p)
	return nil
}

// SetPairs adds the substitution of each variable in oldvar by the variable
// with the same index in newvar.
func (b *Kernel) SetPairs(p *Pair, oldvar, newvar []int) error {
	if len(oldvar) != len(newvar) {
		return b.fail(ErrVarnum, "unmatched length of slices (%d and %d) in call to SetPairs", len(oldvar), len(newvar))
	}
	for k, v := range oldvar {
		if err := b.SetPair(p, v, newvar[k]); err != nil {
			return err
		}
	}
	return nil
}

// ResetPair removes all the substitutions in p.
func (b *Kernel) ResetPair(p *Pair) {
	if p == nil {
		return
	}
	for k := range p.image {
		p.image[k] = int32(k)
	}
	p.version = -1
	b.newpairid(p)
}

// NewReplacer returns a Pair for substituting variable oldvars[k] with
// newvars[k]. We return an error if the two slices do not have the same length
// or if we find the same variable twice in oldvars. All values must be in
// [0..Varnum).
func (b *Kernel) NewReplacer(oldvars []int, newvars []int) (*Pair, error) {
	if len(oldvars) != len(newvars) {
		return nil, b.fail(ErrVarnum, "unmatched length of slices (%d and %d) in call to NewReplacer", len(oldvars), len(newvars))
	}
	seen := make(map[int]bool, len(oldvars))
	for _, v := range oldvars {
		if seen[v] {
			return nil, b.fail(ErrVar, "duplicate variable (%d) in oldvars", v)
		}
		seen[v] = true
	}
	p := b.NewPair()
	if err := b.SetPairs(p, oldvars, newvars); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Pair) grow(varnum int) {
	for k := len(p.image); k < varnum; k++ {
		p.image = append(p.image, int32(k))
	}
}

// refresh computes the level based version of p for the current order.
func (p *Pair) refresh(b *Kernel) {
	if p.version == b.orderversion && len(p.result) == int(b.varnum) {
		return
	}
	p.grow(int(b.varnum))
	p.result = make([]int32, b.varnum)
	p.last = -1
	for level := range p.result {
		v := b.level2var[level]
		p.result[level] = b.var2level[p.image[v]]
		if p.image[v] != v {
			p.last = int32(level)
		}
	}
	p.version = b.orderversion
}

// ************************************************************

// Replace takes a Pair and computes the result of n after replacing old
// variables with new ones. A new variable should not already occur in n,
// unless it is itself replaced; otherwise we return False and record an
// error wrapping ErrVar.
func (b *Kernel) Replace(n Node, p *Pair) Node {
	if err := b.checkptr(n); err != nil {
		return b.badnode(err, "wrong operand in call to Replace")
	}
	if p == nil || p.kernel != b {
		return b.seterror(ErrRange, "pair does not belong to this kernel")
	}
	p.refresh(b)
	b.replacecache.id = p.id
	b.initref()
	b.pushref(*n)
	res := b.replace(*n, p)
	b.popref(1)
	return b.retnode(res)
}

func (b *Kernel) replace(n int, p *Pair) int {
	if n < 0 {
		return -1
	}
	if n < 2 || b.level(n) > p.last {
		return n
	}
	if res := b.matchreplace(n); res >= 0 {
		return res
	}
	low := b.pushref(b.replace(b.low(n), p))
	high := b.pushref(b.replace(b.high(n), p))
	res := b.correctify(p.result[b.level(n)], low, high)
	b.popref(2)
	return b.setreplace(n, res)
}

// correctify builds the node (level, low, high) when low and high may have
// nodes with a smaller level than level.
func (b *Kernel) correctify(level int32, low, high int) int {
	if low < 0 || high < 0 {
		return -1
	}
	if (level < b.level(low)) && (level < b.level(high)) {
		return b.makenode(level, low, high)
	}

	if (level == b.level(low)) || (level == b.level(high)) {
		b.fail(ErrVar, "variable %d already occurs in the result of Replace", b.level2var[level])
		return -1
	}

	var res int
	switch {
	case b.level(low) == b.level(high):
		left := b.pushref(b.correctify(level, b.low(low), b.low(high)))
		right := b.pushref(b.correctify(level, b.high(low), b.high(high)))
		res = b.makenode(b.level(low), left, right)
	case b.level(low) < b.level(high):
		left := b.pushref(b.correctify(level, b.low(low), high))
		right := b.pushref(b.correctify(level, b.high(low), high))
		res = b.makenode(b.level(low), left, right)
	default:
		left := b.pushref(b.correctify(level, low, b.low(high)))
		right := b.pushref(b.correctify(level, low, b.high(high)))
		res = b.makenode(b.level(high), left, right)
	}
	b.popref(2)
	return res
}
