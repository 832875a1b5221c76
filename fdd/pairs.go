// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package fdd

import (
	"fmt"

	"github.com/hwre/bdd"
)

// AddVarBlock adds a variable block, for reordering, with all the variables of
// the domains first to last (included). We return an error wrapping
// bdd.ErrVarblock if the range is not valid.
func (f *Domains) AddVarBlock(first, last int, fixed bool) error {
	if first < 0 || first > last || last >= len(f.domains) {
		return fmt.Errorf("bad domain range [%d..%d] in call to AddVarBlock: %w", first, last, bdd.ErrVarblock)
	}
	ds := make([]int, 0, last-first+1)
	for d := first; d <= last; d++ {
		ds = append(ds, d)
	}
	return f.k.AddVarBlock(f.Makeset(ds), fixed)
}

// SetPair adds to p the substitution of the variables of domain oldvar by the
// ones of domain newvar. The two domains must use the same number of Boolean
// variables, otherwise we return an error wrapping bdd.ErrVarnum.
func (f *Domains) SetPair(p *bdd.Pair, oldvar, newvar int) error {
	if err := f.check(oldvar); err != nil {
		return err
	}
	if err := f.check(newvar); err != nil {
		return err
	}
	od, nd := f.domains[oldvar], f.domains[newvar]
	if od.binsize != nd.binsize {
		return fmt.Errorf("domains %d and %d have different number of variables (%d and %d): %w", oldvar, newvar, od.binsize, nd.binsize, bdd.ErrVarnum)
	}
	return f.k.SetPairs(p, od.ivar, nd.ivar)
}

// SetPairs calls SetPair for each domain in oldvar and the domain at the same
// index in newvar.
func (f *Domains) SetPairs(p *bdd.Pair, oldvar, newvar []int) error {
	if len(oldvar) != len(newvar) {
		return fmt.Errorf("unmatched length of slices (%d and %d) in call to SetPairs: %w", len(oldvar), len(newvar), bdd.ErrVarnum)
	}
	for k := range oldvar {
		if err := f.SetPair(p, oldvar[k], newvar[k]); err != nil {
			return err
		}
	}
	return nil
}

// NewPair returns a pair substituting each domain in oldvar by the domain with
// the same index in newvar.
func (f *Domains) NewPair(oldvar, newvar []int) (*bdd.Pair, error) {
	p := f.k.NewPair()
	if err := f.SetPairs(p, oldvar, newvar); err != nil {
		return nil, err
	}
	return p, nil
}
