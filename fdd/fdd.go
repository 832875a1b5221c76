// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Package fdd encodes finite domains, meaning integer variables with values in
// [0, N), using the Boolean variables of a bdd.Kernel.
//
// A domain of size N uses binsize = ceil(log2(N)) Boolean variables (and at
// least one). Values are encoded in binary, with the least significant bit on
// the first variable of the domain. Domains created by the same call to
// ExtDomain have their variables interleaved, which usually gives smaller
// diagrams for relations between domains.
package fdd

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/hwre/bdd"
)

// ErrUnsat is returned when scanning the values of the constant False.
var ErrUnsat = errors.New("fdd: unsatisfiable diagram")

type domain struct {
	realsize int      // number of values in the domain
	binsize  int      // number of Boolean variables
	ivar     []int    // kernel variables of the domain, least significant bit first
	varset   bdd.Node // cube of the variables in ivar
}

// Domains is a table of finite domains defined over the variables of a
// kernel. Like the kernel, it is not safe for concurrent use.
type Domains struct {
	k       *bdd.Kernel
	domains []domain
	printer func(w io.Writer, d int) error
	err     error
}

// New returns an empty table of domains using kernel k.
func New(k *bdd.Kernel) *Domains {
	return &Domains{k: k}
}

// Kernel returns the kernel used by the domains.
func (f *Domains) Kernel() *bdd.Kernel {
	return f.k
}

// Err returns the first error recorded by an operation returning a Node, or
// nil. Errors raised by the kernel are recorded in the kernel.
func (f *Domains) Err() error {
	return f.err
}

// ClearError resets the error status of the table.
func (f *Domains) ClearError() {
	f.err = nil
}

func (f *Domains) seterror(format string, a ...interface{}) bdd.Node {
	err := fmt.Errorf(format+": %w", append(a, bdd.ErrRange)...)
	if f.err == nil {
		f.err = err
	} else {
		f.err = fmt.Errorf("%w; %w", err, f.err)
	}
	return f.k.False()
}

func (f *Domains) check(d int) error {
	if d < 0 || d >= len(f.domains) {
		return fmt.Errorf("unknown domain (%d): %w", d, bdd.ErrRange)
	}
	return nil
}

// ******************************************************************************************************

// binsize returns the number of bits needed to encode the values in [0,size).
func binsize(size int) int {
	res, n := 1, 2
	for n < size {
		res++
		n *= 2
	}
	return res
}

// ExtDomain adds new domains with the given sizes and returns the index of the
// first one. Domains are numbered consecutively. The Boolean variables of the
// new domains are added to the kernel, with the bits of the domains
// interleaved: we take bit 0 of each domain in turn, then bit 1, etc.
//
// We return an error wrapping bdd.ErrRange if a size is not positive or too
// large.
func (f *Domains) ExtDomain(sizes ...int) (int, error) {
	if len(sizes) == 0 {
		return -1, fmt.Errorf("no domain in call to ExtDomain: %w", bdd.ErrRange)
	}
	total := 0
	news := make([]domain, len(sizes))
	for k, size := range sizes {
		if size <= 0 || size > math.MaxInt32/2 {
			return -1, fmt.Errorf("bad domain size (%d) in call to ExtDomain: %w", size, bdd.ErrRange)
		}
		news[k].realsize = size
		news[k].binsize = binsize(size)
		news[k].ivar = make([]int, 0, news[k].binsize)
		total += news[k].binsize
	}
	next, err := f.k.ExtVarnum(total)
	if err != nil {
		return -1, err
	}
	for bn, more := 0, true; more; bn++ {
		more = false
		for k := range news {
			if bn < news[k].binsize {
				news[k].ivar = append(news[k].ivar, next)
				next++
				more = true
			}
		}
	}
	// a cube of variables is never False, unless Makeset failed
	for k := range news {
		news[k].varset = f.k.Makeset(news[k].ivar)
		if f.k.Equal(news[k].varset, f.k.False()) {
			return -1, fmt.Errorf("cannot build the variable set of a new domain: %w", f.k.Err())
		}
	}
	first := len(f.domains)
	f.domains = append(f.domains, news...)
	return first, nil
}

// OverlapDomain adds a domain whose variables are the ones of domain a
// followed by the ones of domain b. Its size is the product of the size of a
// and b. This is useful to build a domain for pairs of values.
func (f *Domains) OverlapDomain(a, b int) (int, error) {
	if err := f.check(a); err != nil {
		return -1, err
	}
	if err := f.check(b); err != nil {
		return -1, err
	}
	da, db := f.domains[a], f.domains[b]
	if da.realsize > math.MaxInt32/2/db.realsize {
		return -1, fmt.Errorf("domain too large in call to OverlapDomain(%d, %d): %w", a, b, bdd.ErrRange)
	}
	d := domain{
		realsize: da.realsize * db.realsize,
		binsize:  da.binsize + db.binsize,
		ivar:     make([]int, 0, da.binsize+db.binsize),
	}
	d.ivar = append(d.ivar, da.ivar...)
	d.ivar = append(d.ivar, db.ivar...)
	d.varset = f.k.And(da.varset, db.varset)
	f.domains = append(f.domains, d)
	return len(f.domains) - 1, nil
}

// Clear removes all the domains. The Boolean variables are not removed from
// the kernel.
func (f *Domains) Clear() {
	f.domains = nil
}

// DomainNum returns the number of domains.
func (f *Domains) DomainNum() int {
	return len(f.domains)
}

// DomainSize returns the number of values in domain d.
func (f *Domains) DomainSize(d int) (int, error) {
	if err := f.check(d); err != nil {
		return -1, err
	}
	return f.domains[d].realsize, nil
}

// Varnum returns the number of Boolean variables used to encode domain d.
func (f *Domains) Varnum(d int) (int, error) {
	if err := f.check(d); err != nil {
		return -1, err
	}
	return f.domains[d].binsize, nil
}

// Vars returns the Boolean variables used to encode domain d, least
// significant bit first.
func (f *Domains) Vars(d int) ([]int, error) {
	if err := f.check(d); err != nil {
		return nil, err
	}
	res := make([]int, len(f.domains[d].ivar))
	copy(res, f.domains[d].ivar)
	return res, nil
}

// ******************************************************************************************************

// Ithvar returns the BDD encoding value v of domain d. We return False, and
// record an error wrapping bdd.ErrRange, if v is not in the domain.
func (f *Domains) Ithvar(d, v int) bdd.Node {
	if err := f.check(d); err != nil {
		return f.seterror("wrong domain in call to Ithvar")
	}
	dom := f.domains[d]
	if v < 0 || v >= dom.realsize {
		return f.seterror("value %d out of domain %d in call to Ithvar", v, d)
	}
	res := f.k.True()
	for _, x := range dom.ivar {
		if v&1 == 1 {
			res = f.k.And(f.k.Ithvar(x), res)
		} else {
			res = f.k.And(f.k.NIthvar(x), res)
		}
		v >>= 1
	}
	return res
}

// Ithset returns the cube of the Boolean variables of domain d. It can be
// used as a variable set in quantifications.
func (f *Domains) Ithset(d int) bdd.Node {
	if err := f.check(d); err != nil {
		return f.seterror("wrong domain in call to Ithset")
	}
	return f.domains[d].varset
}

// Domain returns the BDD for the legal values of domain d, meaning the
// encodings of the values in [0, DomainSize(d)). It is built as a comparison
// with the largest value, one bit at a time, starting from the least
// significant bit.
func (f *Domains) Domain(d int) bdd.Node {
	if err := f.check(d); err != nil {
		return f.seterror("wrong domain in call to Domain")
	}
	dom := f.domains[d]
	val := dom.realsize - 1
	res := f.k.True()
	for _, x := range dom.ivar {
		if val&1 == 1 {
			res = f.k.Or(f.k.NIthvar(x), res)
		} else {
			res = f.k.And(f.k.NIthvar(x), res)
		}
		val >>= 1
	}
	return res
}

// Equals returns the BDD expressing that domains left and right have the same
// value. The domains must have the same size. The result is restricted to the
// legal values of left, so that Equals(d, d) is equal to Domain(d). In
// particular, Equals is False for two equal encodings outside of the domain,
// which differs from a plain conjunction of bit equivalences when the size is
// not a power of two.
func (f *Domains) Equals(left, right int) bdd.Node {
	if err := f.check(left); err != nil {
		return f.seterror("wrong domain in call to Equals")
	}
	if err := f.check(right); err != nil {
		return f.seterror("wrong domain in call to Equals")
	}
	l, r := f.domains[left], f.domains[right]
	if l.realsize != r.realsize {
		return f.seterror("domains %d and %d have different sizes (%d and %d) in call to Equals", left, right, l.realsize, r.realsize)
	}
	res := f.Domain(left)
	for n := range l.ivar {
		res = f.k.And(res, f.k.Equiv(f.k.Ithvar(l.ivar[n]), f.k.Ithvar(r.ivar[n])))
	}
	return res
}

// Makeset returns the cube of all the Boolean variables used by the domains in
// ds.
func (f *Domains) Makeset(ds []int) bdd.Node {
	res := f.k.True()
	for _, d := range ds {
		if err := f.check(d); err != nil {
			return f.seterror("wrong domain in call to Makeset")
		}
		res = f.k.And(res, f.domains[d].varset)
	}
	return res
}

// Scanset returns the domains that have at least one variable in the
// variable set r.
func (f *Domains) Scanset(r bdd.Node) ([]int, error) {
	if r == nil {
		return nil, fmt.Errorf("nil node in call to Scanset: %w", bdd.ErrNode)
	}
	vars := f.k.Scanset(r)
	if vars == nil && !f.k.Equal(r, f.k.True()) && !f.k.Equal(r, f.k.False()) {
		return nil, fmt.Errorf("bad node in call to Scanset: %w", f.k.Err())
	}
	in := make(map[int]bool, len(vars))
	for _, v := range vars {
		in[v] = true
	}
	res := []int{}
	for d, dom := range f.domains {
		for _, x := range dom.ivar {
			if in[x] {
				res = append(res, d)
				break
			}
		}
	}
	return res, nil
}

// ******************************************************************************************************

// Scanallvar returns the value of every domain in one of the assignments
// satisfying r. The assignment prefers the value 0 for each Boolean variable.
// We return an error wrapping ErrUnsat if r is False.
func (f *Domains) Scanallvar(r bdd.Node) ([]int, error) {
	if r == nil {
		return nil, fmt.Errorf("nil node in call to Scanallvar: %w", bdd.ErrNode)
	}
	if f.k.Equal(r, f.k.False()) {
		return nil, fmt.Errorf("no assignment in call to Scanallvar: %w", ErrUnsat)
	}
	store := make([]bool, f.k.Varnum())
	for p := r; !f.k.Equal(p, f.k.True()); {
		v := f.k.Label(p)
		if v < 0 {
			return nil, f.k.Err()
		}
		if low := f.k.Low(p); !f.k.Equal(low, f.k.False()) {
			store[v] = false
			p = low
		} else {
			store[v] = true
			p = f.k.High(p)
		}
	}
	res := make([]int, len(f.domains))
	for d, dom := range f.domains {
		val := 0
		for n := dom.binsize - 1; n >= 0; n-- {
			val *= 2
			if store[dom.ivar[n]] {
				val++
			}
		}
		res[d] = val
	}
	return res, nil
}

// Scanvar returns the value of domain d in one of the assignments satisfying
// r. See Scanallvar.
func (f *Domains) Scanvar(r bdd.Node, d int) (int, error) {
	if err := f.check(d); err != nil {
		return -1, err
	}
	vals, err := f.Scanallvar(r)
	if err != nil {
		return -1, err
	}
	return vals[d], nil
}
