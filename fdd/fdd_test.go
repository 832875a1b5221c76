// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package fdd_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hwre/bdd"
	"github.com/hwre/bdd/fdd"
)

func newDomains(t *testing.T, options ...bdd.Option) (*bdd.Kernel, *fdd.Domains) {
	t.Helper()
	k, err := bdd.New(0, options...)
	require.NoError(t, err)
	t.Cleanup(k.Done)
	return k, fdd.New(k)
}

func TestExtDomainInterleaving(t *testing.T) {
	k, f := newDomains(t)
	first, err := f.ExtDomain(4, 16)
	require.NoError(t, err)
	require.Equal(t, 0, first)
	require.Equal(t, 2, f.DomainNum())
	require.Equal(t, 6, k.Varnum())

	vars, err := f.Vars(0)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, vars)
	vars, err = f.Vars(1)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 4, 5}, vars)

	// a second call appends new variables
	next, err := f.ExtDomain(3)
	require.NoError(t, err)
	require.Equal(t, 2, next)
	vars, err = f.Vars(2)
	require.NoError(t, err)
	assert.Equal(t, []int{6, 7}, vars)
}

func TestBinsize(t *testing.T) {
	_, f := newDomains(t)
	sizes := []int{1, 2, 3, 4, 5, 8, 9, 1000}
	expected := []int{1, 1, 2, 2, 3, 3, 4, 10}
	first, err := f.ExtDomain(sizes...)
	require.NoError(t, err)
	for k := range sizes {
		n, err := f.Varnum(first + k)
		require.NoError(t, err)
		assert.Equal(t, expected[k], n, "size %d", sizes[k])
		size, err := f.DomainSize(first + k)
		require.NoError(t, err)
		assert.Equal(t, sizes[k], size)
	}
}

func TestExtDomainErrors(t *testing.T) {
	k, f := newDomains(t)
	for _, size := range []int{0, -3, math.MaxInt32} {
		_, err := f.ExtDomain(2, size)
		require.ErrorIs(t, err, bdd.ErrRange, "size %d", size)
	}
	_, err := f.ExtDomain()
	require.ErrorIs(t, err, bdd.ErrRange)
	// nothing has been allocated
	assert.Equal(t, 0, f.DomainNum())
	assert.Equal(t, 0, k.Varnum())

	_, err = f.DomainSize(0)
	require.ErrorIs(t, err, bdd.ErrRange)
	_, err = f.Vars(-1)
	require.ErrorIs(t, err, bdd.ErrRange)
}

func TestRoundTrip(t *testing.T) {
	k, f := newDomains(t)
	sizes := []int{3, 5, 8, 1}
	_, err := f.ExtDomain(sizes...)
	require.NoError(t, err)
	for d, size := range sizes {
		for v := 0; v < size; v++ {
			n := f.Ithvar(d, v)
			actual, err := f.Scanvar(n, d)
			require.NoError(t, err)
			assert.Equal(t, v, actual, "domain %d", d)
			// exactly one value of d, other domains are free
			bits, _ := f.Varnum(d)
			assert.Equal(t, int64(1)<<uint(k.Varnum()-bits), k.Satcount(n).Int64())
		}
	}
	require.NoError(t, f.Err())
	require.False(t, k.Errored())
}

func TestIthvarErrors(t *testing.T) {
	k, f := newDomains(t)
	_, err := f.ExtDomain(3)
	require.NoError(t, err)
	assert.True(t, k.Equal(f.Ithvar(0, 3), k.False()))
	require.ErrorIs(t, f.Err(), bdd.ErrRange)
	f.ClearError()
	assert.True(t, k.Equal(f.Ithvar(0, -1), k.False()))
	require.ErrorIs(t, f.Err(), bdd.ErrRange)
	f.ClearError()
	assert.True(t, k.Equal(f.Ithvar(1, 0), k.False()))
	require.ErrorIs(t, f.Err(), bdd.ErrRange)
	f.ClearError()
	assert.True(t, k.Equal(f.Domain(4), k.False()))
	assert.True(t, k.Equal(f.Ithset(4), k.False()))
	require.Error(t, f.Err())
}

func TestExtDomainAfterKernelError(t *testing.T) {
	k, f := newDomains(t)
	// an unrelated failure leaves an error in the kernel
	assert.True(t, k.Equal(k.Ithvar(99), k.False()))
	require.True(t, k.Errored())
	first, err := f.ExtDomain(4)
	require.NoError(t, err)
	assert.Equal(t, 0, first)
	assert.Equal(t, 1, f.DomainNum())
	vars, err := f.Scanset(k.Ithvar(0))
	require.NoError(t, err)
	assert.Equal(t, []int{0}, vars)
	vars, err = f.Scanset(k.True())
	require.NoError(t, err)
	assert.Empty(t, vars)
	_, err = f.Scanset(nil)
	require.ErrorIs(t, err, bdd.ErrNode)
	k.ClearError()
}

func TestDomain(t *testing.T) {
	k, f := newDomains(t)
	sizes := []int{1, 3, 4, 5, 7, 12}
	first, err := f.ExtDomain(sizes...)
	require.NoError(t, err)
	for i, size := range sizes {
		d := first + i
		dom := f.Domain(d)
		bits, _ := f.Varnum(d)
		assert.Equal(t, int64(size)<<uint(k.Varnum()-bits), k.Satcount(dom).Int64(), "size %d", size)
		// Domain is the disjunction of all the legal values
		all := k.False()
		for v := 0; v < size; v++ {
			all = k.Or(all, f.Ithvar(d, v))
		}
		assert.True(t, k.Equal(all, dom), "size %d", size)
	}
}

func TestEquals(t *testing.T) {
	k, f := newDomains(t)
	_, err := f.ExtDomain(5, 5, 6)
	require.NoError(t, err)
	// Equals(d, d) is the set of legal values of d
	for d := 0; d < 3; d++ {
		assert.True(t, k.Equal(f.Equals(d, d), f.Domain(d)), "domain %d", d)
	}
	eq := f.Equals(0, 1)
	for v := 0; v < 5; v++ {
		for w := 0; w < 5; w++ {
			tuple := k.And(f.Ithvar(0, v), f.Ithvar(1, w))
			sat := !k.Equal(k.And(tuple, eq), k.False())
			assert.Equal(t, v == w, sat, "values %d and %d", v, w)
		}
	}
	// equal encodings outside of the domain are excluded
	assert.True(t, k.Equal(k.And(eq, k.Not(f.Domain(0))), k.False()))
	require.NoError(t, f.Err())
	assert.True(t, k.Equal(f.Equals(0, 2), k.False()))
	require.ErrorIs(t, f.Err(), bdd.ErrRange)
}

func TestEndToEnd(t *testing.T) {
	k, f := newDomains(t)
	_, err := f.ExtDomain(4, 4)
	require.NoError(t, err)
	r := k.And(f.Ithvar(0, 2), f.Equals(0, 1))
	require.False(t, k.Equal(r, k.False()))
	v, err := f.Scanvar(r, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	vals, err := f.Scanallvar(r)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, vals)
	// the same with a quantification over domain 0
	img := k.Exist(r, f.Ithset(0))
	assert.True(t, k.Equal(img, f.Ithvar(1, 2)))
}

func TestScanallvar(t *testing.T) {
	k, f := newDomains(t)
	_, err := f.ExtDomain(4, 8)
	require.NoError(t, err)
	vals, err := f.Scanallvar(k.And(f.Ithvar(0, 1), f.Ithvar(1, 6)))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 6}, vals)
	// free domains take value 0
	vals, err = f.Scanallvar(f.Ithvar(1, 5))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 5}, vals)
	_, err = f.Scanallvar(k.False())
	require.ErrorIs(t, err, fdd.ErrUnsat)
	_, err = f.Scanvar(k.False(), 0)
	require.ErrorIs(t, err, fdd.ErrUnsat)
	_, err = f.Scanvar(k.True(), 3)
	require.ErrorIs(t, err, bdd.ErrRange)
}

func TestOverlapDomain(t *testing.T) {
	k, f := newDomains(t)
	_, err := f.ExtDomain(3, 5)
	require.NoError(t, err)
	d, err := f.OverlapDomain(0, 1)
	require.NoError(t, err)
	require.Equal(t, 2, d)
	size, _ := f.DomainSize(d)
	assert.Equal(t, 15, size)
	bits, _ := f.Varnum(d)
	assert.Equal(t, 2+3, bits)
	va, _ := f.Vars(0)
	vb, _ := f.Vars(1)
	vd, _ := f.Vars(d)
	assert.Equal(t, append(va, vb...), vd)
	assert.True(t, k.Equal(f.Ithset(d), k.And(f.Ithset(0), f.Ithset(1))))
	_, err = f.OverlapDomain(0, 7)
	require.ErrorIs(t, err, bdd.ErrRange)
}

func TestMakesetScanset(t *testing.T) {
	k, f := newDomains(t)
	_, err := f.ExtDomain(4, 4, 4)
	require.NoError(t, err)
	set := f.Makeset([]int{0, 2})
	ds, err := f.Scanset(set)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, ds)
	assert.True(t, k.Equal(f.Makeset(nil), k.True()))
	ds, err = f.Scanset(k.Ithvar(4))
	require.NoError(t, err)
	assert.Equal(t, []int{1}, ds)
}

func TestPairs(t *testing.T) {
	k, f := newDomains(t)
	_, err := f.ExtDomain(4, 4, 8)
	require.NoError(t, err)
	p, err := f.NewPair([]int{0}, []int{1})
	require.NoError(t, err)
	for v := 0; v < 4; v++ {
		assert.True(t, k.Equal(k.Replace(f.Ithvar(0, v), p), f.Ithvar(1, v)))
	}
	q := k.NewPair()
	require.ErrorIs(t, f.SetPair(q, 0, 2), bdd.ErrVarnum)
	require.ErrorIs(t, f.SetPairs(q, []int{0, 1}, []int{1}), bdd.ErrVarnum)
	require.ErrorIs(t, f.SetPair(q, 0, 5), bdd.ErrRange)
	// swapping two domains
	require.NoError(t, f.SetPairs(q, []int{0, 1}, []int{1, 0}))
	r := k.And(f.Ithvar(0, 1), f.Ithvar(1, 3))
	assert.True(t, k.Equal(k.Replace(r, q), k.And(f.Ithvar(0, 3), f.Ithvar(1, 1))))
}

func TestVarBlocks(t *testing.T) {
	k, f := newDomains(t)
	// domains are created one at a time to keep their bits contiguous
	for i := 0; i < 3; i++ {
		_, err := f.ExtDomain(8)
		require.NoError(t, err)
	}
	for d := 0; d < 3; d++ {
		require.NoError(t, f.AddVarBlock(d, d, true))
	}
	require.ErrorIs(t, f.AddVarBlock(2, 1, false), bdd.ErrVarblock)
	require.ErrorIs(t, f.AddVarBlock(0, 3, false), bdd.ErrVarblock)
	r := k.And(f.Equals(0, 2), f.Domain(1))
	require.NoError(t, k.Reorder(bdd.ReorderSift))
	for d := 0; d < 3; d++ {
		vars, _ := f.Vars(d)
		for n := 1; n < len(vars); n++ {
			assert.Equal(t, k.Var2Level(vars[0])+n, k.Var2Level(vars[n]), "domain %d is not contiguous", d)
		}
	}
	vals, err := f.Scanallvar(k.And(r, f.Ithvar(0, 6)))
	require.NoError(t, err)
	assert.Equal(t, 6, vals[2])
}

func TestFprintset(t *testing.T) {
	k, f := newDomains(t)
	_, err := f.ExtDomain(3, 4)
	require.NoError(t, err)
	tests := []struct {
		name     string
		n        bdd.Node
		expected string
	}{
		{"false", k.False(), "F"},
		{"true", k.True(), "T"},
		{"value", f.Ithvar(0, 2), "<0:2>"},
		{"domain", f.Domain(0), "<0:0/2><0:1>"},
		{"tuple", k.And(f.Ithvar(0, 1), f.Ithvar(1, 3)), "<0:1, 1:3>"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		require.NoError(t, f.Fprintset(&buf, tt.n), tt.name)
		assert.Equal(t, tt.expected, buf.String(), tt.name)
	}
	f.SetPrinter(func(w io.Writer, d int) error {
		_, err := fmt.Fprintf(w, "d%d", d)
		return err
	})
	var buf bytes.Buffer
	require.NoError(t, f.Fprintset(&buf, f.Ithvar(1, 2)))
	assert.Equal(t, "<d1:2>", buf.String())
	// output written before a failure is not lost
	errPrinter := errors.New("no name")
	f.SetPrinter(func(w io.Writer, d int) error {
		return errPrinter
	})
	buf.Reset()
	require.ErrorIs(t, f.Fprintset(&buf, f.Ithvar(1, 2)), errPrinter)
	assert.Equal(t, "<", buf.String())
	f.SetPrinter(nil)
}

// TestGC checks that domains survive garbage collections in a small node
// table.
func TestGC(t *testing.T) {
	k, f := newDomains(t, bdd.Nodesize(50), bdd.Cachesize(20))
	_, err := f.ExtDomain(10, 10, 10)
	require.NoError(t, err)
	rel := k.And(f.Equals(0, 1), f.Equals(1, 2))
	for i := 0; i < 20; i++ {
		k.Or(f.Ithvar(i%3, i%10), f.Domain((i+1)%3))
		if i%5 == 0 {
			runtime.GC()
			k.GC()
		}
	}
	for v := 0; v < 10; v++ {
		vals, err := f.Scanallvar(k.And(rel, f.Ithvar(0, v)))
		require.NoError(t, err)
		assert.Equal(t, []int{v, v, v}, vals)
	}
	require.Greater(t, k.Stats().GC, 0)
	require.False(t, k.Errored())
}

func TestClear(t *testing.T) {
	k, f := newDomains(t)
	_, err := f.ExtDomain(4, 4)
	require.NoError(t, err)
	f.Clear()
	assert.Equal(t, 0, f.DomainNum())
	assert.Equal(t, 4, k.Varnum())
	d, err := f.ExtDomain(2)
	require.NoError(t, err)
	assert.Equal(t, 0, d)
	vars, _ := f.Vars(d)
	assert.Equal(t, []int{4}, vars)
}
