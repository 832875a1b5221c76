// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// eval returns the value of n for the assignment env, indexed by variables.
func eval(b *Kernel, n Node, env []bool) bool {
	k := *n
	for k > 1 {
		if env[b.level2var[b.level(k)]] {
			k = b.high(k)
		} else {
			k = b.low(k)
		}
	}
	return k == 1
}

// assignments returns all the assignments of varnum variables.
func assignments(varnum int) [][]bool {
	res := make([][]bool, 0, 1<<varnum)
	for m := 0; m < 1<<varnum; m++ {
		env := make([]bool, varnum)
		for v := range env {
			env[v] = (m>>v)&1 == 1
		}
		res = append(res, env)
	}
	return res
}

func newTestKernel(t testing.TB, varnum int, options ...Option) *Kernel {
	t.Helper()
	b, err := New(varnum, options...)
	if err != nil {
		t.Fatalf("New(%d): %s", varnum, err)
	}
	t.Cleanup(func() {
		if b.Errored() {
			t.Errorf("unexpected kernel error: %s", b.Err())
		}
		b.Done()
	})
	return b
}

//********************************************************************************************

func TestMinus(t *testing.T) {
	var minusTests = []struct {
		p, q, r  int32
		expected int32
	}{
		{3, 2, 3, 2},
		{4, 4, 4, 4},
		{2, 3, 3, 2},
		{3, 2, 2, 2},
		{3, 3, 2, 2},
		{1, 2, 3, 1},
	}
	for _, tt := range minusTests {
		actual := min3(tt.p, tt.q, tt.r)
		if actual != tt.expected {
			t.Errorf("min3(%d, %d, %d): expected %d, actual %d", tt.p, tt.q, tt.r, tt.expected, actual)
		}
	}
}

//********************************************************************************************

func TestIte(t *testing.T) {
	bdd := newTestKernel(t, 4, Nodesize(5000), Cachesize(50))
	n1 := bdd.Makeset([]int{0, 2, 3})
	n2 := bdd.Makeset([]int{0, 3})
	actual := bdd.Equiv(bdd.Ite(n1, n2, bdd.Not(n2)), bdd.Or(bdd.And(n1, n2), bdd.And(bdd.Not(n1), bdd.Not(n2))))
	if !bdd.Equal(actual, bdd.True()) {
		t.Errorf("ite(f,g,h) <=> (f and g) or (-f and h): expected true, actual %s", bdd.Print(actual))
	}
	a, c := bdd.Ithvar(1), bdd.Ithvar(2)
	if !bdd.Equal(bdd.Ite(a, bdd.True(), bdd.False()), a) {
		t.Errorf("ite(a, 1, 0) should be a")
	}
	if !bdd.Equal(bdd.Ite(a, bdd.False(), bdd.True()), bdd.NIthvar(1)) {
		t.Errorf("ite(a, 0, 1) should be not a")
	}
	if !bdd.Equal(bdd.Ite(a, c, c), c) {
		t.Errorf("ite(a, c, c) should be c")
	}
}

//********************************************************************************************

func TestApplyTruthTables(t *testing.T) {
	bdd := newTestKernel(t, 3)
	x := bdd.Or(bdd.And(bdd.Ithvar(0), bdd.Ithvar(1)), bdd.NIthvar(2))
	y := bdd.Apply(bdd.Ithvar(1), bdd.Ithvar(2), OPxor)
	operands := []Node{bdd.False(), bdd.True(), bdd.Ithvar(0), bdd.NIthvar(1), x, y}
	envs := assignments(3)
	for op := OPand; op <= OPinvimp; op++ {
		for _, l := range operands {
			for _, r := range operands {
				res := bdd.Apply(l, r, op)
				for _, env := range envs {
					lv, rv := 0, 0
					if eval(bdd, l, env) {
						lv = 1
					}
					if eval(bdd, r, env) {
						rv = 1
					}
					expected := opres[op][lv][rv] == 1
					if eval(bdd, res, env) != expected {
						t.Fatalf("%s(%s, %s) at %v: expected %v", op, bdd.Print(l), bdd.Print(r), env, expected)
					}
				}
			}
		}
	}
}

func TestApplyConstants(t *testing.T) {
	bdd := newTestKernel(t, 2)
	a := bdd.Ithvar(0)
	tests := []struct {
		op          Operator
		left, right Node
		expected    Node
	}{
		{OPdiff, bdd.False(), a, bdd.False()},
		{OPdiff, a, bdd.False(), a},
		{OPdiff, a, a, bdd.False()},
		{OPless, a, bdd.True(), bdd.NIthvar(0)},
		{OPless, bdd.False(), a, a},
		{OPinvimp, a, bdd.False(), bdd.True()},
		{OPinvimp, bdd.False(), a, bdd.NIthvar(0)},
		{OPnand, a, a, bdd.NIthvar(0)},
		{OPnor, a, bdd.False(), bdd.NIthvar(0)},
		{OPbiimp, a, bdd.False(), bdd.NIthvar(0)},
	}
	for _, tt := range tests {
		if actual := bdd.Apply(tt.left, tt.right, tt.op); !bdd.Equal(actual, tt.expected) {
			t.Errorf("%s(%s, %s): expected %s, actual %s", tt.op, bdd.Print(tt.left), bdd.Print(tt.right), bdd.Print(tt.expected), bdd.Print(actual))
		}
	}
}

func TestCanonicity(t *testing.T) {
	bdd := newTestKernel(t, 4)
	a, b, c := bdd.Ithvar(0), bdd.Ithvar(1), bdd.Ithvar(2)
	// De Morgan
	if !bdd.Equal(bdd.Not(bdd.And(a, b)), bdd.Or(bdd.Not(a), bdd.Not(b))) {
		t.Errorf("not(a and b) should be equal to (not a) or (not b)")
	}
	// distributivity
	if !bdd.Equal(bdd.And(a, bdd.Or(b, c)), bdd.Or(bdd.And(a, b), bdd.And(a, c))) {
		t.Errorf("a and (b or c) should be equal to (a and b) or (a and c)")
	}
	// double negation gives back the same node
	f := bdd.Apply(a, bdd.Or(b, c), OPxor)
	if !bdd.Equal(bdd.Not(bdd.Not(f)), f) {
		t.Errorf("not(not(f)) should be f")
	}
	if !bdd.Equal(bdd.And(), bdd.True()) || !bdd.Equal(bdd.Or(), bdd.False()) {
		t.Errorf("empty conjunction should be True and empty disjunction False")
	}
	// the same function built twice gives the same index
	g1 := bdd.And(bdd.Or(a, b), bdd.Or(a, c))
	g2 := bdd.Or(a, bdd.And(b, c))
	if *g1 != *g2 {
		t.Errorf("equivalent functions have different nodes %d and %d", *g1, *g2)
	}
}

//********************************************************************************************

// TestOperations implements the same tests than the bddtest program in the
// Buddy distribution. It uses function Allsat for checking that all assignments
// are detected.
func TestOperations(t *testing.T) {
	bdd := newTestKernel(t, 4, Nodesize(1000), Cachesize(1000))
	varnum := 4

	test1_check := func(x Node) error {
		allsatBDD := x
		allsatSumBDD := bdd.False()
		// Calculate whole set of asignments and remove all assignments
		// from original set
		err := bdd.Allsat(x, func(varset []int) error {
			x := bdd.True()
			for k, v := range varset {
				switch v {
				case 0:
					x = bdd.And(x, bdd.NIthvar(k))
				case 1:
					x = bdd.And(x, bdd.Ithvar(k))
				}
			}
			// Sum up all assignments
			allsatSumBDD = bdd.Or(allsatSumBDD, x)
			// Remove assignment from initial set
			allsatBDD = bdd.Apply(allsatBDD, x, OPdiff)
			return nil
		})
		if err != nil {
			return err
		}

		// Now the summed set should be equal to the original set and the
		// subtracted set should be empty
		if !bdd.Equal(allsatSumBDD, x) {
			return fmt.Errorf("AllSat sum is not the initial BDD")
		}

		if !bdd.Equal(allsatBDD, bdd.False()) {
			return fmt.Errorf("AllSat is not False")
		}
		return nil
	}

	check := func(x Node) {
		t.Helper()
		if err := test1_check(x); err != nil {
			t.Errorf("checking %s: %s", bdd.Print(x), err)
		}
	}

	a := bdd.Ithvar(0)
	b := bdd.Ithvar(1)
	c := bdd.Ithvar(2)
	d := bdd.Ithvar(3)
	na := bdd.NIthvar(0)
	nb := bdd.NIthvar(1)
	nc := bdd.NIthvar(2)
	nd := bdd.NIthvar(3)

	check(bdd.True())

	check(bdd.False())

	// a & b | !a & !b
	check(bdd.Or(bdd.And(a, b), bdd.And(na, nb)))

	// a & b | c & d
	check(bdd.Or(bdd.And(a, b), bdd.And(c, d)))

	// a & !b | a & !d | a & b & !c
	check(bdd.Or(bdd.And(a, nb), bdd.And(a, nd), bdd.And(a, b, nc)))

	for i := 0; i < varnum; i++ {
		check(bdd.Ithvar(i))
		check(bdd.NIthvar(i))
	}

	rnd := rand.New(rand.NewSource(42))
	set := bdd.True()
	for i := 0; i < 50; i++ {
		v := rnd.Intn(varnum)
		s := rnd.Intn(2)
		o := rnd.Intn(2)

		if o == 0 {
			if s == 0 {
				set = bdd.And(set, bdd.Ithvar(v))
			} else {
				set = bdd.And(set, bdd.NIthvar(v))
			}
		} else {
			if s == 0 {
				set = bdd.Or(set, bdd.Ithvar(v))
			} else {
				set = bdd.Or(set, bdd.NIthvar(v))
			}
		}

		check(set)
	}
}

//********************************************************************************************

func TestMakesetScanset(t *testing.T) {
	bdd := newTestKernel(t, 6)
	tests := []struct {
		vars     []int
		expected []int
	}{
		{[]int{2, 3, 5}, []int{2, 3, 5}},
		{[]int{5, 0, 3}, []int{0, 3, 5}},
		{[]int{1, 1, 4}, []int{1, 4}},
		{[]int{}, nil},
	}
	for _, tt := range tests {
		actual := bdd.Scanset(bdd.Makeset(tt.vars))
		if diff := cmp.Diff(tt.expected, actual); diff != "" {
			t.Errorf("Scanset(Makeset(%v)) mismatch (-want +got):\n%s", tt.vars, diff)
		}
	}
}

func TestSupport(t *testing.T) {
	bdd := newTestKernel(t, 6)
	f := bdd.Or(bdd.And(bdd.Ithvar(4), bdd.NIthvar(1)), bdd.Ithvar(2))
	if diff := cmp.Diff([]int{1, 2, 4}, bdd.Scanset(bdd.Support(f))); diff != "" {
		t.Errorf("Support mismatch (-want +got):\n%s", diff)
	}
	if !bdd.Equal(bdd.Support(bdd.True()), bdd.True()) {
		t.Errorf("support of a constant should be True")
	}
}

func TestQuantifiers(t *testing.T) {
	bdd := newTestKernel(t, 3)
	a, b, c := bdd.Ithvar(0), bdd.Ithvar(1), bdd.Ithvar(2)
	f := bdd.Or(bdd.And(a, b), bdd.And(bdd.Not(a), c))
	va := bdd.Makeset([]int{0})
	tests := []struct {
		name     string
		actual   Node
		expected Node
	}{
		{"exist", bdd.Exist(f, va), bdd.Or(b, c)},
		{"forall", bdd.Forall(f, va), bdd.And(b, c)},
		{"unique", bdd.Unique(f, va), bdd.Apply(b, c, OPxor)},
		{"exist empty", bdd.Exist(f, bdd.True()), f},
		{"exist all", bdd.Exist(f, bdd.Makeset([]int{0, 1, 2})), bdd.True()},
		{"forall all", bdd.Forall(f, bdd.Makeset([]int{0, 1, 2})), bdd.False()},
		{"appex and", bdd.AppEx(a, b, OPand, bdd.Makeset([]int{1})), a},
		{"appex xor", bdd.AppEx(a, b, OPxor, bdd.Makeset([]int{1})), bdd.True()},
		{"appex biimp", bdd.AppEx(f, c, OPbiimp, va), bdd.Exist(bdd.Equiv(f, c), va)},
		{"andexist", bdd.AndExist(va, f, a), b},
	}
	for _, tt := range tests {
		if !bdd.Equal(tt.actual, tt.expected) {
			t.Errorf("%s: expected %s, actual %s", tt.name, bdd.Print(tt.expected), bdd.Print(tt.actual))
		}
	}
	// the cache must not mix results for different variable sets
	e1 := bdd.Exist(f, bdd.Makeset([]int{1}))
	e2 := bdd.Exist(f, bdd.Makeset([]int{2}))
	if !bdd.Equal(e1, bdd.Or(a, c)) || !bdd.Equal(e2, bdd.Or(b, bdd.Not(a))) {
		t.Errorf("wrong results for successive quantifications: %s and %s", bdd.Print(e1), bdd.Print(e2))
	}
}

func TestRestrictCompose(t *testing.T) {
	bdd := newTestKernel(t, 3)
	a, b, c := bdd.Ithvar(0), bdd.Ithvar(1), bdd.Ithvar(2)
	f := bdd.Or(bdd.And(a, b), bdd.And(bdd.Not(a), c))
	if r := bdd.Restrict(f, a); !bdd.Equal(r, b) {
		t.Errorf("f[a:=1] should be b, actual %s", bdd.Print(r))
	}
	if r := bdd.Restrict(f, bdd.NIthvar(0)); !bdd.Equal(r, c) {
		t.Errorf("f[a:=0] should be c, actual %s", bdd.Print(r))
	}
	if r := bdd.Restrict(f, bdd.And(a, bdd.NIthvar(1))); !bdd.Equal(r, bdd.False()) {
		t.Errorf("f[a:=1,b:=0] should be False, actual %s", bdd.Print(r))
	}
	if r := bdd.Compose(f, bdd.Not(c), 0); !bdd.Equal(r, bdd.Or(bdd.And(bdd.Not(c), b), c)) {
		t.Errorf("f[a:=not c] is wrong: %s", bdd.Print(r))
	}
	if r := bdd.Compose(f, bdd.True(), 0); !bdd.Equal(r, b) {
		t.Errorf("f[a:=True] should be b, actual %s", bdd.Print(r))
	}
}

func TestSatone(t *testing.T) {
	bdd := newTestKernel(t, 4)
	f := bdd.And(bdd.Or(bdd.Ithvar(0), bdd.Ithvar(2)), bdd.NIthvar(3))
	s := bdd.Satone(f)
	if !bdd.Equal(bdd.Imp(s, f), bdd.True()) {
		t.Errorf("Satone(f) should imply f, actual %s", bdd.Print(s))
	}
	if n := bdd.Satcount(s).Int64(); n != 1<<uint(4-bdd.Nodecount(s)) {
		t.Errorf("Satone(f) should be a minterm, satcount is %d", n)
	}
	if !bdd.Equal(bdd.Satone(bdd.False()), bdd.False()) {
		t.Errorf("Satone(False) should be False")
	}
}

func TestSatcount(t *testing.T) {
	bdd := newTestKernel(t, 5)
	tests := []struct {
		n        Node
		expected int64
	}{
		{bdd.True(), 32},
		{bdd.False(), 0},
		{bdd.Ithvar(3), 16},
		{bdd.And(bdd.Ithvar(0), bdd.Ithvar(4)), 8},
		{bdd.Or(bdd.Ithvar(0), bdd.Ithvar(4)), 24},
		{bdd.Apply(bdd.Ithvar(1), bdd.Ithvar(2), OPxor), 16},
	}
	for _, tt := range tests {
		if actual := bdd.Satcount(tt.n).Int64(); actual != tt.expected {
			t.Errorf("Satcount(%s): expected %d, actual %d", bdd.Print(tt.n), tt.expected, actual)
		}
	}
}

func TestAllnodes(t *testing.T) {
	bdd := newTestKernel(t, 3)
	f := bdd.Or(bdd.And(bdd.Ithvar(0), bdd.Ithvar(1)), bdd.Ithvar(2))
	count := 0
	err := bdd.Allnodes(func(id, variable, low, high int) error {
		if id < 2 && variable != bdd.Varnum() {
			t.Errorf("constant %d should have variable %d, actual %d", id, bdd.Varnum(), variable)
		}
		count++
		return nil
	}, f)
	if err != nil {
		t.Fatal(err)
	}
	if expected := bdd.Nodecount(f) + 2; count != expected {
		t.Errorf("Allnodes: expected %d nodes, actual %d", expected, count)
	}
	stop := fmt.Errorf("stop")
	if err := bdd.Allnodes(func(id, variable, low, high int) error { return stop }); err != stop {
		t.Errorf("Allnodes should return the error of the callback, actual %v", err)
	}
}

func TestLabelLowHigh(t *testing.T) {
	bdd := newTestKernel(t, 3)
	f := bdd.And(bdd.Ithvar(1), bdd.Ithvar(2))
	if l := bdd.Label(f); l != 1 {
		t.Errorf("Label: expected 1, actual %d", l)
	}
	if !bdd.Equal(bdd.Low(f), bdd.False()) || !bdd.Equal(bdd.High(f), bdd.Ithvar(2)) {
		t.Errorf("wrong branches for %s", bdd.Print(f))
	}
	if bdd.Label(bdd.True()) != -1 {
		t.Errorf("Label of a constant should be -1")
	}
	// Label on a constant records an error
	bdd.ClearError()
}
