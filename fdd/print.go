// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package fdd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/hwre/bdd"
)

// SetPrinter sets the function used to print the name of a domain in Printset
// and Fprintset. By default we print the index of the domain. A nil value
// restores the default. The previous printer is returned.
func (f *Domains) SetPrinter(fn func(w io.Writer, d int) error) func(w io.Writer, d int) error {
	old := f.printer
	f.printer = fn
	return old
}

// Printset prints the set of tuples in r on the standard output. See
// Fprintset.
func (f *Domains) Printset(r bdd.Node) error {
	return f.Fprintset(os.Stdout, r)
}

// Fprintset prints the set of tuples in r on w. We print one group of the form
// <d:v1/v2, e:v3> for each path to True in r, with the possible values of each
// domain constrained on the path. The constants are printed as F and T.
func (f *Domains) Fprintset(w io.Writer, r bdd.Node) error {
	if r == nil {
		return fmt.Errorf("nil node in call to Fprintset: %w", bdd.ErrNode)
	}
	bw := bufio.NewWriter(w)
	switch {
	case f.k.Equal(r, f.k.False()):
		fmt.Fprint(bw, "F")
	case f.k.Equal(r, f.k.True()):
		fmt.Fprint(bw, "T")
	default:
		// set[v] is 0 for a don't care, 1 for false and 2 for true
		set := make([]byte, f.k.Varnum())
		if err := f.printrec(bw, r, set); err != nil {
			bw.Flush()
			return err
		}
	}
	return bw.Flush()
}

func (f *Domains) printrec(w io.Writer, r bdd.Node, set []byte) error {
	if f.k.Equal(r, f.k.False()) {
		return nil
	}
	if f.k.Equal(r, f.k.True()) {
		return f.printpath(w, set)
	}
	v := f.k.Label(r)
	if v < 0 {
		return f.k.Err()
	}
	set[v] = 1
	if err := f.printrec(w, f.k.Low(r), set); err != nil {
		return err
	}
	set[v] = 2
	if err := f.printrec(w, f.k.High(r), set); err != nil {
		return err
	}
	set[v] = 0
	return nil
}

func (f *Domains) printpath(w io.Writer, set []byte) error {
	fmt.Fprint(w, "<")
	first := true
	for d, dom := range f.domains {
		used := false
		for _, x := range dom.ivar {
			if set[x] != 0 {
				used = true
				break
			}
		}
		if !used {
			continue
		}
		if !first {
			fmt.Fprint(w, ", ")
		}
		first = false
		if f.printer != nil {
			if err := f.printer(w, d); err != nil {
				return err
			}
		} else {
			fmt.Fprintf(w, "%d", d)
		}
		fmt.Fprint(w, ":")
		firstval := true
		for m := 0; m < 1<<dom.binsize; m++ {
			if !consistent(dom, m, set) {
				continue
			}
			if !firstval {
				fmt.Fprint(w, "/")
			}
			firstval = false
			fmt.Fprintf(w, "%d", m)
		}
	}
	_, err := fmt.Fprint(w, ">")
	return err
}

// consistent reports whether the encoding of value m in dom agrees with the
// constraints in set.
func consistent(dom domain, m int, set []byte) bool {
	for _, x := range dom.ivar {
		bit := m & 1
		m >>= 1
		if (set[x] == 1 && bit != 0) || (set[x] == 2 && bit != 1) {
			return false
		}
	}
	return true
}
