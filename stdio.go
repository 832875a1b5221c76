// Copyright 2021. Silvano DAL ZILIO.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package bdd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"
)

// Stats is a snapshot of the counters of a kernel.
type Stats struct {
	Varnum    int // number of variables
	Nodes     int // size of the node table
	Free      int // free slots in the node table
	Produced  int // number of nodes created since the creation of the kernel
	GC        int // number of garbage collections
	Reorders  int // number of calls to Reorder
	Swaps     int // number of adjacent level swaps
	CacheHit  int // hits in the operation caches (debug builds only)
	CacheMiss int // misses in the operation caches (debug builds only)
}

// Stats returns information about the kernel.
func (b *Kernel) Stats() Stats {
	return Stats{
		Varnum:    int(b.varnum),
		Nodes:     len(b.nodes),
		Free:      b.freenum,
		Produced:  b.produced,
		GC:        len(b.gcstat.history),
		Reorders:  b.reorderstat.count,
		Swaps:     b.reorderstat.swaps,
		CacheHit:  b.cachestat.opHit,
		CacheMiss: b.cachestat.opMiss,
	}
}

func (s Stats) String() string {
	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "Varnum:\t%d\n", s.Varnum)
	fmt.Fprintf(tw, "Allocated:\t%d\n", s.Nodes)
	fmt.Fprintf(tw, "Produced:\t%d\n", s.Produced)
	r := 0.0
	if s.Nodes > 0 {
		r = (float64(s.Free) / float64(s.Nodes)) * 100
	}
	fmt.Fprintf(tw, "Free:\t%d\t(%.3g %%)\n", s.Free, r)
	fmt.Fprintf(tw, "Used:\t%d\t(%.3g %%)\n", s.Nodes-s.Free, 100.0-r)
	fmt.Fprintf(tw, "# of GC:\t%d\n", s.GC)
	fmt.Fprintf(tw, "Reorders:\t%d\t(%d swaps)\n", s.Reorders, s.Swaps)
	if _DEBUG {
		fmt.Fprintf(tw, "Cache hits:\t%d\n", s.CacheHit)
		fmt.Fprintf(tw, "Cache miss:\t%d\n", s.CacheMiss)
	}
	tw.Flush()
	return strings.TrimRight(sb.String(), "\n")
}

// ******************************************************************************************************

// Print returns a one-line description of node n.
func (b *Kernel) Print(n Node) string {
	if err := b.checkptr(n); err != nil {
		return fmt.Sprintf("Error (%s)", err)
	}
	switch *n {
	case 0:
		return "False"
	case 1:
		return "True"
	}
	return fmt.Sprintf("(%d[%d] ? %d : %d)", *n, b.level2var[b.level(*n)], b.low(*n), b.high(*n))
}

// PrintSet outputs a textual representation of the BDD with root n on the
// standard output. There is one line for each node, giving its index, its
// variable and the index of its low and high branch.
func (b *Kernel) PrintSet(n Node) error {
	return b.FprintSet(os.Stdout, n)
}

// FprintSet is the same as PrintSet but outputs the result on w.
func (b *Kernel) FprintSet(w io.Writer, n Node) error {
	if err := b.checkptr(n); err != nil {
		b.badnode(err, "wrong operand in call to FprintSet")
		return err
	}
	switch *n {
	case 0:
		_, err := fmt.Fprintln(w, "False")
		return err
	case 1:
		_, err := fmt.Fprintln(w, "True")
		return err
	}
	nodes := b.reachable(*n)
	tw := tabwriter.NewWriter(w, 0, 0, 0, ' ', 0)
	fmt.Fprintf(tw, "node: %d\n", *n)
	for _, k := range nodes {
		fmt.Fprintf(tw, "%d\t[%d\t] ? \t%d\t : %d\n", k, b.level2var[b.level(k)], b.low(k), b.high(k))
	}
	return tw.Flush()
}

// reachable returns the sorted list of internal nodes reachable from n.
func (b *Kernel) reachable(n int) []int {
	cnodes := b.markcount(n)
	nodes := make([]int, 0, cnodes)
	for i := 2; i < len(b.nodes); i++ {
		if b.ismarked(i) {
			b.unmarknode(i)
			nodes = append(nodes, i)
		}
	}
	sort.Ints(nodes)
	return nodes
}

// ******************************************************************************************************

// PrintDot prints a graph-like description of the BDD with root n using the DOT
// format on the standard output.
func (b *Kernel) PrintDot(n Node) error {
	return b.FprintDot(os.Stdout, n)
}

// FprintDot is the same as PrintDot but outputs the result on w. We do not
// draw arcs that go to the constant False.
func (b *Kernel) FprintDot(w io.Writer, n Node) error {
	if err := b.checkptr(n); err != nil {
		b.badnode(err, "wrong operand in call to FprintDot")
		return err
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph G {")
	fmt.Fprintln(bw, "1 [shape=box, label=\"1\", style=filled, height=0.3, width=0.3];")
	if *n == 0 {
		fmt.Fprintln(bw, "0 [shape=box, label=\"0\", style=filled, height=0.3, width=0.3];")
	}
	if *n > 1 {
		for _, v := range b.reachable(*n) {
			fmt.Fprintf(bw, "%d %s\n", v, dotlabel(v, b.level2var[b.level(v)]))
			if b.low(v) != 0 {
				fmt.Fprintf(bw, "%d -> %d [style=dotted];\n", v, b.low(v))
			}
			if b.high(v) != 0 {
				fmt.Fprintf(bw, "%d -> %d [style=filled];\n", v, b.high(v))
			}
		}
	}
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}

func dotlabel(a int, v int32) string {
	return fmt.Sprintf(`[label=<
	<FONT POINT-SIZE="20">%d</FONT>
	<FONT POINT-SIZE="10">[%d]</FONT>
>];`, v, a)
}

// ******************************************************************************************************

// logTable dumps the node table on the debug logger.
func (b *Kernel) logTable() {
	if !b.logger.Core().Enabled(zap.DebugLevel) {
		return
	}
	for k, n := range b.nodes {
		if n.low == -1 && k > 1 {
			continue
		}
		b.logger.Debug("node",
			zap.Int("id", k),
			zap.Int32("level", n.level&_MAXVAR),
			zap.Int("low", n.low),
			zap.Int("high", n.high),
			zap.Int("hash", n.hash),
			zap.Int("next", n.next),
			zap.Int32("refcou", n.refcou))
	}
}
