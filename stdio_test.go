// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestPrint(t *testing.T) {
	b := newTestKernel(t, 3)
	if s := b.Print(b.True()); s != "True" {
		t.Errorf("expected True, actual %s", s)
	}
	if s := b.Print(b.False()); s != "False" {
		t.Errorf("expected False, actual %s", s)
	}
	x := b.Ithvar(1)
	if s := b.Print(x); !strings.HasPrefix(s, "(") || !strings.Contains(s, "[1]") {
		t.Errorf("unexpected description %s", s)
	}
}

func TestFprintSet(t *testing.T) {
	b := newTestKernel(t, 3)
	f := b.Or(b.And(b.Ithvar(0), b.Ithvar(1)), b.Ithvar(2))
	var buf bytes.Buffer
	if err := b.FprintSet(&buf, f); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	// one header and one line for each node
	if len(lines) != 1+b.Nodecount(f) {
		t.Errorf("expected %d lines, actual %d:\n%s", 1+b.Nodecount(f), len(lines), buf.String())
	}
	buf.Reset()
	if err := b.FprintSet(&buf, b.False()); err != nil || buf.String() != "False\n" {
		t.Errorf("unexpected output for False: %q (%v)", buf.String(), err)
	}
}

func TestFprintDot(t *testing.T) {
	b := newTestKernel(t, 3)
	f := b.And(b.Ithvar(0), b.NIthvar(2))
	var buf bytes.Buffer
	if err := b.FprintDot(&buf, f); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "digraph G {") || !strings.HasSuffix(out, "}\n") {
		t.Errorf("not a DOT graph:\n%s", out)
	}
	if strings.Count(out, "->") != 2 {
		t.Errorf("expected 2 arcs, actual %d:\n%s", strings.Count(out, "->"), out)
	}
	if strings.Contains(out, "-> 0 ") {
		t.Errorf("arcs to False should not be drawn:\n%s", out)
	}
}

func TestStats(t *testing.T) {
	b := newTestKernel(t, 4)
	b.And(b.Ithvar(0), b.Ithvar(1))
	b.GC()
	s := b.Stats()
	if s.Varnum != 4 || s.GC != 1 {
		t.Errorf("unexpected stats %+v", s)
	}
	if s.Produced < 9 {
		t.Errorf("expected at least 9 nodes produced, actual %d", s.Produced)
	}
	out := s.String()
	for _, key := range []string{"Varnum:", "Allocated:", "Free:", "# of GC:", "Reorders:"} {
		if !strings.Contains(out, key) {
			t.Errorf("missing %q in stats:\n%s", key, out)
		}
	}
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	b := newTestKernel(t, 6, Logger(zap.New(core)))
	f := b.And(b.Equiv(b.Ithvar(0), b.Ithvar(3)), b.Equiv(b.Ithvar(1), b.Ithvar(4)))
	if err := b.Reorder(ReorderSift); err != nil {
		t.Fatal(err)
	}
	if logs.FilterMessage("new kernel").Len() != 1 {
		t.Errorf("expected a log entry for the creation of the kernel")
	}
	entries := logs.FilterMessage("reorder").All()
	if len(entries) != 1 {
		t.Fatalf("expected one log entry for the reordering, actual %d", len(entries))
	}
	if m := entries[0].ContextMap()["method"]; m != "sift" {
		t.Errorf("expected method sift in log, actual %v", m)
	}
	b.Satcount(f)
}
