// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

/*
Package bdd defines a kernel for Binary Decision Diagrams (BDD), a data
structure used to efficiently represent Boolean functions over a fixed set of
variables or, equivalently, sets of Boolean vectors with a fixed size.

Basics

A Kernel manages a table of nodes shared by all the BDD it builds. Each kernel
has a number of variables, Varnum, that can be increased at any time with
SetVarnum or ExtVarnum. Variables are identified by an integer in the interval
[0..Varnum). The position of a variable in the diagrams, its level, is given
by the current variable order, which can be changed with SetVarOrder or with
one of the dynamic reordering heuristics (see Reorder). Several kernels can be
used at the same time, but a kernel must never be shared between goroutines
without external synchronization.

Most operations return a Node; that is a handle on a "vertex" of the node
table that includes a variable level and the address of the low and high
branch for this node. We use integers to represent the address of nodes, with
the convention that 1 (respectively 0) is the address of the constant function
True (respectively False). Two handles denote the same Boolean function if and
only if they hold the same address; use method Equal to compare them.

The data structures and algorithms implemented in this package are an
adaptation of those found in the C-library BuDDy, developed by Jorn
Lind-Nielsen. Finite domain variables, built on top of the kernel, are
available in package fdd.

Memory management

Nodes are stored in a table that grows on demand. When no free slot is left,
the kernel starts a mark and sweep garbage collection that reclaims every node
that is not reachable from an externally referenced node. Handles returned by
the kernel hold one reference on their node, which is released by a finalizer
when the handle is collected by the Go runtime. Methods AddRef and DelRef can
be used to protect nodes explicitly. Garbage collection and reordering never
move a referenced node: a handle stays valid, and denotes the same function,
until it is dropped.

Errors

Operations that return a Node never panic on bad input. They return False and
record the error in the kernel, where it can be retrieved with Err. Errors are
wrapped around one of the exported sentinel values (ErrVar, ErrRange, ErrMemory,
...) and can be tested with errors.Is. The error status is sticky, meaning that
it accumulates the errors of a sequence of operations until ClearError is
called.

Use of build tags

To get access to better statistics about the unique table and caches, as well
as to unlock a dump of the node table on the debug logger, you can compile your
executable with the build tag `debug`.
*/
package bdd
