// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import "fmt"

// Operator describes the binary Boolean operations available in Apply and
// AppEx.
type Operator int

const (
	OPand    Operator = iota // Boolean conjunction
	OPxor                    // Exclusive or
	OPor                     // Disjunction
	OPnand                   // Negation of and
	OPnor                    // Negation of or
	OPimp                    // Implication
	OPbiimp                  // Equivalence
	OPdiff                   // Difference (l and not r)
	OPless                   // Less than (not l and r)
	OPinvimp                 // Reverse implication
	op_not                   // Negation; only used as a key in the apply cache
)

var opnames = [...]string{
	OPand:    "and",
	OPxor:    "xor",
	OPor:     "or",
	OPnand:   "nand",
	OPnor:    "nor",
	OPimp:    "imp",
	OPbiimp:  "biimp",
	OPdiff:   "diff",
	OPless:   "less",
	OPinvimp: "invimp",
	op_not:   "not",
}

func (op Operator) String() string {
	if op < 0 || int(op) >= len(opnames) {
		return fmt.Sprintf("Operator(%d)", int(op))
	}
	return opnames[op]
}

// binary reports whether op can be used in Apply.
func (op Operator) binary() bool {
	return op >= OPand && op <= OPinvimp
}

// opres gives the truth table of each operator, indexed by the value of the
// left and right operands.
var opres = [...][2][2]int{
	//           l=0 r=0,1          l=1 r=0,1
	OPand:    {{0, 0}, {0, 1}}, // 0001
	OPxor:    {{0, 1}, {1, 0}}, // 0110
	OPor:     {{0, 1}, {1, 1}}, // 0111
	OPnand:   {{1, 1}, {1, 0}}, // 1110
	OPnor:    {{1, 0}, {0, 0}}, // 1000
	OPimp:    {{1, 1}, {0, 1}}, // 1101
	OPbiimp:  {{1, 0}, {0, 1}}, // 1001
	OPdiff:   {{0, 0}, {1, 0}}, // 0010
	OPless:   {{0, 1}, {0, 0}}, // 0100
	OPinvimp: {{1, 0}, {1, 1}}, // 1011
}
