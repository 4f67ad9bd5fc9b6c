// Package compute implements the parallel even-square aggregation.
//
// size.go resolves the raw "size" query value into an element count,
// falling back to DefaultSize for absent or malformed input.
//
// aggregate.go generates the value array and reduces it: every element in
// [0, ValueRange) that is even contributes x² to a uint64 sum. Both phases
// split the array into contiguous partitions, one goroutine each. Because
// the combine step is plain addition, the sum does not depend on how many
// partitions there are or the order in which they finish.
//
// Aggregator.Run ties the two phases together and times the reduction only.
package compute
