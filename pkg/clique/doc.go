// Package clique groups strings that differ only by a numeric index into
// collections, such as the frames of an image sequence:
//
//	render.0001.exr
//	render.0002.exr     ->  render.%04d.exr [1-3]
//	render.0003.exr
//
// Assemble performs the grouping, Collection models a single sequence and
// Parse reads back the descriptor produced by Collection.Format.
//
// The package is pure computation. Values are not safe for concurrent
// mutation, but independent Assemble calls may run in parallel.
package clique
