// Package graph provides the dependency graph of a bundle's module set and
// the module depth computation.
//
// # Overview
//
// [New] builds a read-only [Graph] from parsed modules. Dependency ids are
// kept exactly as declared, including ids that no module in the set carries
// (dangling edges). Nothing in the package treats a dangling edge or a cycle
// as an error.
//
// # Depth
//
// The depth of a module is the length of its longest dependency chain, as
// seen by a single depth-first walk:
//
//   - a module without dependencies has depth 1
//   - otherwise depth is 1 + the largest contribution of its dependencies
//   - a dangling dependency contributes 1
//   - an id the walk has already reached contributes 0
//
// Reached ids stay marked for the whole top-level computation and
// [Graph.Depths] starts every module with an empty set. Each computation is
// therefore linear in the size of the graph, even inside large cycles, and
// the result can depend on the order dependencies are declared in: for
// A→{C,B}, B→C, C→D the walk from A reaches C before B, so B contributes 1
// and depth(A) is 3. For a diamond A→{B,C}, B→D, C→D the depths are D=1,
// B=C=2, A=3. A module that depends only on itself has depth 1.
//
// # Cycles
//
// [New] runs Tarjan's strongly connected components algorithm once.
// [Graph.Cycles] and [Graph.Cyclic] expose the components.
//
// # Concurrency
//
// A Graph is immutable after [New]. [DepthOptions.Workers] spreads
// [Graph.Depths] over an errgroup; each worker walks with its own visited set.
package graph
