// Package analyze turns a parsed module set into the figures bundlescope
// reports: the application/library split and the per-module depth table.
//
// Modules whose verbose name contains the vendor marker ("node_modules" by
// default) are library modules; everything else is application code. Depths
// come from [graph.Graph.Depths] and are reported in ascending order, with
// modules of equal depth left in bundle order.
package analyze
