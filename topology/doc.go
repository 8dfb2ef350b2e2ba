// Package topology turns the flat hierarchy records of a provider into a
// nested namespace tree of processor container and processor devices,
// serialized as a definition block.
//
// Containers are numbered globally in discovery order; processor numbering
// restarts inside every container, so sibling names never collide. Nodes
// referencing a low-power-state group get a _LPI accessor method pointing
// into a shared state table emitted once per distinct group.
package topology
