// Package types defines the grid data model shared by every griddle
// component: records and the resolver contract, column descriptors, the
// sealed cell value union with its custom payloads, sort and selection
// state, and the standard error values.
package types
