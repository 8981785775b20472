// Package layout plans the geometry of the published report tabs: summary blocks, the raw
// data ranges their formulas aggregate, number format ranges and chart source ranges.
//
// Every range is derived from the row count of the underlying data so a report never
// carries stale trailing formulas or truncated aggregates. Nothing in this package does I/O.
package layout
