// SPDX-License-Identifier: MIT

// Package dataset is the shared in-memory model of the distance ladder:
// measurement tables grouped by indicator class.
//
// What is in here?
//
//	Schema    ordered, named columns; each column is numeric or text.
//	Table     rows over one Schema; numeric cells are always finite.
//	Group     fixed enumeration of indicator groups with canonical labels
//	            (Cepheids, Cepheids_anchors, Cepheids_MW, TRGB, ...).
//	Partition Group → Table mapping, mutated by the correction engine and
//	            split into kept/excluded halves by the outlier rejector.
//
// Ordering:
//
//	Groups are always iterated in canonical order (see AllGroups). The fit
//	routine concatenates response rows in that order and the outlier rejector
//	maps residual positions back to rows with the same order. Row order inside
//	a Table is positional and significant for reproducible tie-breaks.
//
// Storage:
//
//	Table values share their row storage like slices do. Mutating methods
//	take a pointer receiver; use Clone (or Partition.Clone) before mutating a
//	copy that must stay independent. Without always returns fresh storage.
//
// Complexity:
//
//	Without(i)  O(rows·cols), rows reindexed contiguously from zero.
//	Append(row) O(1) amortized.
//	Column/Move O(rows).
package dataset
