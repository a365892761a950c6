// Package merge implements the board panel merge engine.
//
// A [Merger] folds a sequence of parsed board documents into one output
// document, applying a per-input [Placement] (right-angle rotation plus
// offset) and reconciling everything the boards share: embedded libraries
// are deduplicated but must be structurally identical, design rules and the
// other board-wide sections must match exactly, and element/signal names are
// made unique while their visible labels keep the original name.
//
// The engine is strict by design. Every detected inconsistency is fatal and
// surfaces as a typed error ([LibraryConflictError], [DesignRuleMismatchError],
// [UnsupportedFeatureError], [SectionMismatchError]) identifying the input
// file and the offending construct; there is no best-effort resolution,
// because the output format has no way to represent an ambiguous merge.
//
// All state (the accumulating document, the name registry, the adopted rule
// set) lives on one run; no package-level state is shared between runs.
//
// # Usage
//
//	m := merge.NewMerger(logger)
//	result, err := m.Merge(ctx, []merge.Input{
//	    {File: "a.brd", Doc: docA},
//	    {File: "b.brd", Doc: docB, Placement: merge.Placement{OffsetX: 50, Rotation: 90}},
//	})
//	if err != nil {
//	    return err
//	}
//	// result.Document is the merged panel; result.Renames lists every
//	// element/signal that had to be renamed for uniqueness.
package merge
