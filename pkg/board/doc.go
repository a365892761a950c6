// Package board defines the in-memory model of an Eagle board document.
//
// A [Document] holds everything the merge engine needs from one .brd file:
// drawing settings, the layer table, embedded libraries with their package
// footprints, board-level graphics, placed elements, signals (nets) and the
// design rule set. The model covers the baseline board schema only; the codec
// in the eagle subpackage records anything outside that subset as an
// [UnknownConstruct] so the merge engine can refuse it up front instead of
// silently dropping it.
//
// All coordinates are millimeters, matching the unit Eagle uses in its XML
// files. Documents are plain data: they are safe to deep-copy with
// [Document.Clone] and carry no references back to the file they came from.
package board
