// Package eagle reads and writes Eagle .brd XML files.
//
// The codec covers the baseline board schema the merge engine supports.
// It is deliberately tolerant at decode time: constructs outside that subset
// are not dropped or guessed at, they are recorded on the document as
// [board.UnknownConstruct] entries with their XML path, and the merge
// engine's feature gate refuses the document before any merging happens.
// Numeric attributes that fail to parse are decode errors, since a file that
// carries them is corrupt rather than merely newer than the baseline.
package eagle
