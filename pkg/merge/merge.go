package merge

import (
	"context"
	stderrors "errors"
	"reflect"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/boardworks/panelize/pkg/board"
	"github.com/boardworks/panelize/pkg/errors"
	"github.com/boardworks/panelize/pkg/observability"
)

// Input is one board to fold into the panel, with its placement.
type Input struct {
	File      string          // Diagnostic name, usually the source path
	Doc       *board.Document // Parsed board document
	Placement Placement       // Position of this board on the panel
}

// Rename records one element or signal that had to be renamed to keep
// output names unique.
type Rename struct {
	File string `json:"file"` // Input the entity came from
	Kind string `json:"kind"` // "element" or "signal"
	From string `json:"from"` // Name in the input document
	To   string `json:"to"`   // Name in the merged output
}

// InputStats carries per-input merge statistics.
type InputStats struct {
	File     string        `json:"file"`
	Elements int           `json:"elements"`
	Signals  int           `json:"signals"`
	Duration time.Duration `json:"duration"`
}

// Stats carries whole-run merge statistics.
type Stats struct {
	Inputs    int           `json:"inputs"`
	Libraries int           `json:"libraries"`
	Elements  int           `json:"elements"`
	Signals   int           `json:"signals"`
	Duration  time.Duration `json:"duration"`
	PerInput  []InputStats  `json:"per_input"`
}

// Result is the outcome of a successful merge run.
type Result struct {
	RunID    string          `json:"run_id"`
	Document *board.Document `json:"-"`
	Renames  []Rename        `json:"renames"`
	Stats    Stats           `json:"stats"`
}

// Merger merges board documents into panels. A Merger is stateless between
// runs; every call to Merge builds fresh run state (output document, name
// registry, adopted rules), so concurrent runs on separate Mergers, or
// sequential runs on one, never observe each other.
type Merger struct {
	logger *log.Logger
}

// NewMerger creates a merger. A nil logger falls back to log.Default().
func NewMerger(logger *log.Logger) *Merger {
	if logger == nil {
		logger = log.Default()
	}
	return &Merger{logger: logger}
}

// Merge folds the inputs, in order, into one panel document. Later inputs
// observe all state accumulated from earlier ones (committed names, merged
// libraries, the adopted rule set). Any validation failure aborts the whole
// run with no partial result: the function either returns a fully merged,
// internally consistent document or an error naming the failing input and
// construct.
func (m *Merger) Merge(ctx context.Context, inputs []Input) (*Result, error) {
	if len(inputs) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no input boards given")
	}

	runID := uuid.NewString()
	start := time.Now()
	observability.Merge().OnRunStart(ctx, runID, len(inputs))

	r := &run{
		logger: m.logger.With("run", runID),
		out:    &board.Document{},
		names:  NewRegistry(),
	}

	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			observability.Merge().OnRunComplete(ctx, runID, time.Since(start), err)
			return nil, err
		}

		inputStart := time.Now()
		observability.Merge().OnInputStart(ctx, in.File)
		err := r.fold(in)
		observability.Merge().OnInputComplete(ctx, in.File,
			len(in.Doc.Elements), len(in.Doc.Signals), time.Since(inputStart), err)
		if err != nil {
			observability.Merge().OnConflict(ctx, in.File, string(errors.GetCode(err)))
			observability.Merge().OnRunComplete(ctx, runID, time.Since(start), err)
			return nil, err
		}

		stats := InputStats{
			File:     in.File,
			Elements: len(in.Doc.Elements),
			Signals:  len(in.Doc.Signals),
			Duration: time.Since(inputStart),
		}
		r.perInput = append(r.perInput, stats)
		r.logger.Info("merged input",
			"file", in.File,
			"elements", stats.Elements,
			"signals", stats.Signals,
			"duration", stats.Duration)
	}

	r.out.DesignRules = r.rules

	result := &Result{
		RunID:    runID,
		Document: r.out,
		Renames:  r.renames,
		Stats: Stats{
			Inputs:    len(inputs),
			Libraries: len(r.out.Libraries),
			Elements:  len(r.out.Elements),
			Signals:   len(r.out.Signals),
			Duration:  time.Since(start),
			PerInput:  r.perInput,
		},
	}
	observability.Merge().OnRunComplete(ctx, runID, result.Stats.Duration, nil)
	return result, nil
}

// run holds the mutable state of one merge run. It is owned exclusively by
// the Merge call that created it.
type run struct {
	logger   *log.Logger
	out      *board.Document
	names    *Registry
	rules    *board.DesignRules
	renames  []Rename
	perInput []InputStats
}

// fold validates one input and appends it to the accumulating output.
func (r *run) fold(in Input) error {
	if err := errors.ValidateRotation(in.Placement.Rotation); err != nil {
		return err
	}
	if err := Gate(in.Doc, in.File); err != nil {
		return err
	}

	doc := Transform(in.Doc, in.Placement)

	if err := r.foldVersion(doc, in.File); err != nil {
		return err
	}

	rules, err := CheckRules(r.rules, doc.DesignRules, in.File)
	if err != nil {
		var mismatch *DesignRuleMismatchError
		if stderrors.As(err, &mismatch) {
			for _, p := range mismatch.Params {
				r.logger.Error("design rule mismatch",
					"file", in.File, "diff", FormatRuleDiff(r.rules, doc.DesignRules, p))
			}
		}
		return err
	}
	r.rules = rules

	if err := r.foldSections(doc, in.File); err != nil {
		return err
	}

	r.foldSettings(doc, in.File)
	r.foldLayers(doc)

	// Grid and autorouter configuration come from the first board that has
	// them; they carry no geometry.
	if r.out.Grid == nil {
		r.out.Grid = doc.Grid
	}
	if r.out.Autorouter == nil {
		r.out.Autorouter = doc.Autorouter
	}

	libs, err := MergeLibraries(r.out.Libraries, doc.Libraries, in.File)
	if err != nil {
		return err
	}
	r.out.Libraries = libs

	// Element names committed before signals: contact refs in this input
	// must follow any renames applied to its elements.
	elementRenames := r.foldElements(doc, in.File)
	r.foldSignals(doc, in.File, elementRenames)
	r.foldPlain(doc)
	return nil
}

func (r *run) foldVersion(doc *board.Document, file string) error {
	if r.out.Version == "" {
		r.out.Version = doc.Version
		return nil
	}
	if doc.Version != r.out.Version {
		return &SectionMismatchError{
			File:    file,
			Section: "version",
			Detail:  "have " + r.out.Version + ", incoming " + doc.Version,
		}
	}
	return nil
}

// foldSections reconciles the board-wide sections that have no meaningful
// merge: they either match exactly or the run aborts. An input without the
// section is accepted; the first input carrying it donates it.
func (r *run) foldSections(doc *board.Document, file string) error {
	if len(doc.Classes) > 0 {
		if len(r.out.Classes) == 0 {
			r.out.Classes = doc.Classes
		} else if !sectionEqual(r.out.Classes, doc.Classes) {
			return &SectionMismatchError{File: file, Section: "classes"}
		}
	}
	if len(doc.VariantDefs) > 0 {
		if len(r.out.VariantDefs) == 0 {
			r.out.VariantDefs = doc.VariantDefs
		} else if !sectionEqual(r.out.VariantDefs, doc.VariantDefs) {
			return &SectionMismatchError{File: file, Section: "variantdefs"}
		}
	}
	if len(doc.Attributes) > 0 {
		if len(r.out.Attributes) == 0 {
			r.out.Attributes = doc.Attributes
		} else if !sectionEqual(r.out.Attributes, doc.Attributes) {
			return &SectionMismatchError{File: file, Section: "attributes"}
		}
	}
	return nil
}

// sectionEqual deep-compares section entries without regard to the order the
// source files listed them in; entry order in these sections carries no
// meaning.
func sectionEqual[T any](a, b []T) bool {
	return reflect.DeepEqual(sortedCopy(a), sortedCopy(b))
}

// foldSettings merges editor settings by name. Conflicting values are the
// one merge difference that is warned about rather than fatal: settings
// affect the editor session, not the manufactured board.
func (r *run) foldSettings(doc *board.Document, file string) {
	for _, s := range doc.Settings {
		found := false
		for _, have := range r.out.Settings {
			if have.Name != s.Name {
				continue
			}
			found = true
			if have.Value != s.Value {
				r.logger.Warn("incompatible setting, keeping first",
					"file", file, "setting", s.Name,
					"have", have.Value, "incoming", s.Value)
			}
			break
		}
		if !found {
			r.out.Settings = append(r.out.Settings, s)
		}
	}
}

// foldLayers unions the layer tables by layer number. Differences in layer
// presentation (color, visibility) are ignored; the first definition wins.
func (r *run) foldLayers(doc *board.Document) {
	for _, layer := range doc.Layers {
		if _, ok := r.out.Layer(layer.Number); !ok {
			r.out.Layers = append(r.out.Layers, layer)
		}
	}
}

func (r *run) foldElements(doc *board.Document, file string) map[string]string {
	renamed := make(map[string]string)
	for _, el := range doc.Elements {
		final, changed := r.names.Elements.Reserve(el.Name)
		if changed {
			renamed[el.Name] = final
			r.renames = append(r.renames, Rename{File: file, Kind: "element", From: el.Name, To: final})
			r.logger.Debug("renamed element", "file", file, "from", el.Name, "to", final)
			overrideNameLabel(el, el.Name)
			el.Name = final
		}
		r.out.Elements = append(r.out.Elements, el)
	}
	return renamed
}

func (r *run) foldSignals(doc *board.Document, file string, elementRenames map[string]string) {
	for _, sig := range doc.Signals {
		for i := range sig.ContactRefs {
			if to, ok := elementRenames[sig.ContactRefs[i].Element]; ok {
				sig.ContactRefs[i].Element = to
			}
		}
		final, changed := r.names.Signals.Reserve(sig.Name)
		if changed {
			r.renames = append(r.renames, Rename{File: file, Kind: "signal", From: sig.Name, To: final})
			r.logger.Debug("renamed signal", "file", file, "from", sig.Name, "to", final)
			sig.Name = final
		}
		r.out.Signals = append(r.out.Signals, sig)
	}
}

func (r *run) foldPlain(doc *board.Document) {
	out := &r.out.Plain
	out.Wires = append(out.Wires, doc.Plain.Wires...)
	out.Texts = append(out.Texts, doc.Plain.Texts...)
	out.Dimensions = append(out.Dimensions, doc.Plain.Dimensions...)
	out.Circles = append(out.Circles, doc.Plain.Circles...)
	out.Rectangles = append(out.Rectangles, doc.Plain.Rectangles...)
	out.Frames = append(out.Frames, doc.Plain.Frames...)
	out.Holes = append(out.Holes, doc.Plain.Holes...)
	out.Polygons = append(out.Polygons, doc.Plain.Polygons...)
}

// overrideNameLabel keeps a renamed element's visible label showing its
// original name: the real NAME attribute is hidden and a NAME1 attribute
// carrying the old name as a fixed value is placed on top of it. The rename
// therefore affects only the uniqueness-bearing identifier, never what the
// board renders.
func overrideNameLabel(el *board.Element, oldName string) {
	nameAttr := el.Attribute("NAME")
	if nameAttr == nil {
		// No detached label; the element renders its (new) name directly
		// and there is nothing to preserve.
		return
	}
	label := *nameAttr
	label.Name = "NAME1"
	label.Value = oldName
	label.Display = ""
	nameAttr.Display = "off"
	el.Attributes = append(el.Attributes, label)
}
