package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/boardworks/panelize/pkg/board/eagle"
	"github.com/boardworks/panelize/pkg/errors"
	"github.com/boardworks/panelize/pkg/merge"
)

// mergeCommand creates the merge command, the main entry point of the tool.
func (c *CLI) mergeCommand() *cobra.Command {
	var (
		layoutPath string
		reportPath string
	)

	cmd := &cobra.Command{
		Use:   "merge <output.brd> [input.brd [-x <off>] [-y <off>] [-r <deg>]]...",
		Short: "Merge Eagle board files into a panel",
		Long: `Merge Eagle board files into a single panel.

Each input file may be followed by its own placement flags: -x/--offx and
-y/--offy translate the board (values need a mm, mil or in suffix), and
-r/--rotation rotates it counter-clockwise by 0, 90, 180 or 270 degrees.
Placement flags bind to the input file they follow.

Examples:
  panelize merge panel.brd power.brd logic.brd -x 50mm -r 90
  panelize merge panel.brd a.brd b.brd -x 2in -y 500mil
  panelize merge --layout panel.toml panel.brd

The merge is strict: same-named libraries must be structurally identical,
design rules must match exactly, and any construct outside the supported
schema subset aborts the run. On failure no output file is written.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			specs, err := mergeSpecs(layoutPath, args[1:])
			if err != nil {
				return err
			}
			return c.runMerge(cmd.Context(), args[0], specs, reportPath)
		},
	}

	// Placement flags are parsed by hand so they can repeat per input;
	// cobra must stop at the first positional argument.
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().StringVarP(&layoutPath, "layout", "l", "", "read inputs and placements from a TOML or YAML layout file")
	cmd.Flags().StringVar(&reportPath, "report", "", "write a JSON merge report (stats and renames)")

	return cmd
}

// mergeSpecs resolves the input list from either a layout file or the
// positional argument groups; the two forms are mutually exclusive.
func mergeSpecs(layoutPath string, args []string) ([]inputSpec, error) {
	if layoutPath != "" {
		if len(args) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"--layout and command-line input files are mutually exclusive")
		}
		return loadLayout(layoutPath)
	}
	return parseInputSpecs(args)
}

// runMerge decodes the inputs, merges them, and writes the output document.
// The output file is created only after the whole merge has succeeded.
func (c *CLI) runMerge(ctx context.Context, output string, specs []inputSpec, reportPath string) error {
	prog := newProgress(c.Logger)

	inputs := make([]merge.Input, 0, len(specs))
	for _, spec := range specs {
		doc, err := eagle.DecodeFile(spec.File)
		if err != nil {
			return err
		}
		c.Logger.Debug("decoded input",
			"file", spec.File,
			"elements", len(doc.Elements),
			"signals", len(doc.Signals))
		inputs = append(inputs, merge.Input{File: spec.File, Doc: doc, Placement: spec.Placement})
	}

	result, err := c.newMerger().Merge(ctx, inputs)
	if err != nil {
		return err
	}

	if err := eagle.EncodeFile(result.Document, output); err != nil {
		return err
	}

	for _, r := range result.Renames {
		c.Logger.Info("renamed to avoid collision",
			"file", r.File, "kind", r.Kind, "from", r.From, "to", r.To)
	}
	prog.done(fmt.Sprintf("Merged %d boards into %s", len(inputs), output))

	if reportPath != "" {
		if err := writeReport(reportPath, result); err != nil {
			return err
		}
		c.Logger.Info("wrote merge report", "file", reportPath)
	}
	return nil
}

// writeReport writes the run's stats and rename map as indented JSON.
func writeReport(path string, result *merge.Result) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode merge report")
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write merge report %s", path)
	}
	return nil
}
