package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/boardworks/panelize/pkg/board"
	"github.com/boardworks/panelize/pkg/board/eagle"
)

// inspectCommand creates the inspect command for summarizing a board file.
func (c *CLI) inspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <board.brd>",
		Short: "Print a summary of an Eagle board file",
		Long: `Print a summary of an Eagle board file: schema version, layers,
libraries and their packages, element and signal counts, and any constructs
outside the supported schema subset. Useful for checking whether a board
will merge before building a panel from it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := eagle.DecodeFile(args[0])
			if err != nil {
				return err
			}
			printSummary(os.Stdout, args[0], doc)
			return nil
		},
	}
	return cmd
}

// printSummary writes a human-readable board summary to w.
func printSummary(w io.Writer, file string, doc *board.Document) {
	fmt.Fprintf(w, "%s\n", file)
	fmt.Fprintf(w, "  version:  %s\n", doc.Version)
	fmt.Fprintf(w, "  layers:   %d\n", len(doc.Layers))
	fmt.Fprintf(w, "  elements: %d\n", len(doc.Elements))
	fmt.Fprintf(w, "  signals:  %d\n", len(doc.Signals))

	fmt.Fprintf(w, "  libraries: %d\n", len(doc.Libraries))
	for _, lib := range doc.Libraries {
		fmt.Fprintf(w, "    %s (%d packages)\n", lib.Name, len(lib.Packages))
	}

	if doc.DesignRules != nil {
		fmt.Fprintf(w, "  design rules: %s (%d parameters)\n",
			doc.DesignRules.Name, len(doc.DesignRules.Params))
	} else {
		fmt.Fprintf(w, "  design rules: none\n")
	}

	if len(doc.Unknown) > 0 {
		fmt.Fprintf(w, "  unsupported constructs: %d\n", len(doc.Unknown))
		for _, u := range doc.Unknown {
			fmt.Fprintf(w, "    %s at %s\n", u.Construct, u.Path)
		}
	}
}
