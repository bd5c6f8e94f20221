// Copyright crimson206, 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crimson206/nbdigest/internal/parse"
	"github.com/crimson206/nbdigest/pkg/types"
)

var parseCmd = &cobra.Command{
	Use:   "parse [notebooks...]",
	Short: "Extract title/output entries from notebooks to JSON",
	Long: `Parse reads .ipynb files and extracts one {title, output} entry per
code cell that opens with a docstring title and produced text output.
Results are written as pretty-printed JSON next to each notebook, or
under --parsed-dir.

With --batch, every notebook in --notebooks-dir is processed and
notebooks whose output is already up to date are skipped.`,
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("output", "", "output path (single notebook only; default derived from the source name)")
	parseCmd.Flags().Bool("remove-source", false, "delete each source notebook after a successful parse")
	parseCmd.Flags().Bool("batch", false, "process all notebooks in the notebooks directory")
	parseCmd.Flags().String("notebooks-dir", "", `directory scanned in batch mode (default "notebooks")`)
	parseCmd.Flags().String("parsed-dir", "", "directory for parsed JSON (default: next to each source)")

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	removeSource, _ := cmd.Flags().GetBool("remove-source")
	batch, _ := cmd.Flags().GetBool("batch")
	output, _ := cmd.Flags().GetString("output")

	cfg := types.ParseConfig{
		NotebooksDir: setting(cmd, "notebooks-dir", "parse.notebooks_dir", "notebooks"),
		ParsedDir:    setting(cmd, "parsed-dir", "parse.parsed_dir", ""),
		RemoveSource: removeSource,
	}

	if batch {
		if len(args) > 0 {
			return fmt.Errorf("--batch processes the notebooks directory; do not pass paths")
		}
		result, err := parse.Dir(cfg, os.Stdout)
		if err != nil {
			return err
		}
		if result.HasFailures() {
			return fmt.Errorf("%d notebook(s) failed parsing", result.Failed)
		}
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("provide one or more notebook paths, or use --batch")
	}

	if output != "" {
		if len(args) > 1 {
			return fmt.Errorf("--output applies to a single notebook")
		}
		_, err := parse.Save(args[0], output, removeSource, os.Stdout)
		return err
	}

	result := parse.Batch(args, cfg, os.Stdout)
	if result.HasFailures() {
		return fmt.Errorf("%d notebook(s) failed parsing", result.Failed)
	}
	return nil
}
