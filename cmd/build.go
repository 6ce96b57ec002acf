package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/agentic-research/semtree/internal/ingest"
	"github.com/agentic-research/semtree/internal/store"
	"github.com/spf13/cobra"
)

var (
	buildJSONPath string
	runID         string
)

func init() {
	addSelectFlag(buildCmd)
	buildCmd.Flags().StringVar(&buildJSONPath, "json-path", ingest.DefaultJSONPath, "JSONPath selecting MathML strings in .json and .db sources")
	buildCmd.Flags().StringVar(&runID, "run-id", "", "Run id recorded with every formula (random when empty)")
	rootCmd.AddCommand(buildCmd)
}

var buildCmd = &cobra.Command{
	Use:   "build [source] [output.db]",
	Short: "Build a formula database from a file or directory",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := args[0]
		output := args[1]

		_ = os.Remove(output) // Overwrite
		writer, err := store.NewWriter(output)
		if err != nil {
			return err
		}

		engine := ingest.NewEngine(writer, ingest.Config{
			Selector: selector,
			JSONPath: buildJSONPath,
			RunID:    runID,
			Logger:   slog.Default(),
		})

		start := time.Now()
		fmt.Fprintf(cmd.ErrOrStderr(), "Building %s from %s...\n", output, source)
		if err := engine.Ingest(source); err != nil {
			_ = writer.Close()
			return err
		}
		if err := writer.Close(); err != nil {
			return err
		}
		st := engine.Stats()
		fmt.Fprintf(cmd.ErrOrStderr(), "Done in %v: %d files, %d formulas, %d skipped (run %s).\n",
			time.Since(start), st.Files, st.Formulas, st.Skipped, engine.RunID())
		return nil
	},
}
