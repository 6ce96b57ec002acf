package cmd

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/agentic-research/semtree/internal/store"
	"github.com/spf13/cobra"
)

var (
	queryType       string
	queryRole       string
	queryID         string
	queryDuplicates bool
	queryCount      bool
)

func init() {
	queryCmd.Flags().StringVar(&queryType, "type", "", "List formulas containing a node of this type")
	queryCmd.Flags().StringVar(&queryRole, "role", "", "Restrict --type to nodes of this role")
	queryCmd.Flags().StringVar(&queryID, "id", "", "Print the rebuilt tree of one formula")
	queryCmd.Flags().BoolVar(&queryDuplicates, "duplicates", false, "Group formulas with identical markup")
	queryCmd.Flags().BoolVar(&queryCount, "count", false, "Count formulas per run")
	queryCmd.Flags().IntVar(&indent, "indent", 0, "JSON indentation")
	queryCmd.MarkFlagsMutuallyExclusive("type", "id", "duplicates", "count")
	rootCmd.AddCommand(queryCmd)
}

var queryCmd = &cobra.Command{
	Use:   "query [db]",
	Short: "Query a formula database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := store.Open(args[0])
		if err != nil {
			return err
		}
		defer func() { _ = r.Close() }()

		out := cmd.OutOrStdout()
		switch {
		case queryID != "":
			tree, err := r.Tree(queryID)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, tree.JSON(indent))
		case queryType != "":
			ids, err := r.WithNode(queryType, queryRole)
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(out, id)
			}
		case queryDuplicates:
			dups, err := r.Duplicates()
			if err != nil {
				return err
			}
			for _, digest := range slices.Sorted(maps.Keys(dups)) {
				ids := slices.Sorted(slices.Values(dups[digest]))
				fmt.Fprintf(out, "%s\t%s\n", digest, strings.Join(ids, " "))
			}
		case queryCount:
			counts, err := r.Count()
			if err != nil {
				return err
			}
			for _, run := range slices.Sorted(maps.Keys(counts)) {
				fmt.Fprintf(out, "%s\t%d\n", run, counts[run])
			}
		default:
			return r.Each(func(f *store.Formula) error {
				_, err := fmt.Fprintf(out, "%s\t%s\t%s\n", f.ID, f.Digest, strings.Join(f.Skeletons, " "))
				return err
			})
		}
		return nil
	},
}
