package cmd

import (
	"fmt"
	"log/slog"

	"github.com/agentic-research/semtree/internal/aural"
	"github.com/agentic-research/semtree/internal/builder"
	"github.com/agentic-research/semtree/internal/enrich"
	"github.com/agentic-research/semtree/internal/rebuild"
	"github.com/agentic-research/semtree/internal/semantic"
	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"
)

var (
	jsonPath string
	indent   int
	renderer string
)

func init() {
	for _, c := range []*cobra.Command{parseCmd, enrichCmd, rebuildCmd, speakCmd} {
		addSelectFlag(c)
		rootCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{parseCmd, rebuildCmd} {
		c.Flags().StringVar(&jsonPath, "json", "", "JSONPath over the tree; prints the matching nodes")
		c.Flags().IntVar(&indent, "indent", 0, "JSON indentation")
	}
	speakCmd.Flags().StringVarP(&renderer, "renderer", "r", "plain", "Output markup (plain, acss, ssml)")
}

var parseCmd = &cobra.Command{
	Use:   "parse [file|-]",
	Short: "Build the semantic tree of every math element",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		els, err := readMath(cmd, args[0])
		if err != nil {
			return err
		}
		b := builder.New(builder.Config{Logger: slog.Default()})
		for _, el := range els {
			if err := printTree(cmd, b.Build(el)); err != nil {
				return err
			}
		}
		return nil
	},
}

var enrichCmd = &cobra.Command{
	Use:   "enrich [file|-]",
	Short: "Print annotated MathML for every math element",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		els, err := readMath(cmd, args[0])
		if err != nil {
			return err
		}
		b := builder.New(builder.Config{Logger: slog.Default()})
		for _, el := range els {
			fmt.Fprintln(cmd.OutOrStdout(), enrich.Enrich(b.Build(el)).XML())
		}
		return nil
	},
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild [file|-]",
	Short: "Recover semantic trees from annotated MathML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		els, err := readMath(cmd, args[0])
		if err != nil {
			return err
		}
		rb := rebuild.New(slog.Default())
		for _, el := range els {
			tree := rb.Rebuild(el)
			if err := tree.Validate(); err != nil {
				slog.Warn("inconsistent tree", "error", err)
			}
			if err := printTree(cmd, tree); err != nil {
				return err
			}
		}
		return nil
	},
}

var speakCmd = &cobra.Command{
	Use:   "speak [file|-]",
	Short: "Describe every math element for speech output",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := rendererFor(renderer)
		if err != nil {
			return err
		}
		els, err := readMath(cmd, args[0])
		if err != nil {
			return err
		}
		b := builder.New(builder.Config{Logger: slog.Default()})
		ev := aural.NewLiteral()
		for _, el := range els {
			fmt.Fprintln(cmd.OutOrStdout(), r.Markup(aural.Describe(b.Build(el), ev)))
		}
		return nil
	},
}

func rendererFor(name string) (aural.Renderer, error) {
	switch name {
	case "plain":
		return aural.PlainRenderer{}, nil
	case "acss":
		return aural.ACSSRenderer{}, nil
	case "ssml":
		return aural.SSMLRenderer{}, nil
	}
	return nil, fmt.Errorf("unknown renderer %q", name)
}

// printTree writes the tree, or the nodes matching --json, one JSON
// document per line.
func printTree(cmd *cobra.Command, t *semantic.Tree) error {
	out := cmd.OutOrStdout()
	if jsonPath == "" {
		fmt.Fprintln(out, t.JSON(indent))
		return nil
	}
	nodes, err := t.Select(jsonPath)
	if err != nil {
		return err
	}
	opts := &oj.Options{Sort: true, Indent: indent}
	for _, n := range nodes {
		fmt.Fprintln(out, oj.JSON(t.Data(n.ID), opts))
	}
	return nil
}
