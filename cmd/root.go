package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/agentic-research/semtree/internal/logging"
	"github.com/agentic-research/semtree/internal/mathml"
	"github.com/spf13/cobra"
)

var (
	logLevel  string
	logFormat string
	selector  string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
}

var rootCmd = &cobra.Command{
	Use:           "semtree",
	Short:         "semtree: semantic trees for presentation MathML",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_, err := logging.Init(cmd.ErrOrStderr(), logLevel, logFormat)
		return err
	},
}

// addSelectFlag registers --select on commands that read markup.
func addSelectFlag(c *cobra.Command) {
	c.Flags().StringVar(&selector, "select", mathml.DefaultSelector, "XPath selecting the math elements")
}

// readMath parses the math elements of a file, or of standard input when
// path is "-".
func readMath(cmd *cobra.Command, path string) ([]*mathml.Element, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		r = f
	}
	els, err := mathml.Parse(r, selector)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, fmt.Errorf("no math element matches %q in %s", selector, path)
	}
	return els, nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
