package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tagml/internal/diagfmt"
	"tagml/internal/driver"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens [flags] <file.tagml>",
	Short: "Print the token stream of a TAGML document",
	Long:  `Tokens validates a TAGML document and prints the markup and text tokens it produced`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokens,
}

func init() {
	tokensCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokens(cmd *cobra.Command, args []string) error {
	path := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return unknownFormat(format, "pretty|json")
	}
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	// диагностики всегда в pretty-виде, в stderr
	s.Format = "pretty"

	opts := s.driverOptions(cmd)
	res, err := driver.ParseFile(path, opts)
	if err != nil {
		return err
	}
	if err := printDiagnostics(os.Stderr, res, s, ""); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		err = diagfmt.FormatTokensJSON(out, res.Tokens)
	default:
		err = diagfmt.FormatTokensPretty(out, res.Tokens)
	}
	if err != nil {
		return err
	}
	if opts.Timer != nil {
		fmt.Fprint(os.Stderr, opts.Timer.Summary())
	}
	if !res.OK() {
		return fail(cmd)
	}
	return nil
}
