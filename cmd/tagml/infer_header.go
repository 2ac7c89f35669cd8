package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"tagml/internal/driver"
)

var inferHeaderCmd = &cobra.Command{
	Use:   "infer-header [flags] <file>",
	Short: "Print a header for a TAGML body that has none",
	Long: `Infer-header reads a header-less TAGML body and prints an ontology header
declaring every element and attribute it uses`,
	Args: cobra.ExactArgs(1),
	RunE: runInferHeader,
}

func init() {
	inferHeaderCmd.Flags().Bool("with-body", false, "print the body after the header")
}

func runInferHeader(cmd *cobra.Command, args []string) error {
	path := args[0]
	withBody, err := cmd.Flags().GetBool("with-body")
	if err != nil {
		return fmt.Errorf("failed to get with-body flag: %w", err)
	}

	// #nosec G304 -- path comes from the command line
	body, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}
	hdr, err := driver.InferHeader(string(body))
	if err != nil {
		return errors.Wrap(err, path)
	}

	out := cmd.OutOrStdout()
	if withBody {
		_, err = fmt.Fprint(out, hdr+"\n"+string(body))
	} else {
		_, err = fmt.Fprintln(out, hdr)
	}
	return err
}
