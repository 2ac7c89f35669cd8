package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"tagml/internal/version"
)

const versionTagline = "overlapping markup, validated"

// versionPayload is the JSON form of `tagml version`.
type versionPayload struct {
	Tool    string `json:"tool"`
	Tagline string `json:"tagline"`
	version.Info
}

var versionFormat string

func init() {
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show tagml build information",
	RunE: func(cmd *cobra.Command, args []string) error {
		colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
		if err != nil {
			return fmt.Errorf("failed to get color flag: %w", err)
		}
		mode, err := readColorMode(colorFlag)
		if err != nil {
			return err
		}
		applyColorMode(mode)

		switch strings.ToLower(versionFormat) {
		case "json":
			return renderVersionJSON(cmd.OutOrStdout(), version.Current())
		case "pretty":
			renderVersionPretty(cmd.OutOrStdout(), version.Current())
			return nil
		}
		return unknownFormat(versionFormat, "pretty|json")
	},
}

func renderVersionPretty(out io.Writer, info version.Info) {
	fmt.Fprintf(out, "tagml %s: %s\n", version.Colored(), versionTagline)
	if info.GitCommit != "" {
		fmt.Fprintf(out, "commit: %s\n", info.GitCommit)
	}
	if info.BuildDate != "" {
		fmt.Fprintf(out, "built:  %s\n", info.BuildDate)
	}
}

func renderVersionJSON(out io.Writer, info version.Info) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(versionPayload{Tool: "tagml", Tagline: versionTagline, Info: info})
}
