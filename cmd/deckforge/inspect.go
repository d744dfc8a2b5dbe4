package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fredcamaral/deckforge/internal/domain/entities"
	"github.com/fredcamaral/deckforge/internal/domain/ports"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect [template]",
	Short: "List the layouts and placeholders of a template",
	Long: `Show how deckforge sees a template: its slide count, the layouts of
the first slide master and which one receives generated content.

Example:
  deckforge inspect brand.potx
  deckforge inspect brand.pptx --json`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().Bool("json", false, "Print JSON")
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, entities.ConfigOverrides{})
	if err != nil {
		return err
	}
	application, err := newApp(cfg, nil)
	if err != nil {
		return err
	}
	defer application.logger.Sync()

	info, err := application.assembler.Inspect(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}
	return printTemplateInfo(cmd.OutOrStdout(), info)
}

// printTemplateInfo renders one line per layout, marking the content layout
func printTemplateInfo(out io.Writer, info *ports.TemplateInfo) error {
	fmt.Fprintf(out, "Slides: %d\n", info.SlideCount)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tINDEX\tLAYOUT\tPLACEHOLDERS")
	for _, layout := range info.Layouts {
		marker := ""
		if layout.Index == info.ContentLayout {
			marker = "*"
		}

		kinds := make([]string, 0, len(layout.Placeholders))
		for _, ph := range layout.Placeholders {
			if ph.IsFurniture() {
				continue
			}
			kinds = append(kinds, ph.Kind.String())
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", marker, layout.Index, layout.Name, strings.Join(kinds, ", "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out, "* receives generated content")
	return nil
}
