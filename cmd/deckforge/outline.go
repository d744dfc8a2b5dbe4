package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fredcamaral/deckforge/internal/adapters/secondary/outlinefile"
	"github.com/fredcamaral/deckforge/internal/domain/entities"
)

// outlineCmd represents the outline command
var outlineCmd = &cobra.Command{
	Use:   "outline [text-file]",
	Short: "Print the slide outline for a text file",
	Long: `Ask the model for an outline and print it without building a deck.
The result can be edited and passed back with "generate --outline".

Example:
  deckforge outline notes.txt --format yaml > outline.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runOutline,
}

func init() {
	rootCmd.AddCommand(outlineCmd)

	outlineCmd.Flags().StringP("format", "f", "json", "Output format: json, yaml, markdown or html (preview only)")
	outlineCmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")
	addOutlineRequestFlags(outlineCmd)
}

func runOutline(cmd *cobra.Command, args []string) error {
	formatName, _ := cmd.Flags().GetString("format")
	format, err := outlinefile.ParseFormat(formatName)
	if err != nil {
		return err
	}
	codec, err := outlinefile.NewCodec(format)
	if err != nil {
		return err
	}

	text, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, entities.ConfigOverrides{})
	if err != nil {
		return err
	}
	application, err := newApp(cfg, nil)
	if err != nil {
		return err
	}
	defer application.logger.Sync()

	req := outlineRequest(cmd, text)
	outline, source, err := application.deck.Preview(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("%s", req.Credential.Scrub(err.Error()))
	}
	application.logger.Info("outline from %s: %d slides", source, len(outline))

	data, err := codec.Encode(outline)
	if err != nil {
		return fmt.Errorf("encoding outline: %w", err)
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(outputPath, data, 0o600); err != nil {
		return fmt.Errorf("writing outline: %w", err)
	}
	return nil
}
