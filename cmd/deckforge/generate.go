package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fredcamaral/deckforge/internal/adapters/secondary/outlinefile"
	"github.com/fredcamaral/deckforge/internal/domain/entities"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate [text-file]",
	Short: "Generate a deck from a text file and a template",
	Long: `Generate a deck offline. The text is read from the file argument, or from
stdin when it is "-". With --outline an existing outline file (.json, .yaml
or .md) is used instead of calling the model.

Example:
  deckforge generate notes.txt --template brand.potx --output deck.pptx
  deckforge generate --outline outline.md --template brand.pptx`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringP("template", "t", "", "Template file (.pptx or .potx)")
	generateCmd.Flags().StringP("output", "o", "generated_presentation.pptx", "Output file")
	generateCmd.Flags().String("outline", "", "Use an existing outline file instead of the model")
	addOutlineRequestFlags(generateCmd)
	_ = generateCmd.MarkFlagRequired("template")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	templatePath, _ := cmd.Flags().GetString("template")
	outputPath, _ := cmd.Flags().GetString("output")
	outlinePath, _ := cmd.Flags().GetString("outline")

	if outlinePath == "" && len(args) == 0 {
		return fmt.Errorf("a text file argument or --outline is required")
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

	var (
		outline entities.Outline
		source  entities.OutlineSource
	)
	if outlinePath != "" {
		outline, err = outlinefile.Load(outlinePath)
		if err != nil {
			return err
		}
		source = entities.SourceFile
	} else {
		text, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}
		req := outlineRequest(cmd, text)
		outline, source, err = application.deck.Preview(ctx, req)
		if err != nil {
			return fmt.Errorf("%s", req.Credential.Scrub(err.Error()))
		}
	}

	summary, err := application.deck.Build(ctx, outline, templatePath, outputPath)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s: %d slides (%s outline, layout %s)\n",
		summary.OutputPath, summary.SlideCount, source, summary.ContentLayout)
	if summary.DroppedContents > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Note: the content layout has no body placeholder; bullets of %d slides were dropped\n",
			summary.DroppedContents)
	}
	return nil
}
