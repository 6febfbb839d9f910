package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/FarhanLodi/EasyOcrSharp/internal/engine/tesseract"
	"github.com/FarhanLodi/EasyOcrSharp/internal/ocr"
)

// imageCmd represents the image command.
var imageCmd = &cobra.Command{
	Use:   "image [image file]",
	Short: "Extract text from an image",
	Long: `Extract text from a single image in one or more languages.

Languages are given as comma-separated EasyOCR-style codes (en, ja, ar,
hi, ch_sim, ...). Incompatible combinations are split into separate
engine runs automatically and the results merged.

Examples:
  easyocr image scan.png
  easyocr image receipt.jpg -l ja,en
  easyocr image page.png -l en,hi,ar --format json
  easyocr image scan.png --gpu off`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		languages := cfg.Languages
		if cmd.Flags().Changed("languages") {
			raw, _ := cmd.Flags().GetString("languages")
			languages = splitLanguages(raw)
		}

		format := cfg.Output.Format
		if cmd.Flags().Changed("format") {
			format, _ = cmd.Flags().GetString("format")
		}

		gpuMode := cfg.GPU.Mode
		if cmd.Flags().Changed("gpu") {
			gpuMode, _ = cmd.Flags().GetString("gpu")
		}

		outputFile := cfg.Output.File
		if cmd.Flags().Changed("output") {
			outputFile, _ = cmd.Flags().GetString("output")
		}

		service := ocr.NewService(ocr.Config{
			TessdataDir: cfg.TessdataDir,
			GPUMode:     gpuMode,
		}, &tesseract.Provider{TessdataDir: cfg.TessdataDir})
		defer func() { _ = service.Close() }()

		result, err := service.ExtractText(context.Background(), args[0], languages)
		if err != nil {
			return fmt.Errorf("extraction failed: %w", err)
		}

		output, err := formatResult(result, format, cfg.Output.ConfidencePrecision)
		if err != nil {
			return err
		}

		if outputFile != "" {
			if err := os.WriteFile(outputFile, []byte(output), 0o644); err != nil {
				return fmt.Errorf("write output file: %w", err)
			}
			return nil
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), output)
		return nil
	},
}

// splitLanguages parses a comma-separated code list.
func splitLanguages(raw string) []string {
	parts := strings.Split(raw, ",")
	languages := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			languages = append(languages, p)
		}
	}
	return languages
}

// formatResult renders an extraction result as text or JSON.
func formatResult(result *ocr.Result, format string, precision int) (string, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode result: %w", err)
		}
		return string(data), nil
	case "text", "":
		var b strings.Builder
		b.WriteString(result.FullText)
		if len(result.Lines) > 0 {
			b.WriteString("\n\n")
			for i, line := range result.Lines {
				b.WriteString(fmt.Sprintf("#%d conf=%.*f box=(%.0f,%.0f %.0fx%.0f) text=%q\n",
					i+1, precision, line.Confidence,
					line.Box.MinX, line.Box.MinY, line.Box.Width(), line.Box.Height(),
					line.Text))
			}
		}
		return strings.TrimRight(b.String(), "\n"), nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
}

func init() {
	rootCmd.AddCommand(imageCmd)
	imageCmd.Flags().StringP("languages", "l", "en", "comma-separated language codes (e.g., en,ja,ar)")
	imageCmd.Flags().StringP("format", "f", "text", "output format: text or json")
	imageCmd.Flags().StringP("output", "o", "", "write output to file instead of stdout")
	imageCmd.Flags().String("gpu", ocr.GPUAuto, "GPU mode: auto, on, or off")
}
