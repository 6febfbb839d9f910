package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/FarhanLodi/EasyOcrSharp/internal/language"
	"github.com/FarhanLodi/EasyOcrSharp/internal/models"
)

// languageListing is the serializable shape of the languages command output.
type languageListing struct {
	Languages []languageEntry `yaml:"languages" json:"languages"`
	Plan      []planEntry     `yaml:"plan,omitempty" json:"plan,omitempty"`
	Dropped   []string        `yaml:"dropped,omitempty" json:"dropped,omitempty"`
}

type languageEntry struct {
	Code        string `yaml:"code" json:"code"`
	Traineddata string `yaml:"traineddata" json:"traineddata"`
}

type planEntry struct {
	Languages []string `yaml:"languages" json:"languages"`
}

// languagesCmd represents the languages command.
var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported languages and preview grouping",
	Long: `List the supported language codes and their Tesseract traineddata names.

With --plan, show how a requested language set would be split into
engine-compatible groups.

Examples:
  easyocr languages
  easyocr languages --format yaml
  easyocr languages --plan en,hi,ar`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		planRaw, _ := cmd.Flags().GetString("plan")

		listing := languageListing{}
		for _, code := range models.SupportedLanguages() {
			name, err := models.TraineddataName(code)
			if err != nil {
				continue
			}
			listing.Languages = append(listing.Languages, languageEntry{Code: code, Traineddata: name})
		}

		if planRaw != "" {
			requested := splitLanguages(planRaw)
			for _, group := range language.PlanGroups(requested) {
				fixed, dropped := language.FixDependencies(group.Languages)
				listing.Plan = append(listing.Plan, planEntry{Languages: fixed})
				listing.Dropped = append(listing.Dropped, dropped...)
			}
		}

		switch format {
		case "yaml":
			data, err := yaml.Marshal(listing)
			if err != nil {
				return fmt.Errorf("encode listing: %w", err)
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), string(data))
		case "text", "":
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Supported languages (%d):\n", len(listing.Languages))
			for _, e := range listing.Languages {
				_, _ = fmt.Fprintf(out, "  %-8s -> %s\n", e.Code, e.Traineddata)
			}
			if len(listing.Plan) > 0 {
				_, _ = fmt.Fprintf(out, "\nPlanned groups for %s:\n", planRaw)
				for i, g := range listing.Plan {
					_, _ = fmt.Fprintf(out, "  group %d: %s\n", i+1, strings.Join(g.Languages, ", "))
				}
				if len(listing.Dropped) > 0 {
					_, _ = fmt.Fprintf(out, "  dropped: %s\n", strings.Join(listing.Dropped, ", "))
				}
			}
		default:
			return fmt.Errorf("unsupported output format: %s", format)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)
	languagesCmd.Flags().StringP("format", "f", "text", "output format: text or yaml")
	languagesCmd.Flags().String("plan", "", "comma-separated language codes to preview grouping for")
}
