package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/enhance"
	"github.com/jonathan/resume-builder/internal/importer"
	"github.com/jonathan/resume-builder/internal/linkedin"
	"github.com/jonathan/resume-builder/internal/monitor"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/spf13/cobra"
)

var (
	extractPDF     string
	extractURL     string
	extractEnhance bool
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract a LinkedIn profile from a PDF export or public URL",
	Long: `Run the profile extraction pipeline and print what was found.
With --enhance the profile is also sent to the model and mapped to a resume draft.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractPDF, "pdf", "", "Path to a LinkedIn PDF export")
	extractCmd.Flags().StringVar(&extractURL, "url", "", "Public LinkedIn profile URL")
	extractCmd.Flags().BoolVar(&extractEnhance, "enhance", false, "Enhance the profile with the model and show the import preview")
	extractCmd.MarkFlagsMutuallyExclusive("pdf", "url")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var profile *types.ExtractedProfile
	switch {
	case extractPDF != "":
		data, readErr := os.ReadFile(extractPDF)
		if readErr != nil {
			return fmt.Errorf("failed to read %s: %w", extractPDF, readErr)
		}
		profile, err = linkedin.ExtractFromPDF(data)
	case extractURL != "":
		if err := linkedin.ValidateProfileURL(extractURL); err != nil {
			return err
		}
		profile, err = linkedin.NewScraper(newBrowser(cfg)).Scrape(ctx, extractURL)
	default:
		return errors.New("one of --pdf or --url is required")
	}
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	printer.PrintExtractedProfile(profile)
	if !extractEnhance {
		return nil
	}

	client, err := newModelClient(ctx, cfg)
	if err != nil {
		return err
	}
	enhanced := enhance.Fallback(*profile)
	if client != nil {
		defer client.Close()
		enhanced = enhance.NewEnhancer(client, monitor.New(), cfg.ModelTimeout()).Enhance(ctx, *profile)
	}
	printer.PrintEnhancedProfile(&enhanced)

	preview := importer.BuildPreview(*profile, enhanced)
	printer.PrintImportPreview(&preview)
	return nil
}
