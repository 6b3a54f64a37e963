package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/careerpilot/internal/config"
	"github.com/diogo/careerpilot/internal/export"
)

// NewPDFCmd creates the pdf command
func NewPDFCmd(deps *Dependencies) *cobra.Command {
	var (
		file   string
		output string
	)

	cmd := &cobra.Command{
		Use:   "pdf [text]",
		Short: "Render text to PDF through the co-pilot API",
		Long: `Send text (markdown is fine) to the API's PDF renderer and save the result.

Without --output the file is saved as document.pdf in the download
directory, gaining a " (n)" suffix instead of overwriting.`,
		Example: `  careerpilot pdf -f cv.md -o cv.pdf
  careerpilot generate cv -j job.txt --raw | careerpilot pdf`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(deps.In, file, args)
			if err != nil {
				return fmt.Errorf("failed to read text: %w", err)
			}
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("text cannot be empty")
			}
			return renderPDF(deps, text, output)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the text from file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Where to save the PDF")
	return cmd
}

// renderPDF asks the API for a PDF of text and saves it to path, or to
// the download directory when path is empty.
func renderPDF(deps *Dependencies, text, path string) error {
	cfg, client, err := deps.client()
	if err != nil {
		return err
	}
	defer client.Close()

	spin := newSpinner(deps.Err, "Rendering PDF")
	spin.start()
	data, err := client.RenderPDF(text)
	if err != nil {
		spin.stopWithError()
		fmt.Fprintln(deps.Err, formatErrorMessage(err, "PDF rendering failed"))
		return fmt.Errorf("failed to render PDF: %w", err)
	}
	spin.stopWithSuccess("PDF rendered")

	var saved string
	if path != "" {
		saved, err = export.WriteFile(path, data)
	} else {
		var dir string
		dir, err = config.GetDownloadDir(cfg)
		if err == nil {
			saved, err = export.SavePDF(dir, data)
		}
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(deps.Err, successStyle.Render("✓ PDF saved to "+saved))
	return nil
}
