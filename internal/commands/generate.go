package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/careerpilot/internal/copilot"
	"github.com/diogo/careerpilot/internal/export"
	"github.com/diogo/careerpilot/internal/models"
	"github.com/diogo/careerpilot/internal/render"
)

// errNoInput is returned when no text was given and stdin is a terminal
var errNoInput = errors.New("no input: pass it as an argument, with a file flag, or on stdin")

// NewGenerateCmd creates the generate command
func NewGenerateCmd(deps *Dependencies) *cobra.Command {
	var (
		jobFile string
		output  string
		pdfOut  string
		copyOut bool
		raw     bool
	)

	cmd := &cobra.Command{
		Use:   "generate <cv|cover-letter> [job description]",
		Short: "Generate a CV or cover letter for a job description",
		Long: `Generate a CV or cover letter tailored to a job description, using the
profile built with 'careerpilot chat'.

The job description is read from the argument, from --job-file, or from stdin.`,
		Example: `  careerpilot generate cv -j job.txt
  careerpilot generate cover-letter "Senior Go engineer, remote" --copy
  cat job.txt | careerpilot generate cv -o cv.md --pdf cv.pdf`,
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: []string{string(models.KindCV), string(models.KindCoverLetter)},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := models.ParseDocumentKind(args[0])
			if err != nil {
				return err
			}
			jobDescription, err := readInput(deps.In, jobFile, args[1:])
			if err != nil {
				return fmt.Errorf("failed to read job description: %w", err)
			}
			return runGenerate(deps, kind, jobDescription, generateOutput{
				path:    output,
				pdfPath: pdfOut,
				copy:    copyOut,
				raw:     raw,
			})
		},
	}

	cmd.Flags().StringVarP(&jobFile, "job-file", "j", "", "Read the job description from file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Save the document text to file")
	cmd.Flags().StringVar(&pdfOut, "pdf", "", "Also render the document to this PDF file")
	cmd.Flags().BoolVar(&copyOut, "copy", false, "Copy the document to the clipboard (default from config)")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the document without markdown rendering")
	return cmd
}

// generateOutput says where a generated document goes
type generateOutput struct {
	path    string
	pdfPath string
	copy    bool
	raw     bool
}

func runGenerate(deps *Dependencies, kind models.DocumentKind, jobDescription string, out generateOutput) error {
	cfg, client, err := deps.client()
	if err != nil {
		return err
	}
	defer client.Close()

	gen := copilot.NewGenerator(client)
	if !gen.CanGenerate(jobDescription) {
		return copilot.ErrEmptyJobDescription
	}

	spin := newSpinner(deps.Err, fmt.Sprintf("Writing your %s", kind.Label()))
	spin.start()
	doc, err := gen.Generate(kind, jobDescription)
	if err != nil {
		spin.stopWithError()
		return err
	}
	if doc.Failed {
		spin.stopWithError()
		fmt.Fprintln(deps.Err, formatErrorMessage(doc.Cause, doc.Content))
		return fmt.Errorf("failed to generate %s: %w", kind.Label(), doc.Cause)
	}
	spin.stopWithSuccess(fmt.Sprintf("%s ready", kind.Label()))

	if out.copy || cfg.CopyToClipboard {
		if err := deps.Clipboard(doc.Content); err != nil {
			fmt.Fprintln(deps.Err, warnStyle.Render(fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err)))
		} else {
			fmt.Fprintln(deps.Err, successStyle.Render("✓ Copied to clipboard"))
		}
	}

	if out.pdfPath != "" {
		if err := renderPDF(deps, doc.Content, out.pdfPath); err != nil {
			return err
		}
	}

	if out.path != "" {
		path, err := export.WriteFile(out.path, []byte(doc.Content))
		if err != nil {
			return err
		}
		fmt.Fprintln(deps.Err, successStyle.Render(fmt.Sprintf("✓ %s saved to %s", kind.Label(), path)))
		return nil
	}

	printDocument(deps.Out, kind.Label(), doc.Content, render.OptionsFromConfig(cfg), out.raw)
	return nil
}

// readInput returns the text from file, then args, then a non-terminal stdin
func readInput(in io.Reader, file string, args []string) (string, error) {
	switch {
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), nil
	case len(args) > 0:
		return strings.Join(args, " "), nil
	case in != nil && !isTerminal(in):
		data, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	default:
		return "", errNoInput
	}
}
