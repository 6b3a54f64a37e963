package api

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/careerpilot/internal/errors"
	"github.com/diogo/careerpilot/internal/models"
)

// GenerateDocument requests a CV or cover letter for the job description
func (c *CopilotClient) GenerateDocument(kind models.DocumentKind, jobDescription string) (string, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return "", fmt.Errorf("job description cannot be empty")
	}

	path := kind.Path()
	body, err := c.postJSON(path, models.JobRequest{JobDescription: jobDescription})
	if err != nil {
		return "", err
	}

	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		return "", apierrors.NewParseError("response is not a JSON object", path)
	}

	content := gjson.GetBytes(body, "content")
	if content.Type != gjson.String {
		return "", fmt.Errorf("%w: %w", apierrors.ErrNoContent, apierrors.NewParseError("content must be a string", path))
	}

	return content.String(), nil
}

// pdfMagic is the signature every PDF starts with
var pdfMagic = []byte("%PDF")

// RenderPDF sends text to the PDF endpoint and returns the document bytes
func (c *CopilotClient) RenderPDF(text string) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("nothing to render")
	}

	data, err := c.postJSON(models.PathGeneratePDF, models.PDFRequest{Text: text})
	if err != nil {
		return nil, err
	}

	if !bytes.HasPrefix(data, pdfMagic) {
		return nil, apierrors.NewParseError("response is not a PDF document", models.PathGeneratePDF)
	}
	return data, nil
}
