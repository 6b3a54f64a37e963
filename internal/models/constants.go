// Package models contains data types and constants for the career co-pilot API.
package models

// DefaultBaseURL is where the co-pilot API listens unless configured otherwise
const DefaultBaseURL = "http://localhost:8000"

// Endpoint paths, relative to the base URL
const (
	PathChat                = "/api/chat"
	PathGenerateCV          = "/api/generate-cv"
	PathGenerateCoverLetter = "/api/generate-cover-letter"
	PathGeneratePDF         = "/generate_pdf"
	PathHealth              = "/health"
)

// Fixed filenames used when materializing downloads
const (
	TextDownloadName = "AI_Co-pilot_Document.txt"
	PDFDownloadName  = "document.pdf"
)

// DefaultHeaders returns the headers sent with every JSON request
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
		"User-Agent":   "careerpilot/1.0",
	}
}
