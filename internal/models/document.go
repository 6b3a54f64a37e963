package models

import "fmt"

// DocumentKind selects which document the generation endpoints produce
type DocumentKind string

const (
	KindCV          DocumentKind = "cv"
	KindCoverLetter DocumentKind = "cover-letter"
)

// Path returns the endpoint path that generates this kind
func (k DocumentKind) Path() string {
	switch k {
	case KindCoverLetter:
		return PathGenerateCoverLetter
	default:
		return PathGenerateCV
	}
}

// Label returns the human readable name of the document
func (k DocumentKind) Label() string {
	switch k {
	case KindCoverLetter:
		return "Cover Letter"
	default:
		return "CV"
	}
}

// Task is the instruction appended to generation prompts
func (k DocumentKind) Task() string {
	return fmt.Sprintf("Generate a %s.", k.Label())
}

// FallbackText is shown in place of the document when generation fails
func (k DocumentKind) FallbackText() string {
	return fmt.Sprintf("An error occurred while generating the %s. Please check the logs.", k.Label())
}

// ParseDocumentKind resolves user input such as "cv", "cover-letter" or "letter"
func ParseDocumentKind(s string) (DocumentKind, error) {
	switch s {
	case "cv", "CV", "resume":
		return KindCV, nil
	case "cover-letter", "cover_letter", "coverletter", "letter":
		return KindCoverLetter, nil
	default:
		return "", fmt.Errorf("unknown document kind %q (want cv or cover-letter)", s)
	}
}

// AllDocumentKinds lists the kinds in display order
func AllDocumentKinds() []DocumentKind {
	return []DocumentKind{KindCV, KindCoverLetter}
}

// Document is the result of one generation request. Failed documents carry
// the fallback text as Content and the underlying Cause.
type Document struct {
	Kind    DocumentKind
	Content string
	Failed  bool
	Cause   error
}
