package commands

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/diogo/careerpilot/internal/copilot"
	apierrors "github.com/diogo/careerpilot/internal/errors"
	"github.com/diogo/careerpilot/internal/models"
)

func TestGenerateCommand_Sources(t *testing.T) {
	jobFile := filepath.Join(t.TempDir(), "job.txt")
	if err := os.WriteFile(jobFile, []byte("From a file"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		args   []string
		stdin  string
		kind   models.DocumentKind
		wantJD string
	}{
		{"argument", []string{"generate", "cv", "Senior Go engineer"}, "", models.KindCV, "Senior Go engineer"},
		{"stdin", []string{"generate", "cover-letter"}, "Piped job\n", models.KindCoverLetter, "Piped job\n"},
		{"file", []string{"generate", "letter", "-j", jobFile}, "ignored", models.KindCoverLetter, "From a file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.mock.DocumentVal = "# Jane Doe\nGo engineer"
			env.input(tt.stdin)

			if err := env.run(tt.args...); err != nil {
				t.Fatalf("generate failed: %v", err)
			}

			if len(env.mock.DocumentCalls) != 1 || env.mock.DocumentCalls[0] != tt.kind {
				t.Errorf("document calls = %v, want [%s]", env.mock.DocumentCalls, tt.kind)
			}
			if env.mock.LastJobDesc != tt.wantJD {
				t.Errorf("job description = %q, want %q", env.mock.LastJobDesc, tt.wantJD)
			}
			// Non-terminal stdout gets the exact text
			if got := env.out.String(); got != "# Jane Doe\nGo engineer\n" {
				t.Errorf("output = %q", got)
			}
		})
	}
}

func TestGenerateCommand_EmptyJobDescription(t *testing.T) {
	env := newTestEnv(t)
	env.mock.DocumentVal = "CV"

	err := env.run("generate", "cv", "  \n\t ")
	if !errors.Is(err, copilot.ErrEmptyJobDescription) {
		t.Errorf("err = %v, want ErrEmptyJobDescription", err)
	}
	if env.mock.DocumentCallCount() != 0 {
		t.Error("no request should be sent for an empty job description")
	}
}

func TestGenerateCommand_BadArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no kind", []string{"generate"}},
		{"unknown kind", []string{"generate", "poem", "job"}},
		{"too many", []string{"generate", "cv", "a", "b"}},
		{"missing file", []string{"generate", "cv", "-j", "/does/not/exist.txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if err := env.run(tt.args...); err == nil {
				t.Error("expected an error")
			}
			if env.mock.DocumentCallCount() != 0 {
				t.Error("no request should be sent")
			}
		})
	}
}

func TestGenerateCommand_Failure(t *testing.T) {
	env := newTestEnv(t)
	env.mock.DocumentErr = apierrors.NewAPIErrorWithBody(400, models.PathGenerateCV, "bad request",
		`{"detail":"User profile is incomplete. Please complete your profile first."}`)

	err := env.run("generate", "cv", "Go developer")
	if err == nil {
		t.Fatal("expected an error")
	}
	if apierrors.GetHTTPStatus(err) != 400 {
		t.Errorf("status = %d, want 400", apierrors.GetHTTPStatus(err))
	}

	stderr := env.errOut.String()
	for _, want := range []string{models.KindCV.FallbackText(), "HTTP Status: 400", "User profile is incomplete"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr missing %q:\n%s", want, stderr)
		}
	}
	if env.out.Len() != 0 {
		t.Errorf("nothing should be printed to stdout, got %q", env.out.String())
	}
}

func TestGenerateCommand_OutputFile(t *testing.T) {
	env := newTestEnv(t)
	env.mock.DocumentVal = "Dear hiring manager"
	path := filepath.Join(t.TempDir(), "letters", "acme.md")

	if err := env.run("generate", "cover-letter", "Acme job", "-o", path); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "Dear hiring manager" {
		t.Errorf("file = %q", data)
	}
	if env.out.Len() != 0 {
		t.Error("stdout should stay empty when writing to a file")
	}
	if !strings.Contains(env.errOut.String(), "Cover Letter saved to") {
		t.Errorf("stderr = %q", env.errOut.String())
	}
}

func TestGenerateCommand_Copy(t *testing.T) {
	tests := []struct {
		name      string
		flag      bool
		configure bool
		want      int
	}{
		{"flag", true, false, 1},
		{"config", false, true, 1},
		{"off", false, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.mock.DocumentVal = "CV text"
			env.cfg.CopyToClipboard = tt.configure

			args := []string{"generate", "cv", "Go"}
			if tt.flag {
				args = append(args, "--copy")
			}
			if err := env.run(args...); err != nil {
				t.Fatalf("generate failed: %v", err)
			}
			if len(env.clipboard) != tt.want {
				t.Fatalf("clipboard writes = %d, want %d", len(env.clipboard), tt.want)
			}
			if tt.want > 0 && env.clipboard[0] != "CV text" {
				t.Errorf("clipboard = %q", env.clipboard[0])
			}
		})
	}
}

func TestGenerateCommand_CopyErrorIsAWarning(t *testing.T) {
	env := newTestEnv(t)
	env.mock.DocumentVal = "CV text"
	env.deps.Clipboard = func(string) error { return errors.New("no display") }

	if err := env.run("generate", "cv", "Go", "--copy"); err != nil {
		t.Fatalf("clipboard failure must not fail the command: %v", err)
	}
	if !strings.Contains(env.errOut.String(), "Failed to copy to clipboard") {
		t.Errorf("stderr = %q", env.errOut.String())
	}
	if env.out.String() != "CV text\n" {
		t.Errorf("output = %q", env.out.String())
	}
}

func TestGenerateCommand_PDF(t *testing.T) {
	env := newTestEnv(t)
	env.mock.DocumentVal = "# CV"
	env.mock.PDFVal = []byte("%PDF-1.4")
	path := filepath.Join(t.TempDir(), "cv.pdf")

	if err := env.run("generate", "cv", "Go", "--pdf", path, "--raw"); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if env.mock.LastPDFText != "# CV" {
		t.Errorf("PDF text = %q", env.mock.LastPDFText)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "%PDF-1.4" {
		t.Errorf("pdf = %q", data)
	}
	if env.out.String() != "# CV\n" {
		t.Errorf("output = %q", env.out.String())
	}
}

func TestReadInput(t *testing.T) {
	file := filepath.Join(t.TempDir(), "in.txt")
	if err := os.WriteFile(file, []byte("file text"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		stdin   string
		file    string
		args    []string
		want    string
		wantErr bool
	}{
		{"file wins", "stdin", file, []string{"arg"}, "file text", false},
		{"args joined", "stdin", "", []string{"Go", "developer"}, "Go developer", false},
		{"stdin", "piped", "", nil, "piped", false},
		{"missing file", "", "/nope/missing.txt", nil, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readInput(strings.NewReader(tt.stdin), tt.file, tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := readInput(nil, "", nil); !errors.Is(err, errNoInput) {
		t.Errorf("nil stdin: err = %v, want errNoInput", err)
	}
}
