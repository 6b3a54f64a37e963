package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/careerpilot/internal/config"
	"github.com/diogo/careerpilot/internal/copilot"
	"github.com/diogo/careerpilot/internal/export"
	"github.com/diogo/careerpilot/internal/models"
	"github.com/diogo/careerpilot/internal/render"
	"github.com/diogo/careerpilot/internal/tui"
)

// NewChatCmd creates the chat command
func NewChatCmd(deps *Dependencies) *cobra.Command {
	var (
		plain      bool
		transcript string
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Build your profile with the co-pilot",
		Long: `Start the co-pilot. The conversation collects your name, contact details,
experience and skills; once the profile is complete you can paste a job
description and generate a CV or cover letter.

--plain runs the profile conversation line by line over stdin and stdout,
which also happens automatically when stdin is not a terminal.
Type 'exit' or 'quit' to end the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if plain || transcript != "" || !isTerminal(deps.In) {
				return runPlainChat(deps, transcript)
			}
			return runChatTUI(deps)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Line mode instead of the full-screen interface")
	cmd.Flags().StringVar(&transcript, "transcript", "", "Save the conversation to this file (.md or .json) when it ends")
	return cmd
}

// runChatTUI starts the full-screen shell
func runChatTUI(deps *Dependencies) error {
	cfg, client, err := deps.client()
	if err != nil {
		return err
	}
	defer client.Close()

	dir, err := config.GetDownloadDir(cfg)
	if err != nil {
		return err
	}

	return deps.TUI.RunChat(client, tui.Options{
		DownloadDir: dir,
		Render:      render.OptionsFromConfig(cfg),
		Clipboard:   deps.Clipboard,
	})
}

// runPlainChat drives a Session over deps.In until the profile is complete,
// input ends, or the user types an exit word.
func runPlainChat(deps *Dependencies, transcriptPath string) error {
	cfg, client, err := deps.client()
	if err != nil {
		return err
	}
	defer client.Close()

	session := copilot.NewSession(client)
	if cfg.Verbose {
		session.OnProfile = func(p models.Profile) {
			fmt.Fprintf(deps.Err, "[verbose] Profile update: %s\n", p.Summary())
		}
	}

	spin := newSpinner(deps.Err, "Connecting to the co-pilot")
	spin.start()
	opening, err := session.Start()
	spin.stopWithError()
	if err != nil {
		return fmt.Errorf("failed to start conversation: %w", err)
	}
	printMessages(deps.Out, opening)

	scanner := bufio.NewScanner(deps.In)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for !session.Complete() {
		fmt.Fprint(deps.Out, userLabelStyle.Render("You:")+" ")
		if !scanner.Scan() {
			fmt.Fprintln(deps.Out)
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if isExitWord(line) {
			break
		}

		replies, err := session.Send(line)
		if err != nil {
			fmt.Fprintln(deps.Err, warnStyle.Render(err.Error()))
			continue
		}
		printMessages(deps.Out, replies)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	if transcriptPath != "" {
		path, err := export.SaveTranscript(transcriptPath, session.Transcript(), session.Complete())
		if err != nil {
			return fmt.Errorf("failed to save transcript: %w", err)
		}
		fmt.Fprintln(deps.Err, successStyle.Render("✓ Transcript saved to "+path))
	}

	if session.Complete() {
		fmt.Fprintln(deps.Err, successStyle.Render("✓ Profile complete. Next: careerpilot generate cv -j job.txt"))
	}
	return nil
}

func isExitWord(s string) bool {
	switch strings.ToLower(s) {
	case "exit", "quit", "/exit", "/quit":
		return true
	}
	return false
}
