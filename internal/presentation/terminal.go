package presentation

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"faktoteka/internal/models"
)

// TerminalPresenter renders the catalog to a terminal and reads the
// destructive-action confirmation from an input stream.
type TerminalPresenter struct {
	out io.Writer
	in  *bufio.Reader
}

// NewTerminalPresenter creates a presenter over the given streams.
func NewTerminalPresenter(out io.Writer, in io.Reader) *TerminalPresenter {
	return &TerminalPresenter{out: out, in: bufio.NewReader(in)}
}

// Render prints the facts in display order.
func (p *TerminalPresenter) Render(facts []models.Fact) {
	for _, f := range facts {
		marker := " "
		if f.IsUser() {
			marker = "*"
		}
		fmt.Fprintf(p.out, "%s [%d] (%s) %s — %s\n", marker, f.ID, f.Category, f.Title, f.Date)
		fmt.Fprintf(p.out, "      %s\n", f.Description)
		if f.Source != "" {
			fmt.Fprintf(p.out, "      Źródło: %s\n", f.Source)
		}
	}
}

// RenderEmpty prints the empty-state message.
func (p *TerminalPresenter) RenderEmpty() {
	fmt.Fprintln(p.out, "Brak ciekawostek do wyświetlenia.")
}

// ReportCount prints the counter label under the list.
func (p *TerminalPresenter) ReportCount(label string) {
	fmt.Fprintln(p.out, label)
}

// ConfirmDestructiveAction asks the question and waits for an answer.
// Only an explicit "t" or "tak" (or "y"/"yes") confirms; anything else,
// including a read error, declines.
func (p *TerminalPresenter) ConfirmDestructiveAction(prompt string) bool {
	fmt.Fprintf(p.out, "%s [t/N] ", prompt)

	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "t", "tak", "y", "yes":
		return true
	}
	return false
}

// ShowTransientMessage prints a one-off banner message.
func (p *TerminalPresenter) ShowTransientMessage(text, kind string) {
	prefix := "ℹ️"
	switch kind {
	case KindSuccess:
		prefix = "✅"
	case KindError:
		prefix = "❌"
	}
	fmt.Fprintf(p.out, "%s %s\n", prefix, text)
}
