// Package prompt asks yes/no questions on a terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/starford/slngen/internal/apperr"
)

var (
	yesAnswers = map[string]bool{"yes": true, "ye": true, "y": true, "true": true, "t": true, "1": true}
	noAnswers  = map[string]bool{"no": true, "n": true, "false": true, "f": true, "0": true}
)

// Terminal asks questions on out and reads answers from in.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminal creates a Terminal.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

// Confirm asks until the answer is a recognised yes or no. An empty answer
// selects def. Closing the input stream yields apperr.ErrPromptClosed.
func (t *Terminal) Confirm(question string, def bool) (bool, error) {
	choices := "y/N"
	if def {
		choices = "Y/n"
	}
	for {
		if _, err := fmt.Fprintf(t.out, "%s [%s] ", question, choices); err != nil {
			return false, fmt.Errorf("prompt: write: %w", err)
		}
		line, err := t.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, fmt.Errorf("prompt: read: %w", err)
		}
		if errors.Is(err, io.EOF) && line == "" {
			return false, fmt.Errorf("prompt: %q: %w", question, apperr.ErrPromptClosed)
		}

		answer := strings.ToLower(strings.TrimSpace(line))
		switch {
		case answer == "":
			return def, nil
		case yesAnswers[answer]:
			return true, nil
		case noAnswers[answer]:
			return false, nil
		}
	}
}

// AcceptAll answers yes to every question without asking.
type AcceptAll struct{}

// Confirm implements walker.Decider.
func (AcceptAll) Confirm(string, bool) (bool, error) { return true, nil }
