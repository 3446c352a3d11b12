package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/joacominatel/dcon/internal/database"
)

// Prompter asks the user to confirm a destructive command.
type Prompter interface {
	Confirm(question string) (bool, error)
}

// LinePrompter reads a y/N answer from a line-oriented reader.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter prompts on out and reads answers from in.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

// Confirm accepts y or yes in any case. End of input counts as no.
func (p *LinePrompter) Confirm(question string) (bool, error) {
	fmt.Fprintf(p.out, "%s (y/N): ", question)

	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, database.NewError(database.KindIO, "read confirmation", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
