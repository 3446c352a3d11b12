package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// LineReader yields one line of input per call. It returns io.EOF at end
// of input and readline.ErrInterrupt on Ctrl+C.
type LineReader interface {
	Readline() (string, error)
}

// Session is an interactive read-eval-print loop over a Service.
type Session struct {
	svc    *Service
	reader LineReader
	out    io.Writer
}

// NewSession returns a session reading from reader and writing help and
// prompts to out.
func NewSession(svc *Service, reader LineReader, out io.Writer) *Session {
	return &Session{svc: svc, reader: reader, out: out}
}

// Run processes lines until exit or end of input. A failing SQL line is
// printed and the loop continues; a failing \l or \d ends the session with
// the error.
func (s *Session) Run(ctx context.Context) error {
	p := s.svc.Printer()
	p.Title("Interactive Mode - Type 'help' for commands, 'exit' to quit")
	s.help()

	for {
		line, err := s.reader.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			p.Success("Goodbye!")
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "exit", "quit", `\q`:
			p.Success("Goodbye!")
			return nil
		case "help", `\h`:
			s.help()
		case `\l`:
			if err := s.svc.ListDatabases(ctx); err != nil {
				return err
			}
		case `\d`:
			if err := s.svc.ListTables(ctx, false); err != nil {
				return err
			}
		default:
			s.exec(ctx, input)
		}
	}
}

func (s *Session) exec(ctx context.Context, sql string) {
	p := s.svc.Printer()
	res, err := s.svc.Client().ExecuteQuery(ctx, sql)
	if err != nil {
		p.Error("Error: %v", err)
		return
	}
	if res.IsEmpty() {
		p.Success("Query executed successfully.")
		return
	}
	if err := p.Rows(res, false); err != nil {
		p.Error("Error: %v", err)
	}
}

func (s *Session) help() {
	st := s.svc.Printer().Styles
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, st.Header.Render("Interactive Commands:"))
	for _, c := range [][2]string{
		{`\l`, "List all databases"},
		{`\d`, "List all tables in current database"},
		{`\h or help`, "Show this help message"},
		{`\q, quit, or exit`, "Exit interactive mode"},
	} {
		fmt.Fprintf(s.out, "  %s  - %s\n", st.Keyword.Render(c[0]), c[1])
	}
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "You can also execute any SQL query directly.")
	fmt.Fprintln(s.out, st.Muted.Render("   Example: SELECT * FROM users LIMIT 5;"))
	fmt.Fprintln(s.out)
}

// MetaCommands lists the commands understood besides SQL, for completion.
func MetaCommands() []string {
	return []string{`\l`, `\d`, `\h`, `\q`, "help", "quit", "exit"}
}
