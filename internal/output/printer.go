package output

import (
	"fmt"
	"io"

	"github.com/joacominatel/dcon/internal/database"
)

// Printer writes command output in one format.
type Printer struct {
	Out    io.Writer
	Format Format
	Color  bool
	Styles Styles
}

// NewPrinter returns a printer for out.
func NewPrinter(out io.Writer, format Format, color bool) *Printer {
	return &Printer{Out: out, Format: format, Color: color, Styles: NewStyles(out, color)}
}

// Records renders a record list.
func (p *Printer) Records(r Records) error {
	switch p.Format {
	case FormatJSON:
		return WriteJSON(p.Out, r.Value)
	case FormatCSV:
		return WriteRecordsCSV(p.Out, r)
	default:
		return WriteRecordsTable(p.Out, r, p.Color)
	}
}

// Rows renders a query result. quoteCSV selects quoted CSV cells.
func (p *Printer) Rows(res *database.QueryResult, quoteCSV bool) error {
	switch p.Format {
	case FormatJSON:
		return WriteJSON(p.Out, res.JSON())
	case FormatCSV:
		return WriteRowsCSV(p.Out, res, quoteCSV)
	default:
		return WriteRowsTable(p.Out, res, p.Styles)
	}
}

// Title prints a heading. Headings are skipped for JSON and CSV so the
// output stays machine readable.
func (p *Printer) Title(format string, args ...any) {
	if p.Format != FormatTable {
		return
	}
	fmt.Fprintln(p.Out, p.Styles.Title.Render(fmt.Sprintf(format, args...)))
}

// Success prints a confirmation line.
func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintln(p.Out, p.Styles.Success.Render(fmt.Sprintf(format, args...)))
}

// Warn prints a warning line.
func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintln(p.Out, p.Styles.Warning.Render(fmt.Sprintf(format, args...)))
}

// Error prints an error line.
func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintln(p.Out, p.Styles.Error.Render(fmt.Sprintf(format, args...)))
}

// Info prints a muted line.
func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintln(p.Out, p.Styles.Muted.Render(fmt.Sprintf(format, args...)))
}
