package queryrunner

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/tidwall/pretty"
)

// Table is a result rendered as aligned columns, one row per record.
type Table struct {
	Header []string
	Rows   [][]string
}

// Message is a result rendered inline after its title.
type Message string

// Printer writes operation results to the console.
type Printer struct {
	w     io.Writer
	color bool
}

func NewPrinter(w io.Writer, color bool) *Printer {
	return &Printer{w: w, color: color}
}

// Print writes one titled result block followed by a blank line.
func (p *Printer) Print(title string, v interface{}) error {
	var err error
	switch r := v.(type) {
	case Message:
		_, err = fmt.Fprintf(p.w, "%s: %s\n\n", title, r)
	case Table:
		err = p.printTable(title, r)
	default:
		err = p.printJSON(title, v)
	}
	return errors.Wrapf(err, "print %q", title)
}

func (p *Printer) printJSON(title string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	out := pretty.Pretty(raw)
	if p.color {
		out = pretty.Color(out, nil)
	}
	if _, err := fmt.Fprintf(p.w, "%s:\n", title); err != nil {
		return err
	}
	if _, err := p.w.Write(out); err != nil {
		return err
	}
	_, err = fmt.Fprintln(p.w)
	return err
}

func (p *Printer) printTable(title string, t Table) error {
	if _, err := fmt.Fprintf(p.w, "%s:\n", title); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	writeRow(tw, "(index)", t.Header)
	dashes := make([]string, len(t.Header))
	for i, h := range t.Header {
		dashes[i] = strings.Repeat("-", len(h))
	}
	writeRow(tw, "-------", dashes)
	for i, row := range t.Rows {
		writeRow(tw, strconv.Itoa(i), row)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(p.w)
	return err
}

func writeRow(w io.Writer, first string, cells []string) {
	fmt.Fprint(w, first)
	for _, c := range cells {
		fmt.Fprint(w, "\t", c)
	}
	fmt.Fprintln(w)
}
