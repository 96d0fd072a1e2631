package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/juncture"
)

// Output formats.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

type printer struct {
	format string
	out    io.Writer
}

func newPrinter(format string, out io.Writer) (*printer, error) {
	switch format {
	case "", formatTable:
		return &printer{format: formatTable, out: out}, nil
	case formatJSON, formatYAML:
		return &printer{format: format, out: out}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (want table, json, or yaml)", format)
	}
}

func (p *printer) isTable() bool {
	return p.format == formatTable
}

// print writes v as JSON or YAML, or calls render to fill a table.
func (p *printer) print(v any, render func(t table.Writer)) error {
	switch p.format {
	case formatJSON:
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(p.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		t := table.NewWriter()
		t.SetOutputMirror(p.out)
		t.SetStyle(table.StyleRounded)
		render(t)
		t.Render()
		return nil
	}
}

// empty prints a notice in table mode, or v otherwise.
func (p *printer) empty(v any, message string) error {
	if !p.isTable() {
		return p.print(v, nil)
	}
	_, err := fmt.Fprintln(p.out, text.FgYellow.Sprint(message))
	return err
}

func fieldRows(t table.Writer, rows ...table.Row) {
	for _, row := range rows {
		row[0] = text.FgHiCyan.Sprint(row[0])
		t.AppendRow(row)
	}
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Format(time.RFC3339)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func providerTitle(p juncture.Provider) string {
	return cases.Title(language.English).String(string(p))
}

func statusText(ok bool, yes, no string) string {
	if ok {
		return text.FgGreen.Sprint(yes)
	}
	return text.FgYellow.Sprint(no)
}
