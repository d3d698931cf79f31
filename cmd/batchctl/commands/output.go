package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/batchrest/batch"
	"github.com/teranos/batchrest/errors"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// printer renders command results in the format chosen with --output.
type printer struct {
	out    io.Writer
	format string
}

func newPrinter(cmd *cobra.Command) (*printer, error) {
	format, _ := cmd.Flags().GetString("output")
	switch format {
	case formatTable, formatJSON, formatYAML:
	default:
		return nil, errors.NewInvalidRequestError("unsupported output format %q (supported: table, json, yaml)", format)
	}
	return &printer{out: cmd.OutOrStdout(), format: format}, nil
}

// print writes v as JSON or YAML, or header and rows as a table.
func (p *printer) print(v any, header []string, rows [][]string) error {
	switch p.format {
	case formatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal JSON")
		}
		_, err = fmt.Fprintln(p.out, string(data))
		return err
	case formatYAML:
		data, err := toYAML(v)
		if err != nil {
			return err
		}
		_, err = p.out.Write(data)
		return err
	}

	if len(rows) == 0 {
		_, err := fmt.Fprintln(p.out, "No results")
		return err
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(append([][]string{header}, rows...)).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render table")
	}
	_, err = fmt.Fprintln(p.out, table)
	return err
}

// message writes a status line; structured formats get it as {"message": ...}.
func (p *printer) message(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if p.format == formatTable {
		_, err := fmt.Fprintln(p.out, msg)
		return err
	}
	return p.print(map[string]string{"message": msg}, nil, nil)
}

// toYAML goes through the JSON encoding so custom MarshalJSON methods and
// json tags apply, keeping integers exact.
func toYAML(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal JSON")
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, errors.Wrap(err, "failed to decode JSON")
	}
	out, err := yaml.Marshal(normalizeNumbers(tree))
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal YAML")
	}
	return out, nil
}

func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = normalizeNumbers(e)
		}
	case []any:
		for i, e := range t {
			t[i] = normalizeNumbers(e)
		}
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
	}
	return v
}

func formatTime(t batch.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func formatID(id int64) string {
	if id == 0 {
		return "-"
	}
	return strconv.FormatInt(id, 10)
}

func formatDuration(d time.Duration) string {
	if d == 0 {
		return "-"
	}
	return d.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
