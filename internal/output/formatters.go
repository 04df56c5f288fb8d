package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Formatter renders a report in one output format
type Formatter interface {
	Name() string
	Format(r *Report) ([]byte, error)
}

var formatters = map[string]Formatter{
	"table": TableFormatter{},
	"json":  JSONFormatter{Pretty: true},
	"csv":   CSVFormatter{},
	"yaml":  YAMLFormatter{},
	"html":  HTMLFormatter{},
}

// GetFormatterByName returns the formatter registered under name, or nil
func GetFormatterByName(name string) Formatter {
	return formatters[strings.ToLower(strings.TrimSpace(name))]
}

// FormatNames lists the registered formats
func FormatNames() []string {
	names := make([]string, 0, len(formatters))
	for n := range formatters {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// FormatterFunc adapts a function to the Formatter interface
type FormatterFunc struct {
	ID string
	F  func(r *Report) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(r *Report) ([]byte, error) { return f.F(r) }

// WriteFormatted renders r with f and writes it to w
func WriteFormatted(w io.Writer, f Formatter, r *Report) error {
	data, err := f.Format(r)
	if err != nil {
		return fmt.Errorf("%s formatter: %w", f.Name(), err)
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	_, err = w.Write(data)
	return err
}

// TableFormatter renders aligned label/value sections for the console
type TableFormatter struct{}

func (TableFormatter) Name() string { return "table" }

func (TableFormatter) Format(r *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	width := 0
	for _, s := range r.Sections {
		for _, row := range s.Rows {
			if len(row.Label) > width {
				width = len(row.Label)
			}
		}
	}

	fmt.Fprintln(buf, r.Title)
	fmt.Fprintln(buf, strings.Repeat("=", 60))
	for i, s := range r.Sections {
		if i > 0 {
			fmt.Fprintln(buf)
		}
		if s.Heading != "" {
			fmt.Fprintln(buf, s.Heading)
			fmt.Fprintln(buf, strings.Repeat("-", len(s.Heading)))
		}
		for _, row := range s.Rows {
			fmt.Fprintf(buf, "  %-*s  %s\n", width, row.Label, row.Value)
		}
	}
	return buf.Bytes(), nil
}

// JSONFormatter encodes the report payload
type JSONFormatter struct {
	Pretty bool
}

func (JSONFormatter) Name() string { return "json" }

func (jf JSONFormatter) Format(r *Report) ([]byte, error) {
	if jf.Pretty {
		return json.MarshalIndent(r.Payload, "", "  ")
	}
	return json.Marshal(r.Payload)
}

// CSVFormatter writes one section,label,value record per row
type CSVFormatter struct{}

func (CSVFormatter) Name() string { return "csv" }

func (CSVFormatter) Format(r *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"Section", "Item", "Value"}); err != nil {
		return nil, err
	}
	for _, s := range r.Sections {
		for _, row := range s.Rows {
			if err := w.Write([]string{s.Heading, row.Label, row.Value}); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// YAMLFormatter encodes the payload as block YAML using the JSON field
// names, so both structured formats share one schema.
type YAMLFormatter struct{}

func (YAMLFormatter) Name() string { return "yaml" }

func (YAMLFormatter) Format(r *Report) ([]byte, error) {
	data, err := json.Marshal(r.Payload)
	if err != nil {
		return nil, err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to convert payload: %w", err)
	}
	blockStyle(&doc)

	buf := &bytes.Buffer{}
	enc := yaml.NewEncoder(buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// blockStyle drops the flow and quoting styles inherited from JSON
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
