package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/Rsaliu/store-lib/internal/config"
	"github.com/Rsaliu/store-lib/pkg/core"
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Renderer writes documents in the configured output format.
type Renderer struct {
	w      io.Writer
	format string
	hidden []string
}

// NewRenderer creates a renderer. The auto format resolves to a table when w
// is a terminal and to JSON otherwise.
func NewRenderer(w io.Writer, format string) *Renderer {
	return &Renderer{w: w, format: resolveFormat(w, format)}
}

// Hide omits the named fields from every rendered document.
func (r *Renderer) Hide(fields ...string) *Renderer {
	r.hidden = append(r.hidden, fields...)
	return r
}

// Format returns the resolved output format.
func (r *Renderer) Format() string {
	return r.format
}

func resolveFormat(w io.Writer, format string) string {
	if format != "" && format != config.OutputAuto {
		return format
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return config.OutputTable
	}
	return config.OutputJSON
}

// Documents renders a result list.
func (r *Renderer) Documents(docs []*core.Document) error {
	if docs == nil {
		docs = []*core.Document{}
	}
	docs = r.visible(docs)
	switch r.format {
	case config.OutputJSON:
		return renderJSON(r.w, docs)
	case config.OutputYAML:
		return renderYAML(r.w, sequenceNode(docs))
	default:
		return renderTable(r.w, docs)
	}
}

// Object renders a single document.
func (r *Renderer) Object(doc *core.Document) error {
	doc = r.visible([]*core.Document{doc})[0]
	switch r.format {
	case config.OutputJSON:
		return renderJSON(r.w, doc)
	case config.OutputYAML:
		return renderYAML(r.w, documentNode(doc))
	default:
		return renderTable(r.w, []*core.Document{doc})
	}
}

func (r *Renderer) visible(docs []*core.Document) []*core.Document {
	if len(r.hidden) == 0 {
		return docs
	}
	out := make([]*core.Document, len(docs))
	for i, doc := range docs {
		c := doc.Clone()
		for _, name := range r.hidden {
			c.Delete(name)
		}
		out[i] = c
	}
	return out
}

func renderTable(w io.Writer, docs []*core.Document) error {
	if len(docs) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	// columns in first-seen order across all documents
	var cols []string
	for _, doc := range docs {
		for _, k := range doc.Keys() {
			if !slices.Contains(cols, k) {
				cols = append(cols, k)
			}
		}
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(cols))
	for i, col := range cols {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, doc := range docs {
		row := make(table.Row, len(cols))
		for i, col := range cols {
			v, ok := doc.Get(col)
			if !ok {
				row[i] = ""
				continue
			}
			row[i] = formatValue(v)
		}
		t.AppendRow(row)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(docs))
	return nil
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprint(v)
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderYAML(w io.Writer, node *yaml.Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

// documentNode builds a YAML mapping that keeps the document's field order.
func documentNode(doc *core.Document) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, f := range doc.Fields() {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Name}
		value := &yaml.Node{}
		if err := value.Encode(scalar(f.Value)); err != nil {
			value = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: fmt.Sprint(f.Value)}
		}
		n.Content = append(n.Content, key, value)
	}
	return n
}

func sequenceNode(docs []*core.Document) *yaml.Node {
	n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, doc := range docs {
		n.Content = append(n.Content, documentNode(doc))
	}
	return n
}

// scalar unwraps json.Number so YAML prints it unquoted.
func scalar(v any) any {
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return i
		}
		if f, err := n.Float64(); err == nil {
			return f
		}
	}
	return v
}
