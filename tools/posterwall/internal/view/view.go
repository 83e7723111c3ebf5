// Package view renders pages and download results to the terminal, either as
// styled text or as JSON.
package view

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	gallery "github.com/perpetuallyhorni/posterwall/internal"
	"github.com/perpetuallyhorni/posterwall/pkg/client"
	"github.com/perpetuallyhorni/posterwall/pkg/storage"
)

// textWidth is the column descriptions are wrapped at.
const textWidth = 72

const templates = `
{{define "list"}}{{bold "Categories"}}
{{range .Categories}}  {{pad .Name 24}} {{gray (printf "%5d" .Count)}}  {{cyan .Link}}
{{end}}{{end}}

{{define "category"}}{{bold .Name}} {{gray (printf "(%d)" (len .Entries))}}
{{range .Entries}}{{printf "%4d" .ID}}  {{pad .Title 32}} {{pad .Year 6}} {{cyan .Thumb.Display}}
{{end}}{{end}}

{{define "detail"}}{{bold .Title}} {{gray (printf "#%d" .ID)}}
{{.Category}}{{with .Year}} / {{.}}{{end}}
{{with .Description}}
{{indent (wrap .) 2}}
{{end}}
{{range .Images}}  {{if .Local}}{{cyan .Display}}{{else}}{{yellow .Display}}{{end}}
{{end}}{{with .Weibo}}{{green .Label}}: {{.URL}}
{{end}}{{with .Download}}{{green .Label}}: {{.URL}}
{{end}}{{gray .Back}}
{{end}}

{{define "downloads"}}{{range .}}{{printf "%4d" .ID}}  {{status .Status}} {{pad .Title 32}} {{.Path}}
{{end}}{{end}}

{{define "history"}}{{range .}}{{printf "%4d" .PosterID}}  {{pad .Title 32}} {{gray (ago .DownloadedAt)}}  {{.Path}}
{{end}}{{end}}
`

var (
	bold   = color.New(color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
)

// widths measures terminal columns independently of the locale.
var widths = &runewidth.Condition{EastAsianWidth: false, StrictEmojiNeutral: true}

// pad truncates or right-pads s to w terminal columns. Wide (CJK) runes count as two.
func pad(s string, w int) string {
	return widths.FillRight(widths.Truncate(s, w, "…"), w)
}

func status(s client.DownloadStatus) string {
	label := fmt.Sprintf("%-10s", s)
	switch s {
	case client.StatusDownloaded, client.StatusAdopted:
		return green(label)
	case client.StatusSkipped:
		return gray(label)
	case client.StatusNoMirror:
		return yellow(label)
	default:
		return red(label)
	}
}

// Renderer writes pages to out.
type Renderer struct {
	out    io.Writer
	asJSON bool
	now    func() time.Time
	tmpl   *template.Template
}

// New returns a Renderer. With asJSON every value is written as indented JSON.
func New(out io.Writer, asJSON bool) *Renderer {
	r := &Renderer{out: out, asJSON: asJSON, now: time.Now}
	r.tmpl = template.Must(template.New("view").Funcs(template.FuncMap{
		"bold":   bold,
		"cyan":   cyan,
		"gray":   gray,
		"green":  green,
		"yellow": yellow,
		"pad":    pad,
		"status": status,
		"wrap":   func(s string) string { return wordwrap.String(s, textWidth) },
		"indent": func(s string, n uint) string { return indent.String(s, n) },
		"ago":    func(t time.Time) string { return humanize.RelTime(t, r.now(), "ago", "from now") },
	}).Parse(templates))
	return r
}

// JSON reports whether the renderer writes JSON.
func (r *Renderer) JSON() bool { return r.asJSON }

// Page renders a page.
func (r *Renderer) Page(p *client.Page) error {
	if r.asJSON {
		return r.encode(p)
	}
	switch p.Kind {
	case gallery.PageList:
		return r.execute("list", p.List)
	case gallery.PageCategory:
		return r.execute("category", p.Category)
	case gallery.PageDetail:
		return r.execute("detail", p.Detail)
	default:
		return fmt.Errorf("cannot render page kind %v", p.Kind)
	}
}

// Downloads renders download results.
func (r *Renderer) Downloads(results []client.DownloadResult) error {
	if r.asJSON {
		return r.encode(results)
	}
	return r.execute("downloads", results)
}

// History renders the download history.
func (r *Renderer) History(recs []storage.DownloadRecord) error {
	if r.asJSON {
		if recs == nil {
			recs = []storage.DownloadRecord{}
		}
		return r.encode(recs)
	}
	return r.execute("history", recs)
}

// Document pretty-prints a raw JSON document.
func (r *Renderer) Document(raw []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("document is not valid JSON: %w", err)
	}
	buf.WriteByte('\n')
	_, err := r.out.Write(buf.Bytes())
	return err
}

// PageError writes a page error in JSON mode. In text mode it writes nothing;
// the console reports the message instead.
func (r *Renderer) PageError(pe *gallery.PageError) error {
	if !r.asJSON {
		return nil
	}
	return r.encode(map[string]any{
		"error": map[string]string{
			"kind":    pe.Kind.String(),
			"message": pe.Message,
		},
	})
}

func (r *Renderer) execute(name string, data any) error {
	if err := r.tmpl.ExecuteTemplate(r.out, name, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	return nil
}

func (r *Renderer) encode(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
