// Package report renders an HTML contact sheet for a finished sweep: one
// section per composed page with its label, images inlined as data URIs so
// the file stands alone. User-supplied text (prompts, labels) is sanitized
// before it reaches the template.
package report

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"
	"time"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-gridsweep/pkg/generation"
)

const templateName = "templates/report.tpl"

// Params describes one report.
type Params struct {
	Title      string
	Prompt     string
	PageLabels []string

	// Result holds the sweep output; the first PageCount images are the
	// composed page grids.
	Result    *generation.Result
	PageCount int
}

// Renderer turns sweep results into standalone HTML documents.
type Renderer struct {
	template *pongo2.Template
	policy   *bluemonday.Policy
}

// NewRenderer loads the embedded report template.
func NewRenderer() (*Renderer, error) {
	set := pongo2.NewSet("gridsweep-report", pongo2.NewFSLoader(embeddedTemplates))
	tmpl, err := set.FromFile(templateName)
	if err != nil {
		return nil, fmt.Errorf("report: load template: %w", err)
	}
	return &Renderer{
		template: tmpl,
		policy:   bluemonday.StrictPolicy(),
	}, nil
}

// Render produces the HTML document, additionally writing it to any provided
// writers.
func (r *Renderer) Render(p Params, out ...io.Writer) ([]byte, error) {
	if r == nil || r.template == nil {
		return nil, fmt.Errorf("report: renderer is not initialised")
	}
	if p.Result == nil {
		return nil, fmt.Errorf("report: result is required")
	}
	if p.PageCount < 1 || p.PageCount > len(p.Result.Images) {
		return nil, fmt.Errorf("report: invalid page count %d for %d images", p.PageCount, len(p.Result.Images))
	}

	title := r.policy.Sanitize(p.Title)
	if title == "" {
		title = "Sweep grid"
	}

	pages := make([]map[string]any, 0, p.PageCount)
	for i := 0; i < p.PageCount; i++ {
		src, err := dataURI(p.Result.Images[i])
		if err != nil {
			return nil, fmt.Errorf("report: encode page %d: %w", i, err)
		}
		label := ""
		if i < len(p.PageLabels) {
			label = r.policy.Sanitize(p.PageLabels[i])
		}
		pages = append(pages, map[string]any{
			"index": i + 1,
			"label": label,
			"src":   src,
		})
	}

	rendered, err := r.template.ExecuteBytes(pongo2.Context{
		"title":     title,
		"prompt":    r.policy.Sanitize(p.Prompt),
		"pages":     pages,
		"generated": time.Now().Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("report: execute template: %w", err)
	}

	for _, w := range out {
		if _, err := w.Write(rendered); err != nil {
			return nil, fmt.Errorf("report: write output: %w", err)
		}
	}
	return rendered, nil
}

func dataURI(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
