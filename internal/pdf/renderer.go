// Package pdf renders generated 職務経歴書 content to PDF through a headless
// browser. Requires Chrome/Chromium to be installed on the system.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/ktanaka/careerlog/internal/types"
)

// DefaultTimeout bounds one render, including browser startup.
const DefaultTimeout = 60 * time.Second

// Renderer turns resume content into an A4 PDF.
type Renderer struct {
	tmpl    *template.Template
	timeout time.Duration
}

// NewRenderer creates a renderer with the built-in document template.
func NewRenderer() *Renderer {
	return &Renderer{
		tmpl:    template.Must(template.New("resume").Funcs(funcMap).Parse(documentTemplate)),
		timeout: DefaultTimeout,
	}
}

// Render produces the PDF bytes for one document.
func (r *Renderer) Render(ctx context.Context, content types.ResumeContent) ([]byte, error) {
	html, err := r.RenderHTML(content)
	if err != nil {
		return nil, err
	}
	return r.printToPDF(ctx, html)
}

// RenderHTML produces the intermediate HTML. Exposed so tests can check the
// layout without a browser.
func (r *Renderer) RenderHTML(content types.ResumeContent) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, content); err != nil {
		return "", fmt.Errorf("failed to render document template: %w", err)
	}
	return buf.String(), nil
}

func (r *Renderer) printToPDF(ctx context.Context, html string) ([]byte, error) {
	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, r.timeout)
	defer cancel()

	var pdfBytes []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBytes, _, err = page.PrintToPDF().
				WithPaperWidth(8.27).   // A4
				WithPaperHeight(11.69). // A4
				WithMarginTop(0.4).
				WithMarginBottom(0.4).
				WithMarginLeft(0.4).
				WithMarginRight(0.4).
				WithPrintBackground(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to print PDF: %w", err)
	}
	return pdfBytes, nil
}

var funcMap = template.FuncMap{
	"join": func(items []string) string { return strings.Join(items, " / ") },
}

const documentTemplate = `<!DOCTYPE html>
<html lang="ja">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { font-family: "Hiragino Mincho ProN", "Yu Mincho", serif; font-size: 10.5pt; color: #222; line-height: 1.7; }
  h1 { font-size: 16pt; text-align: center; letter-spacing: 0.5em; margin-bottom: 0.2em; }
  .meta { text-align: right; font-size: 9.5pt; margin-bottom: 1.5em; }
  h2 { font-size: 12pt; border-bottom: 2px solid #222; padding-bottom: 0.2em; margin-top: 1.6em; }
  h3 { font-size: 11pt; margin-bottom: 0.2em; }
  .period { color: #555; font-size: 9.5pt; }
  table.skills { width: 100%; border-collapse: collapse; }
  table.skills th, table.skills td { border: 1px solid #999; padding: 0.3em 0.6em; text-align: left; }
  table.skills th { background: #f0f0f0; width: 10em; }
  ul { margin: 0.3em 0 0.8em 1.4em; }
  .tech { color: #555; font-size: 9.5pt; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="meta">{{.Date}}<br>{{.Name}}</div>

<h2>職務要約</h2>
<p>{{.Summary}}</p>

{{if .Skills}}
<h2>活かせる経験・知識・技術</h2>
<table class="skills">
{{range .Skills}}<tr><th>{{.Category}}</th><td>{{join .Items}}</td></tr>
{{end}}</table>
{{end}}

<h2>職務経歴</h2>
{{range .WorkHistories}}
<h3>{{.CompanyName}}</h3>
<div class="period">{{.Period}}{{if .EmploymentType}}（{{.EmploymentType}}）{{end}}</div>
{{if .Position}}<p>{{.Position}}{{if .Department}} / {{.Department}}{{end}}</p>{{end}}
{{if .CompanyDescription}}<p>{{.CompanyDescription}}</p>{{end}}
{{range .Projects}}
<h3>{{.Name}}</h3>
<div class="period">{{.Period}}{{if .Role}} ｜ {{.Role}}{{end}}{{if .TeamSize}} ｜ {{.TeamSize}}{{end}}</div>
{{if .Description}}<p>{{.Description}}</p>{{end}}
{{if .Achievements}}<ul>
{{range .Achievements}}<li>{{.}}</li>
{{end}}</ul>{{end}}
{{if .Technologies}}<div class="tech">使用技術: {{join .Technologies}}</div>{{end}}
{{end}}
{{end}}

{{if .SelfPR}}
<h2>自己PR</h2>
<p>{{.SelfPR}}</p>
{{end}}
</body>
</html>
`
