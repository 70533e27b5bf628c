package export

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"api-page-gen/pkg/faq"
	"api-page-gen/pkg/page"
)

// PreviewInput carries one record's renderable outputs.
type PreviewInput struct {
	Model   *page.Model
	Summary string
	FAQs    []faq.Item
}

// Deferred [[marker]] values become {{ marker }} expressions for the
// downstream site templating engine.
var deferredMarker = regexp.MustCompile(`\[\[([a-zA-Z_][a-zA-Z0-9_]*)\]\]`)

func rewriteDeferred(text string) string {
	return deferredMarker.ReplaceAllString(text, "{{ $1 }}")
}

type previewPage struct {
	Title    string
	Summary  string
	Sections []*page.Node
	FAQs     []faq.Item
}

var previewFuncs = template.FuncMap{
	"itemText": itemText,
	"kind":     func(n *page.Node) string { return string(n.Type) },
}

// itemText flattens one array element for display: plain strings pass
// through, labelled entries render as "label: value" pairs.
func itemText(item any) string {
	switch v := item.(type) {
	case string:
		return v
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s: %v", k, v[k]))
		}
		return strings.Join(parts, "; ")
	default:
		return fmt.Sprint(v)
	}
}

var previewTemplate = template.Must(template.New("preview").Funcs(previewFuncs).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>API Catalog Preview</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem auto; max-width: 60rem; color: #1d2733; }
article { border-bottom: 2px solid #d8dee6; margin-bottom: 3rem; padding-bottom: 2rem; }
h1 { margin-bottom: 0.25rem; }
.summary { color: #4a5a6a; font-style: italic; }
section { margin-top: 1.5rem; }
h2 { font-size: 1.1rem; border-bottom: 1px solid #e4e9ef; padding-bottom: 0.25rem; }
dl { margin: 0.5rem 0; }
dt { font-weight: 600; margin-top: 0.5rem; }
dd { margin-left: 0; color: #33404e; }
details { margin: 0.5rem 0; }
summary { cursor: pointer; font-weight: 600; }
</style>
</head>
<body>
{{- range .Pages}}
<article>
<h1>{{.Title}}</h1>
{{- with .Summary}}
<p class="summary">{{.}}</p>
{{- end}}
{{- range .Sections}}
<section>
<h2>{{.Label}}</h2>
{{template "node" .}}
</section>
{{- end}}
{{- with .FAQs}}
<section class="faq">
<h2>Frequently Asked Questions</h2>
{{- range .}}
<details>
<summary>{{.Question}}</summary>
<p>{{.Answer}}</p>
</details>
{{- end}}
</section>
{{- end}}
</article>
{{- end}}
</body>
</html>
{{define "node"}}
{{- if eq (kind .) "leaf"}}
<dt>{{.Label}}</dt><dd>{{.Value}}</dd>
{{- else if eq (kind .) "array"}}
<dt>{{.Label}}</dt>
<dd><ul>{{range .Items}}<li>{{itemText .}}</li>{{end}}</ul></dd>
{{- else}}
<dl>
{{- range .Children}}
{{template "node" .}}
{{- end}}
</dl>
{{- end}}
{{end}}`))

// WritePreview renders a single-file HTML preview of every page, in input
// order, with generated summaries and grouped FAQs inline.
func WritePreview(path string, inputs []PreviewInput) error {
	pages := make([]previewPage, 0, len(inputs))
	for _, input := range inputs {
		if input.Model == nil {
			continue
		}
		// Each article is headed by the record it describes, not the shared
		// template name.
		view := previewPage{
			Title:    input.Model.Name,
			Summary:  input.Summary,
			Sections: input.Model.Blocks,
		}
		if view.Title == "" {
			view.Title = input.Model.Title
		}
		for _, item := range faq.SortByGroup(input.FAQs) {
			item.Answer = rewriteDeferred(item.Answer)
			view.FAQs = append(view.FAQs, item)
		}
		pages = append(pages, view)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir for %s: %w", path, err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer file.Close()

	if err := previewTemplate.Execute(file, map[string]any{"Pages": pages}); err != nil {
		return fmt.Errorf("render preview: %w", err)
	}
	return nil
}
