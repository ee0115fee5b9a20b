package handlers

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

// homeCSP allows the page's inline styles and nothing else; the page has no
// scripts and only submits to itself.
const homeCSP = "default-src 'none'; style-src 'unsafe-inline'; form-action 'self'; base-uri 'none'; frame-ancestors 'none'"

var homeTmpl = template.Must(template.New("home").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{if .Query}}{{.Query}} · {{end}}Talk Search</title>
<style>
body{font-family:system-ui,sans-serif;max-width:760px;margin:2rem auto;padding:0 1rem;background:#f7f7f9}
input{width:100%;padding:12px;font-size:16px;box-sizing:border-box}
button{margin-top:8px;padding:12px 20px;background:#007bff;color:#fff;border:none;font-size:16px;cursor:pointer}
.hit{margin:20px 0;padding:15px;background:#fff;border-radius:8px;box-shadow:0 2px 5px #ddd}
.hit blockquote{margin:8px 0;color:#555}
.muted{color:#777}
</style>
</head>
<body>
<h1>Talk Search{{if .CorpusLoaded}} <small class="muted">({{.CorpusSize}} talks)</small>{{end}}</h1>
<form method="get" action="">
<input name="q" value="{{.Query}}" placeholder="e.g., faith" autofocus>
<button type="submit">Search</button>
</form>
{{- if .Searched}}
{{- if not .CorpusLoaded}}
<p class="muted">The talk collection is not available right now. Please try again shortly.</p>
{{- else if .Results}}
<h2>{{len .Results}} results</h2>
{{- range .Results}}
<div class="hit">
<h3>{{.Title}} ({{.Date}})</h3>
{{- range .Passages}}
<blockquote>{{.}}</blockquote>
{{- end}}
{{- if .URL}}
<a href="{{.URL}}" target="_blank" rel="noopener noreferrer">Watch Video</a>
{{- end}}
</div>
{{- end}}
{{- else}}
<p>No results. Try "faith" or "Israel".</p>
{{- end}}
{{- end}}
</body>
</html>
`))

type homeView struct {
	Query        string
	Searched     bool
	CorpusLoaded bool
	CorpusSize   int
	Results      []SearchResult
}

// Home renders the search page. With ?q= it runs the search server-side and
// renders the results below the form.
func (h *Handlers) Home(c *gin.Context) {
	view := homeView{Query: c.Query("q")}
	if view.Query != "" {
		out, done := h.runSearch(c, view.Query, 0)
		if !done {
			return
		}
		view.Searched = true
		view.CorpusLoaded = out.CorpusLoaded
		view.CorpusSize = out.CorpusSize
		view.Results = toSearchResults(out.Results)
	}

	var buf bytes.Buffer
	if err := homeTmpl.Execute(&buf, view); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "render failed")
		return
	}
	c.Header("Content-Security-Policy", homeCSP)
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
