package macro

import (
	"bytes"
	"embed"
	"fmt"
	"sync"
	"text/template"
)

const (
	tmplDispatcher = "dispatcher"

	templatePattern = "templates/*.gtpl"
)

//go:embed templates/*.gtpl
var templatesFS embed.FS

var (
	dispatcherTmpl *template.Template
	tmplInitOnce   sync.Once
	tmplInitErr    error
)

// dispatcherModel is the template model for a mocked expansion.
type dispatcherModel struct {
	Original  string // preserved original function, renamed and public
	Signature string // declaration of the dispatcher, without a body
	Indent    string // leading whitespace of the annotated item's line
	Mock      string
	Target    string
	Args      string
	ImplScope bool
}

// ensureTemplates parses and validates templates exactly once.
func ensureTemplates() error {
	tmplInitOnce.Do(func() {
		var t *template.Template
		t, tmplInitErr = template.New(tmplDispatcher).ParseFS(templatesFS, templatePattern)
		if tmplInitErr != nil {
			return
		}
		if t.Lookup(tmplDispatcher) == nil {
			tmplInitErr = fmt.Errorf("required template %q not found", tmplDispatcher)
			return
		}
		dispatcherTmpl = t
	})
	return tmplInitErr
}

func renderDispatcher(m dispatcherModel) (string, error) {
	if err := ensureTemplates(); err != nil {
		return "", err
	}
	var out bytes.Buffer
	if err := dispatcherTmpl.ExecuteTemplate(&out, tmplDispatcher, m); err != nil {
		return "", err
	}
	return out.String(), nil
}
