package output

import (
	"bytes"
	_ "embed"
	"html/template"
)

// HTMLFormatter renders the report sections as a standalone HTML page
type HTMLFormatter struct{}

func (HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Parse(htmlTemplateSource))

func (HTMLFormatter) Format(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		*Report
		Assumptions []string
	}{r, DefaultAssumptions}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
