package text

import (
	_ "embed" // use go embed to import template
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/gookit/color"

	"github.com/Kafva/argstates"
)

var (
	openTheme       = color.New(color.FgLightWhite, color.BgRed)
	exhaustiveTheme = color.New(color.FgBlack, color.BgGreen)

	//go:embed template.txt
	templateContent string
)

// WriteReport write a (colorized) report in text format
func WriteReport(w io.Writer, data *argstates.ReportInfo, enableColor bool) error {
	t, e := template.
		New("argstates").
		Funcs(plainTextFuncMap(enableColor)).
		Parse(templateContent)
	if e != nil {
		return e
	}

	return t.Execute(w, data)
}

func plainTextFuncMap(enableColor bool) template.FuncMap {
	if enableColor {
		return template.FuncMap{
			"highlight": highlight,
			"success":   color.Success.Render,
			"join":      joinValues,
		}
	}

	// by default those functions return the given content untouched
	return template.FuncMap{
		"highlight": func(t string, exhaustive bool) string {
			return t
		},
		"success": fmt.Sprint,
		"join":    joinValues,
	}
}

// highlight returns the exhaustiveness marker colored by its meaning
func highlight(t string, exhaustive bool) string {
	if exhaustive {
		return exhaustiveTheme.Sprint(t)
	}
	return openTheme.Sprint(t)
}

// joinValues renders a value set on a single line
func joinValues(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	quoted := make([]string, 0, len(values))
	for _, value := range values {
		quoted = append(quoted, fmt.Sprintf("%q", value))
	}
	return strings.Join(quoted, ", ")
}
