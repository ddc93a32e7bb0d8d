// Package document generates self-contained resume markup for export.
//
// The output carries every style it needs inline: a :root block of design
// tokens from cssvars followed by the base layout rules. It never links an
// external stylesheet, so the result does not depend on the state of any
// live page.
package document

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/jonathan/resume-studio/internal/cssvars"
	"github.com/jonathan/resume-studio/internal/design"
	"github.com/jonathan/resume-studio/internal/types"
)

//go:embed templates/document.html.tmpl templates/base.css
var templateFS embed.FS

var (
	pageTemplate = template.Must(template.New("document.html.tmpl").ParseFS(templateFS, "templates/document.html.tmpl"))
	baseCSS      = mustRead("templates/base.css")
)

func mustRead(name string) string {
	b, err := templateFS.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// Render generates the document for data using the template's config and
// layout component.
func Render(data types.ResumeData, t types.Template) (string, error) {
	return RenderConfig(data, t.Config, t.Component)
}

// RenderConfig generates the document for data from a resolved config.
// An empty component means single-column.
func RenderConfig(data types.ResumeData, cfg design.TemplateConfig, component string) (string, error) {
	if component == "" {
		component = types.ComponentSingleColumn
	}
	switch component {
	case types.ComponentSingleColumn, types.ComponentTwoColumn, types.ComponentSidebar:
	default:
		return "", &TemplateError{Message: fmt.Sprintf("unknown layout component %q", component)}
	}

	vars := cssvars.Stylesheet(cssvars.ToVariables(cfg))
	if strings.Contains(strings.ToLower(vars), "</style") {
		return "", &TemplateError{Message: "config values may not close the style element"}
	}

	b := &builder{data: data, cfg: cfg}
	p := page{
		Title:     documentTitle(data.Personal),
		ConfigID:  cfg.ID,
		Component: component,
		BodyClass: bodyClass(cfg, component),
		Variables: template.CSS(vars), //nolint:gosec // generated from validated config leaves
		BaseCSS:   template.CSS(baseCSS),
		Header:    b.header(),
	}

	sections := b.sections()
	if b.err != nil {
		return "", &TemplateError{Message: "failed to render markdown", Cause: b.err}
	}
	if component == types.ComponentSingleColumn {
		p.Main = sections
	} else {
		for _, s := range sections {
			if asideSections[s.Key] {
				p.Aside = append(p.Aside, s)
			} else {
				p.Main = append(p.Main, s)
			}
		}
	}

	var out strings.Builder
	if err := pageTemplate.Execute(&out, p); err != nil {
		return "", &TemplateError{Message: "failed to execute template", Cause: err}
	}
	return out.String(), nil
}

func documentTitle(p types.PersonalInfo) string {
	if name := p.FullName(); name != "" {
		return name + " - Resume"
	}
	return "Resume"
}

func bodyClass(cfg design.TemplateConfig, component string) string {
	classes := []string{"component-" + component}
	if cfg.Features.CompactMode {
		classes = append(classes, "compact")
	}
	if cfg.Features.ColoredHeaders {
		classes = append(classes, "colored-headers")
	}
	if cfg.Features.SectionDividers {
		classes = append(classes, "section-dividers")
	}
	if !cfg.Features.ShowIcons {
		classes = append(classes, "no-icons")
	}
	return strings.Join(classes, " ")
}
