// Package typeshapes is a supplemental plugin that renders a
// human-readable Markdown type-shape reference per object schema
// component, independent of the validator-schema emission
// internal/schemaemit performs. It exists to exercise the Plugin
// Orchestrator's multi-plugin ordering and the File Registry's
// multi-plugin-per-file discipline with a second, genuinely different
// output (SPEC_FULL.md's DOMAIN STACK).
package typeshapes

import (
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/roberthamel/oascodegen/internal/core"
	"github.com/roberthamel/oascodegen/internal/eventbus"
	"github.com/roberthamel/oascodegen/internal/identifier"
	"github.com/roberthamel/oascodegen/internal/ir"
)

const pluginName = "typeshapes"

const fileID = "typeshapes-reference"

var shapeTemplate = template.Must(template.New("shape").Funcs(sprig.FuncMap()).Parse(
	strings.TrimSpace(`
## {{ .Name | title }}

{{ if .Description }}{{ .Description }}{{ else }}_no description_{{ end }}

| Field | Required | Type |
|---|---|---|
{{- range .Fields }}
| {{ .Name }} | {{ if .Required }}yes{{ else }}no{{ end }} | {{ .Type }} |
{{- end }}
`) + "\n",
))

type fieldRow struct {
	Name     string
	Required bool
	Type     string
}

type shapeView struct {
	Name        string
	Description string
	Fields      []fieldRow
}

// Plugin renders one Markdown section per object schema component into a
// single reference file.
type Plugin struct {
	Case identifier.Case
}

// New returns a typeshapes plugin using the given identifier case for
// component headings.
func New(caseConv identifier.Case) *Plugin {
	return &Plugin{Case: caseConv}
}

func (p *Plugin) Name() string           { return pluginName }
func (p *Plugin) Dependencies() []string { return nil }

// Handler subscribes to the schema event and appends a rendered section
// for every object schema component to the shared reference file.
func (p *Plugin) Handler(ctx *core.Context) error {
	file := ctx.CreateFile(fileID, "TYPESHAPES.md", p.Case, false)

	ctx.Subscribe(eventbus.Schema, pluginName, func(payload any) error {
		comp, ok := payload.(*ir.Component)
		if !ok || comp.Kind != ir.ComponentSchema || comp.Schema == nil {
			return nil
		}
		if comp.Schema.Kind != ir.KindObject {
			return nil
		}

		id := ctx.Files.File(fileID).Identifiers.Identifier(identifier.Request{
			Ref: comp.Ref, Case: p.Case, Namespace: identifier.NamespaceType, Create: true,
		})

		section, err := render(id.Name, comp.Schema)
		if err != nil {
			return err
		}
		file.Add(section)
		return nil
	})
	return nil
}

func render(name string, s *ir.Schema) (string, error) {
	view := shapeView{Name: name, Description: s.Description}
	for _, propName := range s.PropertyOrder {
		prop := s.Properties[propName]
		view.Fields = append(view.Fields, fieldRow{
			Name:     propName,
			Required: s.IsRequired(propName),
			Type:     string(prop.Kind),
		})
	}

	var b strings.Builder
	if err := shapeTemplate.Execute(&b, view); err != nil {
		return "", core.New(core.KindEmissionError, err)
	}
	return b.String(), nil
}
