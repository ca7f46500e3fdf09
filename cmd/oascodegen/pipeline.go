package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roberthamel/oascodegen/internal/config"
	"github.com/roberthamel/oascodegen/internal/core"
	"github.com/roberthamel/oascodegen/internal/dialect"
	"github.com/roberthamel/oascodegen/internal/dialect/oas30"
	"github.com/roberthamel/oascodegen/internal/dialect/oas31"
	"github.com/roberthamel/oascodegen/internal/dialect/swagger2"
	"github.com/roberthamel/oascodegen/internal/identifier"
	"github.com/roberthamel/oascodegen/internal/ir"
	"github.com/roberthamel/oascodegen/internal/orchestrator"
	"github.com/roberthamel/oascodegen/internal/transform"
	"github.com/roberthamel/oascodegen/internal/typeshapes"
	"github.com/roberthamel/oascodegen/internal/zodemit"
)

// loadLoader resolves the layered configuration for a run: built-in
// defaults, then an .oascodegen.yaml discovered in the working directory,
// then OASCODEGEN_* environment variables, then cmd's own flags.
func loadLoader(cmd *cobra.Command) (*config.Loader, error) {
	l := config.New(".")
	if err := l.BindFlags(cmd); err != nil {
		return nil, core.New(core.KindConfigError, fmt.Errorf("binding flags: %w", err))
	}
	return l, nil
}

// stringSliceFromLoader reads key off l as a []string, accepting both the
// []string a bound StringSlice flag produces and the []interface{} a YAML
// config file decodes to.
func stringSliceFromLoader(l *config.Loader, key string) []string {
	switch v := l.Get(key).(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// caseFromLoader reads definitions.case off l, falling back to PascalCase
// for an empty or unrecognized value.
func caseFromLoader(l *config.Loader) identifier.Case {
	s, _ := l.Get("definitions.case").(string)
	switch identifier.Case(s) {
	case identifier.CaseCamel, identifier.CasePascal, identifier.CaseSnake, identifier.CaseScreaming, identifier.CasePreserve:
		return identifier.Case(s)
	default:
		return identifier.CasePascal
	}
}

// loadSpec reads and decodes the document at path into a dialect.Doc. Both
// YAML and JSON flow through yaml.v3, which accepts JSON as a YAML subset.
func loadSpec(path string) (dialect.Doc, error) {
	if path == "" {
		return nil, core.New(core.KindConfigError, fmt.Errorf("input path is required (--input or input config key)"))
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, core.New(core.KindConfigError, fmt.Errorf("reading %s: %w", path, err))
	}
	var doc dialect.Doc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, core.New(core.KindSpecError, fmt.Errorf("decoding %s: %w", path, err))
	}
	return doc, nil
}

// parseInto sniffs doc's dialect and dispatches to the matching parser,
// populating ctx.IR.
func parseInto(ctx *core.Context, doc dialect.Doc, filter dialect.Filter) error {
	version, err := dialect.Sniff(doc)
	if err != nil {
		return err
	}
	switch version {
	case dialect.VersionSwagger2:
		return swagger2.Parse(ctx, filter)
	case dialect.VersionOAS30:
		return oas30.Parse(ctx, filter)
	case dialect.VersionOAS31:
		return oas31.Parse(ctx, filter)
	default:
		return core.New(core.KindSpecError, fmt.Errorf("unsupported dialect %q", version))
	}
}

// buildPipeline parses specPath under cfg, runs the configured transforms,
// registers the emission plugins, and resolves the orchestrator's plugin
// order without running it — shared by generate and validate, which
// differ only in whether they execute the resolved order.
func buildPipeline(cfg *core.Config, filter dialect.Filter, specPath string, caseConv identifier.Case) (*core.Context, []string, error) {
	doc, err := loadSpec(specPath)
	if err != nil {
		return nil, nil, err
	}

	model := ir.NewModel()
	ctx := core.NewContext(cfg, model, doc)

	if err := parseInto(ctx, doc, filter); err != nil {
		return nil, nil, err
	}

	scratch := identifier.NewTable()
	enumMode := transform.EnumMode(cfg.EnumsMode)
	if !cfg.EnumsEnabled {
		enumMode = transform.EnumInline
	}
	if err := transform.LiftEnums(model, scratch, enumMode); err != nil {
		return nil, nil, err
	}
	if err := transform.SplitReadWrite(model, cfg.ReadWriteSplit); err != nil {
		return nil, nil, err
	}
	if cfg.ReadWriteSplit {
		transform.RewriteOperationRefs(model)
	}

	registry := ctx.Registry()
	if err := registry.Register(zodemit.New(caseConv, identifier.NameTransformer{}, false)); err != nil {
		return nil, nil, err
	}
	if err := registry.Register(typeshapes.New(caseConv)); err != nil {
		return nil, nil, err
	}

	order, err := orchestrator.Resolve(registry)
	if err != nil {
		return nil, nil, err
	}
	return ctx, order, nil
}
