package orchestrator

import (
	"errors"
	"testing"

	"github.com/roberthamel/oascodegen/internal/core"
	"github.com/roberthamel/oascodegen/internal/eventbus"
	"github.com/roberthamel/oascodegen/internal/ir"
)

type fakePlugin struct {
	name    string
	deps    []string
	handler func(ctx *core.Context) error
}

func (p fakePlugin) Name() string           { return p.name }
func (p fakePlugin) Dependencies() []string { return p.deps }
func (p fakePlugin) Handler(ctx *core.Context) error {
	if p.handler == nil {
		return nil
	}
	return p.handler(ctx)
}

func TestResolveOrdersDependenciesBeforeDependents(t *testing.T) {
	r := core.NewPluginRegistry()
	_ = r.Register(fakePlugin{name: "zod"})
	_ = r.Register(fakePlugin{name: "typeshapes", deps: []string{"zod"}})
	_ = r.Register(fakePlugin{name: "client", deps: []string{"zod", "typeshapes"}})

	order, err := Resolve(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pos := make(map[string]int, len(order))
	for i, n := range order {
		pos[n] = i
	}
	if pos["zod"] > pos["typeshapes"] {
		t.Errorf("zod must precede typeshapes, got order %v", order)
	}
	if pos["typeshapes"] > pos["client"] {
		t.Errorf("typeshapes must precede client, got order %v", order)
	}
}

func TestResolveFailsOnMissingDependency(t *testing.T) {
	r := core.NewPluginRegistry()
	_ = r.Register(fakePlugin{name: "client", deps: []string{"ghost"}})

	_, err := Resolve(r)
	if err == nil {
		t.Fatal("expected error for missing dependency")
	}
	var coreErr *core.Error
	if !errors.As(err, &coreErr) || coreErr.Kind != core.KindConfigError {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestResolveFailsOnCycle(t *testing.T) {
	r := core.NewPluginRegistry()
	_ = r.Register(fakePlugin{name: "a", deps: []string{"b"}})
	_ = r.Register(fakePlugin{name: "b", deps: []string{"a"}})

	_, err := Resolve(r)
	if err == nil {
		t.Fatal("expected error for dependency cycle")
	}
}

func TestRunBroadcastsBeforeComponentsOperationsServersAfter(t *testing.T) {
	model := ir.NewModel()
	model.AddComponent("#/components/schemas/Pet", &ir.Component{
		Ref: "#/components/schemas/Pet", Kind: ir.ComponentSchema, Schema: &ir.Schema{Kind: ir.KindString},
	})
	pi := model.AddPath("/pets")
	pi.SetOperation("get", ir.NewOperation("listPets", "get", "/pets"))
	model.Servers = []ir.Server{{URL: "https://api.example.com"}}

	ctx := core.NewContext(&core.Config{OutputPath: "out"}, model, nil)

	var seen []string
	subscribe := fakePlugin{name: "recorder", handler: func(ctx *core.Context) error {
		for _, e := range []eventbus.Event{eventbus.Before, eventbus.Schema, eventbus.Operation, eventbus.Server, eventbus.After} {
			evt := e
			ctx.Subscribe(evt, "recorder", func(payload any) error {
				seen = append(seen, string(evt))
				return nil
			})
		}
		return nil
	}}

	registry := core.NewPluginRegistry()
	_ = registry.Register(subscribe)

	if err := Run(ctx, registry, []string{"recorder"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"before", "schema", "operation", "server", "after"}
	if len(seen) != len(want) {
		t.Fatalf("seen = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("seen = %v, want %v", seen, want)
		}
	}
}

func TestRunHaltsOnPluginHandlerError(t *testing.T) {
	model := ir.NewModel()
	ctx := core.NewContext(&core.Config{OutputPath: "out"}, model, nil)

	registry := core.NewPluginRegistry()
	_ = registry.Register(fakePlugin{name: "broken", handler: func(ctx *core.Context) error {
		return errors.New("boom")
	}})

	err := Run(ctx, registry, []string{"broken"})
	if err == nil {
		t.Fatal("expected error")
	}
}
