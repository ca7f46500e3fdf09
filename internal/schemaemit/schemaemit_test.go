package schemaemit

import (
	"strings"
	"testing"

	"github.com/roberthamel/oascodegen/internal/identifier"
	"github.com/roberthamel/oascodegen/internal/ir"
)

func intPtr(i int) *int { return &i }

func TestEmitComponentObjectWithBigintAndMinLength(t *testing.T) {
	model := ir.NewModel()
	pet := &ir.Schema{Kind: ir.KindObject, Required: map[string]bool{"id": true}}
	pet.SetProperty("id", &ir.Schema{Kind: ir.KindInteger, Format: "int64"})
	pet.SetProperty("name", &ir.Schema{Kind: ir.KindString, MinLength: intPtr(1)})
	model.AddComponent("#/components/schemas/Pet", &ir.Component{Ref: "#/components/schemas/Pet", Kind: ir.ComponentSchema, Schema: pet})

	e := New(model, identifier.NewTable(), identifier.CasePascal, identifier.NameTransformer{}, false)
	name, err := e.EmitComponent("#/components/schemas/Pet")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "Pet" {
		t.Fatalf("name = %q, want Pet", name)
	}
	if len(e.Declarations) != 1 {
		t.Fatalf("expected exactly one declaration, got %d", len(e.Declarations))
	}
	want := "const Pet = S.object({ id: S.coerce.bigint(), name: S.string().min(1).optional() })"
	if e.Declarations[0] != want {
		t.Errorf("declaration =\n%q\nwant\n%q", e.Declarations[0], want)
	}
}

func TestEmitComponentCircularReferenceUsesExactlyOneLazy(t *testing.T) {
	model := ir.NewModel()
	a := &ir.Schema{Kind: ir.KindObject}
	a.SetProperty("b", &ir.Schema{Kind: ir.KindRef, Ref: "#/components/schemas/B"})
	b := &ir.Schema{Kind: ir.KindObject}
	b.SetProperty("a", &ir.Schema{Kind: ir.KindRef, Ref: "#/components/schemas/A"})
	model.AddComponent("#/components/schemas/A", &ir.Component{Ref: "#/components/schemas/A", Kind: ir.ComponentSchema, Schema: a})
	model.AddComponent("#/components/schemas/B", &ir.Component{Ref: "#/components/schemas/B", Kind: ir.ComponentSchema, Schema: b})

	e := New(model, identifier.NewTable(), identifier.CasePascal, identifier.NameTransformer{}, false)
	if _, err := e.EmitComponent("#/components/schemas/A"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(e.Declarations) != 2 {
		t.Fatalf("expected both A and B declared, got %d: %v", len(e.Declarations), e.Declarations)
	}

	lazyCount := 0
	for _, decl := range e.Declarations {
		if strings.Contains(decl, "S.lazy(") {
			lazyCount++
		}
		if !strings.Contains(decl, "S.AnyObjectSchema") {
			t.Errorf("expected every cyclic declaration to carry S.AnyObjectSchema, got: %s", decl)
		}
	}
	if lazyCount != 1 {
		t.Errorf("expected exactly one S.lazy() across the cycle, got %d in %v", lazyCount, e.Declarations)
	}
}

func TestEmitEnumWithNullMemberIsNullable(t *testing.T) {
	s := &ir.Schema{Kind: ir.KindEnum, EnumMembers: []*ir.Schema{
		{Kind: ir.KindString, Const: "red"},
		{Kind: ir.KindString, Const: "green"},
		{Kind: ir.KindNull},
	}}
	e := New(ir.NewModel(), identifier.NewTable(), identifier.CasePascal, identifier.NameTransformer{}, false)
	got, err := e.EmitInline(s, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `S.enum(["red", "green"]).nullable()`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEmitOperationBundleWithNoParametersOrBody(t *testing.T) {
	op := ir.NewOperation("listPets", "get", "/pets")
	e := New(ir.NewModel(), identifier.NewTable(), identifier.CasePascal, identifier.NameTransformer{}, false)
	got, err := e.EmitOperationBundle(op)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "S.object({ body: S.never(), headers: S.never(), path: S.never(), query: S.never() })"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEmitObjectAdditionalPropertiesModifiers(t *testing.T) {
	cases := []struct {
		name string
		ap   *ir.AdditionalProperties
		want string
	}{
		{"absent", nil, "S.object({})"},
		{"explicitTrue", &ir.AdditionalProperties{Allowed: true}, "S.object({})"},
		{"false", &ir.AdditionalProperties{Allowed: false}, "S.object({}).strict()"},
		{"schema", &ir.AdditionalProperties{Allowed: true, Schema: &ir.Schema{Kind: ir.KindString}}, "S.object({}).catchall(S.string())"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := &ir.Schema{Kind: ir.KindObject, AdditionalProperties: c.ap}
			e := New(ir.NewModel(), identifier.NewTable(), identifier.CasePascal, identifier.NameTransformer{}, false)
			got, err := e.EmitInline(s, false)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != c.want {
				t.Errorf("got %q, want %q", got, c.want)
			}
		})
	}
}

func TestEmitStringConstEmitsLiteral(t *testing.T) {
	s := &ir.Schema{Kind: ir.KindString, Const: "fixed"}
	e := New(ir.NewModel(), identifier.NewTable(), identifier.CasePascal, identifier.NameTransformer{}, false)
	got, err := e.EmitInline(s, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `S.literal("fixed")` {
		t.Errorf("got %q", got)
	}
}

func TestEmitIntegerInt64ConstEmitsBigIntLiteral(t *testing.T) {
	s := &ir.Schema{Kind: ir.KindInteger, Format: "int64", Const: float64(42)}
	e := New(ir.NewModel(), identifier.NewTable(), identifier.CasePascal, identifier.NameTransformer{}, false)
	got, err := e.EmitInline(s, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "S.literal(BigInt(42))" {
		t.Errorf("got %q, want S.literal(BigInt(42))", got)
	}
}

func TestEmitCompositeAndWithArrayMemberDegradesToUnknown(t *testing.T) {
	s := &ir.Schema{
		Kind:            ir.KindComposite,
		LogicalOperator: ir.LogicalAnd,
		Items: []*ir.Schema{
			{Kind: ir.KindObject},
			{Kind: ir.KindArray, Items: []*ir.Schema{{Kind: ir.KindString}}},
		},
	}
	e := New(ir.NewModel(), identifier.NewTable(), identifier.CasePascal, identifier.NameTransformer{}, false)
	got, err := e.EmitInline(s, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "S.intersection([S.object({}), S.unknown()])"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
