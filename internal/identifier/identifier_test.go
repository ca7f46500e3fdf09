package identifier

import "testing"

func TestIdentifierCreateThenLookup(t *testing.T) {
	tbl := NewTable()

	first := tbl.Identifier(Request{Ref: "#/components/schemas/Pet", Case: CasePascal, Namespace: NamespaceValue, Create: true})
	if !first.Created {
		t.Fatal("expected Created=true on first creation")
	}
	if first.Name != "Pet" {
		t.Errorf("Name = %q, want %q", first.Name, "Pet")
	}

	second := tbl.Identifier(Request{Ref: "#/components/schemas/Pet", Case: CasePascal, Namespace: NamespaceValue, Create: true})
	if second.Created {
		t.Error("expected Created=false on repeat lookup")
	}
	if second.Name != "Pet" {
		t.Errorf("repeat Name = %q, want %q", second.Name, "Pet")
	}
}

func TestIdentifierNotYetCreatedSentinel(t *testing.T) {
	tbl := NewTable()
	id := tbl.Identifier(Request{Ref: "#/components/schemas/Pet", Case: CasePascal, Namespace: NamespaceValue, Create: false})
	if id.Created {
		t.Error("expected Created=false")
	}
	if id.Name != "" {
		t.Errorf("expected empty-name sentinel, got %q", id.Name)
	}
}

func TestIdentifierCollision(t *testing.T) {
	tbl := NewTable()
	a := tbl.Identifier(Request{Ref: "#/components/schemas/pet", Case: CasePascal, Namespace: NamespaceValue, Create: true})
	b := tbl.Identifier(Request{Ref: "#/components/schemas/Pet", Case: CasePascal, Namespace: NamespaceValue, Create: true})
	if a.Name != "Pet" {
		t.Errorf("a.Name = %q, want %q", a.Name, "Pet")
	}
	if b.Name != "Pet2" {
		t.Errorf("b.Name = %q, want %q", b.Name, "Pet2")
	}
}

func TestIdentifierNamespacesDoNotCollide(t *testing.T) {
	tbl := NewTable()
	value := tbl.Identifier(Request{Ref: "#/components/schemas/Pet", Case: CasePascal, Namespace: NamespaceValue, Create: true})
	typ := tbl.Identifier(Request{Ref: "#/components/schemas/Pet", Case: CasePascal, Namespace: NamespaceType, Create: true})
	if value.Name != "Pet" || typ.Name != "Pet" {
		t.Errorf("expected both namespaces to get base name Pet, got %q and %q", value.Name, typ.Name)
	}
}

func TestIdentifierNameTransformerPattern(t *testing.T) {
	tbl := NewTable()
	id := tbl.Identifier(Request{
		Ref:             "#/components/schemas/Pet",
		Case:            CasePascal,
		Namespace:       NamespaceValue,
		Create:          true,
		NameTransformer: NameTransformer{Pattern: "{{name}}Schema"},
	})
	if id.Name != "PetSchema" {
		t.Errorf("Name = %q, want %q", id.Name, "PetSchema")
	}
}
