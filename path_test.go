package formskema_test

import (
	"testing"

	formskema "github.com/reoring/formskema"
)

func TestPath_Renderings(t *testing.T) {
	p := formskema.PathOf("items").Index(2).Field("sku")
	if p.Pointer() != "/items/2/sku" || p.String() != "items[2].sku" {
		t.Fatalf("got %q %q", p.Pointer(), p.String())
	}
	if (formskema.Path{}).Pointer() != "" || (formskema.Path{}).String() != "" {
		t.Fatalf("root renderings")
	}
	empty := formskema.PathOf("")
	if empty.Pointer() != "/" || !formskema.ParsePointer("/").Equal(empty) {
		t.Fatalf("the empty key must not collide with the root: %q", empty.Pointer())
	}
	if formskema.ParsePointer("") != nil {
		t.Fatalf("empty pointer is the root")
	}
	esc := formskema.PathOf("a/b", "c~d")
	if esc.Pointer() != "/a~1b/c~0d" {
		t.Fatalf("got %q", esc.Pointer())
	}
	if !formskema.ParsePointer(esc.Pointer()).Equal(esc) {
		t.Fatalf("pointer round trip failed: %v", formskema.ParsePointer(esc.Pointer()))
	}
	if !formskema.ParsePointer("/items/2/sku").Equal(p) {
		t.Fatalf("numeric tokens are indexes")
	}
}

func TestPath_AppendDoesNotAlias(t *testing.T) {
	base := make(formskema.Path, 1, 4)
	base[0] = formskema.Key("a")
	x := base.Field("x")
	y := base.Field("y")
	if x.Pointer() != "/a/x" || y.Pointer() != "/a/y" {
		t.Fatalf("siblings aliased: %s %s", x.Pointer(), y.Pointer())
	}
	if c := base.Concat(formskema.PathOf("b")); c.Pointer() != "/a/b" || len(base) != 1 {
		t.Fatalf("concat: %v", c)
	}
}
