package i18n

import (
	"strings"
	"testing"
)

func TestGetCatalogFallback(t *testing.T) {
	base := GetCatalog("en-US")
	if base == nil {
		t.Fatal("expected base catalog")
	}
	fallback := GetCatalog("missing-locale")
	if fallback != base {
		t.Fatal("expected fallback to en-US catalog")
	}
	if GetCatalog("") != base {
		t.Fatal("expected empty locale to use en-US catalog")
	}
}

func TestGetCatalogPortuguese(t *testing.T) {
	cat := GetCatalog("pt-BR")
	if cat == GetCatalog("en-US") {
		t.Fatal("expected a separate pt-BR catalog")
	}
	got := cat.Format("INVALID_GRAMMAR", map[string]string{"Sequence": "2", "Field": "weight"})
	if !strings.Contains(got, "anotação 2") {
		t.Fatalf("unexpected pt-BR message: %q", got)
	}
}

func TestFormatAnnotationMessages(t *testing.T) {
	cat := GetCatalog("en-US")
	got := cat.Format("INVALID_VALUE", map[string]string{
		"Sequence": "3",
		"Field":    "weight",
		"Value":    "11",
		"Min":      "1",
		"Max":      "10",
	})
	want := "Annotation 3 has an invalid weight (11); it must be between 1 and 10. Fix the value and try again."
	if got != want {
		t.Fatalf("Format() = %q, want %q", got, want)
	}

	got = cat.Format("INVALID_GRAMMAR", map[string]string{"Sequence": "1"})
	if got != "Annotation 1 has invalid grammar. Fix the grammar and try again." {
		t.Fatalf("unexpected grammar message: %q", got)
	}
}

func TestFormatFallbacks(t *testing.T) {
	cat := NewCatalog(map[Code]string{
		"code": "hello {{.Name}}",
	})

	if cat.Format("unknown", nil) != "unknown" {
		t.Fatal("expected code fallback when template missing")
	}
	if cat.Format("code", nil) != "hello <no value>" {
		t.Fatal("expected template to render missing metadata")
	}
}

func TestFormatTemplateErrorFallback(t *testing.T) {
	cat := NewCatalog(map[Code]string{
		"code": "{{ if .Name }}",
	})
	if cat.Format("code", map[string]string{"Name": "X"}) != "{{ if .Name }}" {
		t.Fatal("expected template fallback on parse error")
	}
}

func TestGetCatalogNegotiatesRegion(t *testing.T) {
	if GetCatalog("pt") != GetCatalog("pt-BR") {
		t.Fatal("expected pt to resolve to the pt-BR catalog")
	}
}
