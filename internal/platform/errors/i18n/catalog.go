// Package i18n renders user-facing messages for domain error codes.
package i18n

import (
	"strings"
	"sync"
	"text/template"

	i18ncatalog "github.com/louisbranch/jgram/internal/platform/i18n/catalog"
)

// errorsNamespace is the catalog namespace holding one template per code.
const errorsNamespace = "errors"

// Code is an error code string. The errors package imports nothing from
// here, so the type is an alias rather than a shared definition.
type Code = string

// Catalog holds the error message templates of one locale.
type Catalog struct {
	raw       map[Code]string
	templates map[Code]*template.Template
}

// catalogs caches one Catalog per resolved locale.
var catalogs sync.Map

// GetCatalog returns the catalog for the closest supported locale, falling
// back to the base locale.
func GetCatalog(locale string) *Catalog {
	bundle := i18ncatalog.Default()
	resolved := bundle.Resolve(strings.TrimSpace(locale))
	if cached, ok := catalogs.Load(resolved); ok {
		return cached.(*Catalog)
	}
	_, messages := bundle.NamespaceMessagesWithFallback(resolved, errorsNamespace)
	cached, _ := catalogs.LoadOrStore(resolved, NewCatalog(messages))
	return cached.(*Catalog)
}

// NewCatalog compiles messages. A message that is not a valid template is
// kept and rendered verbatim.
func NewCatalog(messages map[Code]string) *Catalog {
	c := &Catalog{
		raw:       make(map[Code]string, len(messages)),
		templates: make(map[Code]*template.Template, len(messages)),
	}
	for code, text := range messages {
		c.raw[code] = text
		if tmpl, err := template.New(code).Parse(text); err == nil {
			c.templates[code] = tmpl
		}
	}
	return c
}

// Format renders the message for code with metadata. Unknown codes render
// as the code itself.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	text, ok := c.raw[code]
	if !ok {
		return code
	}
	tmpl, ok := c.templates[code]
	if !ok {
		return text
	}
	if metadata == nil {
		metadata = map[string]string{}
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, metadata); err != nil {
		return text
	}
	return b.String()
}
