package document

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const contentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="xml" ContentType="application/xml"/></Types>`

type fixture struct {
	body     string
	comments []string
	// rawComments replaces the generated comments part when set.
	rawComments string
}

func (f fixture) documentXML() string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="` + wordNamespace + `"><w:body>` + f.body +
		`<w:sectPr><w:pgSz w:w="12240" w:h="15840"/></w:sectPr></w:body></w:document>`
}

func (f fixture) commentsXML() string {
	if f.rawComments != "" {
		return f.rawComments
	}
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<w:comments xmlns:w="` + wordNamespace + `">`)
	for i, text := range f.comments {
		b.WriteString(`<w:comment w:id="` + string(rune('0'+i)) + `" w:author="grader">`)
		for _, line := range strings.Split(text, "\n") {
			b.WriteString(`<w:p><w:r><w:t xml:space="preserve">` + escape(line) + `</w:t></w:r></w:p>`)
		}
		b.WriteString(`</w:comment>`)
	}
	b.WriteString(`</w:comments>`)
	return b.String()
}

func escape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(s)
}

func writeFixture(t *testing.T, dir, name string, f fixture) string {
	t.Helper()
	path := filepath.Join(dir, name)
	out, err := os.Create(path)
	require.NoError(t, err)

	zw := zip.NewWriter(out)
	parts := []struct{ name, data string }{
		{"[Content_Types].xml", contentTypes},
		{documentPart, f.documentXML()},
	}
	if f.comments != nil || f.rawComments != "" {
		parts = append(parts, struct{ name, data string }{commentsPart, f.commentsXML()})
	}
	for _, part := range parts {
		w, err := zw.Create(part.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(part.data))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, out.Close())
	return path
}

func paragraph(text string) string {
	return `<w:p><w:r><w:t>` + escape(text) + `</w:t></w:r></w:p>`
}
