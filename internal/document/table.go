package document

import (
	"bytes"
	"encoding/xml"
	"strconv"

	"github.com/louisbranch/jgram/internal/core/assessment"
)

const (
	headingText  = "JGRAM Overall Grade"
	headerShade  = "C0C0C0"
	overallShade = "8FBC8F"
	totalSymbol  = "Σ"
)

var tableHeader = []string{"C#", "Weight", "Grade", "Feedback"}

func writeHeading(b *bytes.Buffer) {
	b.WriteString(`<w:p><w:r><w:rPr><w:b/></w:rPr>`)
	writeText(b, headingText)
	b.WriteString(`</w:r></w:p>`)
}

func writeTable(b *bytes.Buffer, result assessment.Result, token string) {
	b.WriteString(`<w:tbl><w:tblPr><w:tblW w:w="0" w:type="auto"/><w:tblBorders>`)
	for _, side := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		b.WriteString(`<w:` + side + ` w:val="single" w:sz="4" w:space="0" w:color="auto"/>`)
	}
	b.WriteString(`</w:tblBorders></w:tblPr><w:tblGrid>`)
	for range tableHeader {
		b.WriteString(`<w:gridCol/>`)
	}
	b.WriteString(`</w:tblGrid>`)

	b.WriteString(`<w:tr>`)
	for _, heading := range tableHeader {
		writeCell(b, heading, headerShade)
	}
	b.WriteString(`</w:tr>`)

	for id, c := range result.All() {
		b.WriteString(`<w:tr>`)
		writeCell(b, strconv.Itoa(id), "")
		writeCell(b, strconv.Itoa(c.Weight), "")
		writeCell(b, strconv.Itoa(c.Grade), "")
		writeCell(b, c.Feedback, "")
		b.WriteString(`</w:tr>`)
	}

	b.WriteString(`<w:tr>`)
	writeCell(b, "", "")
	writeCell(b, totalSymbol, "")
	writeCell(b, strconv.FormatFloat(result.OverallGrade, 'f', 2, 64), overallShade)
	writeCell(b, token, "")
	b.WriteString(`</w:tr></w:tbl>`)
}

func writeCell(b *bytes.Buffer, text, shade string) {
	b.WriteString(`<w:tc>`)
	if shade != "" {
		b.WriteString(`<w:tcPr><w:shd w:val="clear" w:color="auto" w:fill="` + shade + `"/></w:tcPr>`)
	}
	b.WriteString(`<w:p><w:r>`)
	writeText(b, text)
	b.WriteString(`</w:r></w:p></w:tc>`)
}

func writeText(b *bytes.Buffer, text string) {
	b.WriteString(`<w:t xml:space="preserve">`)
	// Writes to a bytes.Buffer do not fail.
	_ = xml.EscapeText(b, []byte(text))
	b.WriteString(`</w:t>`)
}
