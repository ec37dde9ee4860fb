package document

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/jgram/internal/core/assessment"
	apperrors "github.com/louisbranch/jgram/internal/platform/errors"
)

const (
	documentPart = "word/document.xml"
	commentsPart = "word/comments.xml"
)

type entry struct {
	name     string
	method   uint16
	modified time.Time
	data     []byte
}

// Docx is a .docx file loaded into memory.
type Docx struct {
	path    string
	entries []entry
}

// Open loads the .docx at path.
func Open(path string) (*Docx, error) {
	metadata := map[string]string{"Path": path}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.WrapWithMetadata(apperrors.CodeNotFound, fmt.Sprintf("document %s not found", path), metadata, err)
		}
		return nil, apperrors.WrapWithMetadata(apperrors.CodeDocumentUnreadable, fmt.Sprintf("stat document %s", path), metadata, err)
	}

	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, apperrors.WrapWithMetadata(apperrors.CodeDocumentUnreadable, fmt.Sprintf("open document %s", path), metadata, err)
	}
	defer reader.Close()

	doc := &Docx{path: path}
	for _, f := range reader.File {
		data, err := readEntry(f)
		if err != nil {
			return nil, apperrors.WrapWithMetadata(apperrors.CodeDocumentUnreadable, fmt.Sprintf("read %s in %s", f.Name, path), metadata, err)
		}
		doc.entries = append(doc.entries, entry{
			name:     f.Name,
			method:   f.Method,
			modified: f.Modified,
			data:     data,
		})
	}
	if _, ok := doc.part(documentPart); !ok {
		return nil, apperrors.WithMetadata(apperrors.CodeDocumentUnreadable, fmt.Sprintf("document %s has no %s", path, documentPart), metadata)
	}
	return doc, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Name returns the file name of the document.
func (d *Docx) Name() string {
	return filepath.Base(d.path)
}

func (d *Docx) part(name string) ([]byte, bool) {
	for _, e := range d.entries {
		if e.name == name {
			return e.data, true
		}
	}
	return nil, false
}

func (d *Docx) body() (*element, []byte, error) {
	data, _ := d.part(documentPart)
	root, err := parseTree(data)
	if err != nil {
		return nil, nil, d.unreadable(documentPart, err)
	}
	var body *element
	if document := root.child("document"); document != nil {
		body = document.child("body")
	}
	if body == nil {
		return nil, nil, d.unreadable(documentPart, errors.New("missing w:body"))
	}
	return body, data, nil
}

func (d *Docx) unreadable(part string, cause error) error {
	return apperrors.WrapWithMetadata(apperrors.CodeDocumentUnreadable,
		fmt.Sprintf("read %s in %s", part, d.Name()),
		map[string]string{"Path": d.path},
		cause)
}

// Comments returns the text of every comment in the order they appear in
// the comments part. A document without comments yields an empty list.
func (d *Docx) Comments(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, ok := d.part(commentsPart)
	if !ok {
		return []string{}, nil
	}
	root, err := parseTree(data)
	if err != nil {
		return nil, d.unreadable(commentsPart, err)
	}
	container := root.child("comments")
	if container == nil {
		return []string{}, nil
	}
	comments := container.childrenNamed("comment")
	out := make([]string, 0, len(comments))
	for _, c := range comments {
		out = append(out, c.plainText())
	}
	return out, nil
}

// ResultToken returns the signed token held by the last result table in
// the body. found is false when the document has no result table.
func (d *Docx) ResultToken(ctx context.Context) (token string, found bool, err error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	body, _, err := d.body()
	if err != nil {
		return "", false, err
	}
	table := lastResultTable(body)
	if table == nil {
		return "", false, nil
	}
	rows := table.childrenNamed("tr")
	cells := rows[len(rows)-1].childrenNamed("tc")
	if len(cells) < len(tableHeader) {
		return "", true, nil
	}
	return strings.TrimSpace(cells[len(tableHeader)-1].plainText()), true, nil
}

// WriteResultTable appends the result table and its heading to the body and
// saves the document. It refuses to write a second result table.
func (d *Docx) WriteResultTable(ctx context.Context, result assessment.Result, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, data, err := d.body()
	if err != nil {
		return err
	}
	if lastResultTable(body) != nil {
		return apperrors.WithMetadata(apperrors.CodeResultExists,
			fmt.Sprintf("document %s already has a result table", d.Name()),
			map[string]string{"Path": d.path})
	}

	insertAt := body.closeStart
	if sectPr := lastChild(body, "sectPr"); sectPr != nil {
		insertAt = sectPr.start
	}

	var fragment bytes.Buffer
	if !hasHeading(body) {
		writeHeading(&fragment)
	}
	writeTable(&fragment, result, token)

	updated := make([]byte, 0, len(data)+fragment.Len())
	updated = append(updated, data[:insertAt]...)
	updated = append(updated, fragment.Bytes()...)
	updated = append(updated, data[insertAt:]...)

	entries := make([]entry, len(d.entries))
	copy(entries, d.entries)
	for i := range entries {
		if entries[i].name == documentPart {
			entries[i].data = updated
		}
	}
	if err := writeAtomic(d.path, entries); err != nil {
		return apperrors.WrapWithMetadata(apperrors.CodeDocumentUnreadable,
			fmt.Sprintf("save document %s", d.Name()),
			map[string]string{"Path": d.path},
			err)
	}
	d.entries = entries
	return nil
}

func lastChild(e *element, local string) *element {
	var last *element
	for _, c := range e.children {
		if c.is(local) {
			last = c
		}
	}
	return last
}

// lastResultTable finds the last top-level table whose first cell reads C#.
func lastResultTable(body *element) *element {
	var found *element
	for _, table := range body.childrenNamed("tbl") {
		rows := table.childrenNamed("tr")
		if len(rows) == 0 {
			continue
		}
		cells := rows[0].childrenNamed("tc")
		if len(cells) == 0 {
			continue
		}
		if strings.TrimSpace(cells[0].plainText()) == tableHeader[0] {
			found = table
		}
	}
	return found
}

func hasHeading(body *element) bool {
	for _, p := range body.childrenNamed("p") {
		if strings.TrimSpace(p.runText()) == headingText {
			return true
		}
	}
	return false
}

// writeAtomic writes entries to a temporary file next to path and renames
// it over path.
func writeAtomic(path string, entries []entry) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".jgram-*.docx")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	zw := zip.NewWriter(tmp)
	for _, e := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: e.name, Method: e.method, Modified: e.modified})
		if err != nil {
			_ = tmp.Close()
			return err
		}
		if _, err := w.Write(e.data); err != nil {
			_ = tmp.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if info, statErr := os.Stat(path); statErr == nil {
		_ = os.Chmod(tmp.Name(), info.Mode().Perm())
	}
	return os.Rename(tmp.Name(), path)
}
