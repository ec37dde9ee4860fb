// Package document reads and writes the parts of a .docx file that grading
// needs: the comment texts, and the result table appended to the body.
//
// Only word/document.xml is ever rewritten. Every other zip entry is copied
// through unchanged.
package document
