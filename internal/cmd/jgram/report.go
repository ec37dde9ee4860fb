package jgram

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/text/message"

	"github.com/louisbranch/jgram/internal/core/assessment"
	"github.com/louisbranch/jgram/internal/grading"
	"github.com/louisbranch/jgram/internal/integrity"
	apperrors "github.com/louisbranch/jgram/internal/platform/errors"
	errori18n "github.com/louisbranch/jgram/internal/platform/errors/i18n"
	"github.com/louisbranch/jgram/internal/platform/i18n/catalog"
)

const (
	statusSuccess = "SUCCESS"
	statusFailure = "FAILURE"
)

type reporter struct {
	out     io.Writer
	printer *message.Printer
	errors  *errori18n.Catalog

	good   lipgloss.Style
	bad    lipgloss.Style
	muted  lipgloss.Style
	header lipgloss.Style
	cell   lipgloss.Style
}

func newReporter(out io.Writer, locale string) *reporter {
	renderer := lipgloss.NewRenderer(out)
	return &reporter{
		out:     out,
		printer: catalog.Default().Printer(locale),
		errors:  errori18n.GetCatalog(locale),
		good:    renderer.NewStyle().Foreground(lipgloss.Color("#2CD7C7")),
		bad:     renderer.NewStyle().Foreground(lipgloss.Color("#E74C3C")).Bold(true),
		muted:   renderer.NewStyle().Foreground(lipgloss.Color("#2C4A54")),
		header:  renderer.NewStyle().Bold(true).Padding(0, 1),
		cell:    renderer.NewStyle().Padding(0, 1),
	}
}

func (r *reporter) status(value string, ok bool) string {
	if ok {
		return r.good.Render(value)
	}
	return r.bad.Render(value)
}

// describe renders err for the reader in the report locale.
func (r *reporter) describe(err error) string {
	if domainErr, ok := apperrors.As(err); ok {
		return r.errors.Format(string(domainErr.Code), domainErr.Metadata)
	}
	return err.Error()
}

func (r *reporter) detail(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(r.out, r.muted.Render("  "+r.describe(err)))
}

// grade reports one graded document and whether it needs attention.
func (r *reporter) grade(outcome grading.GradeOutcome) bool {
	if outcome.Err != nil {
		fmt.Fprintln(r.out, r.printer.Sprintf("report.document", outcome.Name, r.status(statusFailure, false)))
		r.detail(outcome.Err)
		return true
	}
	fmt.Fprintln(r.out, r.printer.Sprintf("report.document", outcome.Name, r.status(statusSuccess, true)))
	fmt.Fprintln(r.out, "  "+r.printer.Sprintf("report.overall", outcome.Graded.Result.OverallGrade))
	return false
}

// check reports one new-document test.
func (r *reporter) check(outcome grading.CheckOutcome) bool {
	status := outcome.Checked.Status
	fmt.Fprintln(r.out, r.printer.Sprintf("report.document", outcome.Name, r.status(string(status), status == grading.CheckValid)))
	switch status {
	case grading.CheckValid:
		return false
	case grading.CheckInvalid:
		fmt.Fprintln(r.out, r.muted.Render("  "+r.printer.Sprintf("report.checkpoints", outcome.Checked.Checkpoints)))
	default:
		r.detail(outcome.Checked.Err)
	}
	return true
}

// verify reports one tamper test. The signed result is printed for cross
// reference whenever the document is not valid.
func (r *reporter) verify(outcome grading.VerifyOutcome) bool {
	verdict := outcome.Verdict
	tokenStatus := tokenStatus(verdict)
	fmt.Fprintln(r.out, r.printer.Sprintf("report.verify",
		outcome.Name,
		r.status(string(verdict.Status), verdict.Status == integrity.StatusValid),
		r.status(string(tokenStatus), tokenStatus == integrity.StatusValid),
	))
	if verdict.Status == integrity.StatusValid {
		return false
	}
	r.detail(verdict.Err)
	if verdict.Signed != nil {
		r.signed(*verdict.Signed)
	}
	return true
}

func tokenStatus(verdict integrity.Verdict) integrity.Status {
	switch {
	case verdict.Signed != nil:
		return integrity.StatusValid
	case verdict.TokenErr != nil:
		return integrity.StatusTampered
	default:
		return integrity.StatusUndetermined
	}
}

func (r *reporter) signed(result assessment.Result) {
	rows := make([][]string, 0, result.Len()+1)
	for id, c := range result.All() {
		rows = append(rows, []string{strconv.Itoa(id), strconv.Itoa(c.Weight), strconv.Itoa(c.Grade), c.Feedback})
	}
	rows = append(rows, []string{"", "Σ", r.printer.Sprintf("%.2f", result.OverallGrade), ""})

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.muted).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.header
			}
			return r.cell
		}).
		Headers("C#", "Weight", "Grade", "Feedback").
		Rows(rows...)

	fmt.Fprintln(r.out, r.printer.Sprintf("report.signed_title"))
	fmt.Fprintln(r.out, t.Render())
}

func (r *reporter) summary(total, attention int) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.printer.Sprintf("report.summary", total, attention))
}
