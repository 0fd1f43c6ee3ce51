package diag

import "fygc/internal/source"

// Reporter is the minimal contract phases report diagnostics through.
// BagReporter accumulates into a Bag; FirstErrorReporter keeps only
// the first error, since spec §7 stops at the first error rather than
// batching. The `fygc` driver uses neither: buildpipeline.Run stops by
// returning the first error it meets.
type Reporter interface {
	Report(d Diagnostic)
}

// BagReporter adapts a Bag to the Reporter interface.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(d)
}

// FirstErrorReporter records only the first SevError it sees; later
// calls are no-ops. This is the "no batching, no dedup" shape spec §7
// requires of the top-level driver.
type FirstErrorReporter struct {
	first *Diagnostic
}

func (r *FirstErrorReporter) Report(d Diagnostic) {
	if r.first == nil && d.Severity == SevError {
		cp := d
		r.first = &cp
	}
}

// First returns the first reported error, if any.
func (r *FirstErrorReporter) First() (Diagnostic, bool) {
	if r.first == nil {
		return Diagnostic{}, false
	}
	return *r.first, true
}

// HasError reports whether an error has been recorded.
func (r *FirstErrorReporter) HasError() bool {
	return r.first != nil
}

var _ Reporter = (*BagReporter)(nil)
var _ Reporter = (*FirstErrorReporter)(nil)

// ReportBuilder accumulates diagnostic details before emitting,
// mirroring the teacher's fluent WithNote(...).Emit() call sites.
type ReportBuilder struct {
	reporter Reporter
	diag     Diagnostic
	emitted  bool
}

func NewReportBuilder(r Reporter, sev Severity, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{reporter: r, diag: New(sev, code, primary, msg)}
}

func ReportError(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevError, code, primary, msg)
}

func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag = b.diag.WithNote(sp, msg)
	return b
}

func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	if b.reporter != nil {
		b.reporter.Report(b.diag)
	}
	b.emitted = true
}

func (b *ReportBuilder) Diagnostic() Diagnostic {
	if b == nil {
		return Diagnostic{}
	}
	return b.diag
}
