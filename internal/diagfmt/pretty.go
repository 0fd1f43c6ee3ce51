// Package diagfmt renders diag.Diagnostic values for the fygc CLI.
// Scoped down from the teacher's internal/diagfmt (which additionally
// pretty-prints whole ASTs, JSON, and SARIF for an LSP-adjacent
// toolchain) to the one thing spec.md §7's "single diagnostic, stop at
// first error" driver needs: a colorized, source-excerpt pretty
// printer. Grounded on pretty.go's Pretty function — same header-line
// shape, same gutter/underline construction — with the Fixes/preview
// machinery the teacher built for its fix engine dropped, since Fyg
// has no diagnostic-recovery surface to render (spec.md's Non-goals).
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"fygc/internal/diag"
	"fygc/internal/source"
)

// visualWidthUpTo computes the rendered column width of s up to byteCol
// (1-based byte offset), expanding tabs and accounting for wide runes.
func visualWidthUpTo(s string, byteCol uint32, tabWidth int) int {
	if byteCol <= 1 {
		return 0
	}
	bytePos, visualPos := 0, 0
	for _, r := range s {
		if bytePos >= int(byteCol-1) {
			break
		}
		if r == '\t' {
			visualPos = (visualPos + tabWidth) / tabWidth * tabWidth
		} else {
			visualPos += runewidth.RuneWidth(r)
		}
		bytePos += len(string(r))
	}
	return visualPos
}

// Pretty writes one formatted block per diagnostic in bag (call
// bag.Sort first for deterministic ordering): a header line
// `path:line:col: SEVERITY CODE: message`, a source excerpt with a
// `^~~~` underline under the primary span, then (if requested) notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	errorColor := color.New(color.FgRed, color.Bold)
	warningColor := color.New(color.FgYellow, color.Bold)
	infoColor := color.New(color.FgCyan, color.Bold)
	pathColor := color.New(color.FgWhite, color.Bold)
	codeColor := color.New(color.FgMagenta)
	lineNumColor := color.New(color.FgBlue)
	underlineColor := color.New(color.FgRed, color.Bold)

	prev := color.NoColor
	defer func() { color.NoColor = prev }()
	color.NoColor = !opts.Color

	context, err := safecast.Conv[uint32](opts.Context)
	if err != nil {
		panic(fmt.Errorf("diagfmt: context overflow: %w", err))
	}
	if context == 0 {
		context = 1
	}

	formatPath := func(f *source.File) string {
		switch opts.PathMode {
		case PathModeAbsolute:
			return f.FormatPath("absolute", "")
		case PathModeRelative:
			return f.FormatPath("relative", fs.BaseDir())
		default:
			return f.FormatPath("auto", "")
		}
	}

	for idx, d := range bag.Items() {
		if idx > 0 {
			fmt.Fprintln(w)
		}

		lineColStart, lineColEnd := fs.Resolve(d.Primary)
		f := fs.Get(d.Primary.File)
		displayPath := formatPath(f)

		var sevColored string
		switch d.Severity {
		case diag.SevError:
			sevColored = errorColor.Sprint(d.Severity.String())
		case diag.SevWarning:
			sevColored = warningColor.Sprint(d.Severity.String())
		default:
			sevColored = infoColor.Sprint(d.Severity.String())
		}

		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
			pathColor.Sprint(displayPath), lineColStart.Line, lineColStart.Col,
			sevColored, codeColor.Sprint(d.Code.String()), d.Message)

		totalLines, err := safecast.Conv[uint32](len(f.LineIdx))
		if err != nil {
			panic(fmt.Errorf("diagfmt: total lines overflow: %w", err))
		}
		totalLines++

		startLine := uint32(1)
		if lineColStart.Line > context {
			startLine = lineColStart.Line - context
		}
		endLine := min(lineColStart.Line+context, totalLines)

		if startLine > 1 {
			fmt.Fprintln(w, "...")
		}

		const tabWidth = 8
		lineNumWidth := max(len(fmt.Sprintf("%d", endLine)), 3)

		for lineNum := startLine; lineNum <= endLine; lineNum++ {
			lineText := f.GetLine(lineNum)
			gutter := fmt.Sprintf("%s | ", lineNumColor.Sprint(fmt.Sprintf("%*d", lineNumWidth, lineNum)))
			gutterLen := lineNumWidth + 3

			fmt.Fprint(w, gutter)
			fmt.Fprintln(w, lineText)

			if lineNum != lineColStart.Line {
				continue
			}
			startCol, endCol := lineColStart.Col, lineColEnd.Col
			if lineColEnd.Line > lineColStart.Line {
				lenLineText, err := safecast.Conv[uint32](len(lineText))
				if err != nil {
					panic(fmt.Errorf("diagfmt: line length overflow: %w", err))
				}
				endCol = lenLineText + 1
			}
			visualStart := visualWidthUpTo(lineText, startCol, tabWidth)
			visualEnd := visualWidthUpTo(lineText, endCol, tabWidth)

			var underline strings.Builder
			for range gutterLen {
				underline.WriteByte(' ')
			}
			for range visualStart {
				underline.WriteByte(' ')
			}
			spanLen := visualEnd - visualStart
			if spanLen <= 0 {
				underline.WriteByte('^')
			} else {
				for i := 0; i < spanLen; i++ {
					if i == spanLen-1 {
						underline.WriteByte('^')
					} else {
						underline.WriteByte('~')
					}
				}
			}
			fmt.Fprintln(w, underlineColor.Sprint(underline.String()))
		}

		if endLine < totalLines {
			fmt.Fprintln(w, "...")
		}

		if opts.ShowNotes {
			for _, note := range d.Notes {
				nf := fs.Get(note.Span.File)
				noteStart, _ := fs.Resolve(note.Span)
				fmt.Fprintf(w, "  %s: %s:%d:%d: %s\n",
					infoColor.Sprint("note"), pathColor.Sprint(formatPath(nf)),
					noteStart.Line, noteStart.Col, note.Msg)
			}
		}
	}
}
