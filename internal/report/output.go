package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"pysema/internal/diag"
	"pysema/internal/source"
)

// Format selects how Write renders a batch's diagnostics.
type Format uint8

const (
	FormatText Format = iota
	FormatJSON
)

// jsonDiagnostic is the stable on-the-wire shape for FormatJSON, independent
// of diag.Diagnostic's internal field layout.
type jsonDiagnostic struct {
	File     string `json:"file"`
	Line     uint32 `json:"line"`
	Col      uint32 `json:"col"`
	EndLine  uint32 `json:"end_line"`
	EndCol   uint32 `json:"end_col"`
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

// Write renders every diagnostic in items to w in the requested format. The
// file set resolves each diagnostic's span back to a path and line/column.
// Grounded on the teacher's color-gating pattern for text output (fatih/color
// with a golang.org/x/term IsTerminal check deciding whether the severity
// colors are disabled), generalized here to also cover a plain JSON mode for
// non-TTY consumers (§6's "text or JSON" CLI surface).
func Write(w io.Writer, fs *source.FileSet, items []diag.Diagnostic, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, fs, items)
	default:
		return writeText(w, fs, items)
	}
}

func writeJSON(w io.Writer, fs *source.FileSet, items []diag.Diagnostic) error {
	out := make([]jsonDiagnostic, len(items))
	for i, d := range items {
		start, end := fs.Resolve(d.Primary)
		out[i] = jsonDiagnostic{
			File:     fs.Get(d.Primary.File).Path,
			Line:     start.Line,
			Col:      start.Col,
			EndLine:  end.Line,
			EndCol:   end.Col,
			Severity: d.Severity.String(),
			Code:     d.Code.String(),
			Message:  d.Message,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeText(w io.Writer, fs *source.FileSet, items []diag.Diagnostic) error {
	errColor := color.New(color.FgRed, color.Bold)
	warnColor := color.New(color.FgYellow, color.Bold)
	noteColor := color.New(color.FgCyan)
	if f, ok := w.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		errColor.DisableColor()
		warnColor.DisableColor()
		noteColor.DisableColor()
	}

	for _, d := range items {
		start, _ := fs.Resolve(d.Primary)
		path := fs.Get(d.Primary.File).Path
		sevColor := warnColor
		if d.Severity >= diag.SevError {
			sevColor = errColor
		}
		if _, err := fmt.Fprintf(w, "%s:%d:%d: %s [%s] %s\n",
			path, start.Line, start.Col, sevColor.Sprint(d.Severity.String()), d.Code.String(), d.Message); err != nil {
			return err
		}
		for _, n := range d.Notes {
			ns, _ := fs.Resolve(n.Span)
			if _, err := fmt.Fprintf(w, "    %s %s:%d:%d: %s\n", noteColor.Sprint("note:"), path, ns.Line, ns.Col, n.Msg); err != nil {
				return err
			}
		}
	}
	return nil
}

// Summary counts diagnostics by severity across a batch; cmd/pysema uses the
// error count to decide its exit status.
func Summary(items []diag.Diagnostic) (errs, warns int) {
	for _, d := range items {
		switch {
		case d.Severity >= diag.SevError:
			errs++
		case d.Severity == diag.SevWarning:
			warns++
		}
	}
	return errs, warns
}
