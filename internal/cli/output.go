package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"syscall"

	"github.com/fatih/color"

	"github.com/micahkepe/jsongrep/pkg/jsongrep"
)

var pathColor = color.New(color.FgCyan, color.Bold)

// printer renders matches to the output stream.
type printer struct {
	out      io.Writer
	compact  bool
	color    bool
	withPath bool
}

func (p *printer) line(s string) error {
	_, err := fmt.Fprintln(p.out, s)
	return err
}

func (p *printer) printMatches(matches []jsongrep.Match) error {
	for _, m := range matches {
		if p.withPath {
			if err := p.line(p.header(m.Path)); err != nil {
				return err
			}
		}
		rendered, err := renderValue(m.Value, p.compact)
		if err != nil {
			return err
		}
		if err := p.line(rendered); err != nil {
			return err
		}
	}
	return nil
}

// header renders a match's path as "$" for the root, then ".field" and
// "[index]" steps. Field names are written as-is: names containing
// characters the query language reserves are not quoted.
func (p *printer) header(path []jsongrep.PathStep) string {
	var sb strings.Builder
	sb.WriteByte('$')
	for _, step := range path {
		if step.Tag == jsongrep.StepIndex {
			fmt.Fprintf(&sb, "[%d]", step.Index)
			continue
		}
		sb.WriteByte('.')
		sb.WriteString(step.Field)
	}
	if p.color {
		return pathColor.Sprint(sb.String())
	}
	return sb.String()
}

func renderValue(v jsongrep.Value, compact bool) (string, error) {
	raw, err := v.MarshalJSON()
	if err != nil {
		return "", err
	}
	if compact {
		return string(raw), nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// isBrokenPipe reports whether err is a write failure caused by the
// consumer closing the output stream, which is a clean exit for a filter
// program.
func isBrokenPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE)
}
