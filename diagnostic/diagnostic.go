// Copyright © 2024 The StrataRegula authors

// Package diagnostic renders annotated source snippets for problems found
// in configuration files, and locates the line a YAML decode error
// refers to.
package diagnostic

import (
	"regexp"
	"strconv"
)

// Severity indicates the severity level of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	default:
		return "unknown"
	}
}

// Span identifies a region of source code to highlight in the diagnostic.
type Span struct {
	File   string // path for reading source; display name if unreadable
	Line   int    // 1-based line number
	Col    int    // 1-based start column
	EndCol int    // 1-based end column (0 = auto-detect from source)
	Label  string // text shown under the underline
}

// Diagnostic represents a single error, warning, or note with optional
// source annotations and trailing notes.
type Diagnostic struct {
	Severity Severity
	Message  string
	Spans    []Span
	Notes    []string // "= note:" lines
}

// lineRe finds the 1-based line number yaml.v3 puts in its messages.
var lineRe = regexp.MustCompile(`line (\d+)`)

// ErrorLine returns the 1-based line a decode error names, or 0 when the
// message carries no line.
func ErrorLine(err error) int {
	if err == nil {
		return 0
	}
	m := lineRe.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	n, convErr := strconv.Atoi(m[1])
	if convErr != nil || n < 0 {
		return 0
	}
	return n
}

// FromDecodeError describes a file that could not be decoded. The span
// covers the line the error names, if any.
func FromDecodeError(file string, err error, sev Severity) Diagnostic {
	d := Diagnostic{
		Severity: sev,
		Message:  err.Error(),
		Spans:    []Span{{File: file, Line: ErrorLine(err), Col: 1}},
	}
	if sev != SeverityError {
		d.Notes = append(d.Notes, "no patterns were learned from this file")
	}
	return d
}
