package shell

import (
	"fmt"
	"io"
	"strings"
)

// diagf writes a diagnostic line to w, prefixed with argv0.
//
// If format ends with ':', err's message is appended after a space (the Go
// analogue of original_source's logerr appending strerror(errno)).
// Otherwise the formatted message is written as-is. Every diagnostic is
// newline-terminated.
func diagf(w io.Writer, argv0, format string, err error, a ...any) {
	msg := fmt.Sprintf(format, a...)
	var b strings.Builder
	if argv0 != "" {
		b.WriteString(argv0)
		b.WriteString(": ")
	}
	b.WriteString(msg)
	if strings.HasSuffix(msg, ":") && err != nil {
		b.WriteString(" ")
		b.WriteString(err.Error())
	}
	b.WriteString("\n")
	io.WriteString(w, b.String())
}

// diag writes a diagnostic with no underlying error to append.
func diag(w io.Writer, argv0, format string, a ...any) {
	diagf(w, argv0, format, nil, a...)
}
