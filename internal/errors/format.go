package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorWhite  = "\033[37m"
	colorBold   = "\033[1m"
)

// colorEnabled controls whether ANSI colors are used.
var colorEnabled = true

// DisableColors disables ANSI color output.
func DisableColors() {
	colorEnabled = false
}

// EnableColors enables ANSI color output.
func EnableColors() {
	colorEnabled = true
}

func color(code, text string) string {
	if !colorEnabled {
		return text
	}
	return code + text + colorReset
}

func red(text string) string    { return color(colorRed, text) }
func yellow(text string) string { return color(colorYellow, text) }
func white(text string) string  { return color(colorWhite, text) }
func bold(text string) string   { return color(colorBold, text) }

// Format returns the error formatted for terminal display.
func (e *Error) Format() string {
	var b strings.Builder

	b.WriteString(red(bold("ERROR ")))
	if e.Code != "" {
		b.WriteString(white(bold(e.Code + ": ")))
	}
	b.WriteString(e.Message)
	b.WriteString("\n")

	if e.Detail != "" {
		b.WriteString("\n  ")
		b.WriteString(e.Detail)
		b.WriteString("\n")
	}
	if e.Wrapped != nil {
		b.WriteString("\n  caused by: ")
		b.WriteString(e.Wrapped.Error())
		b.WriteString("\n")
	}
	if e.Suggestion != "" {
		b.WriteString("\n  ")
		b.WriteString(yellow("Hint: "))
		b.WriteString(e.Suggestion)
		b.WriteString("\n")
	}

	return b.String()
}

// Print writes err to w. Structured errors anywhere in the chain are
// printed with Format, preceded by the context wrapped around them.
func Print(w io.Writer, err error) {
	var e *Error
	if !stderrors.As(err, &e) {
		fmt.Fprintf(w, "\n%s %s\n\n", red(bold("ERROR")), err.Error())
		return
	}
	if msg := err.Error(); msg != e.Error() {
		if ctx := strings.TrimSuffix(strings.TrimSuffix(msg, e.Error()), ": "); ctx != msg {
			fmt.Fprintf(w, "%s\n", bold(ctx))
		}
	}
	fmt.Fprint(w, e.Format())
}
