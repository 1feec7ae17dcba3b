package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Formatter styles one kind of output. Without color it falls back to a
// plain prefix and suffix.
type Formatter struct {
	color  *color.Color
	prefix string
	suffix string
}

// Sprint styles the arguments as fmt.Sprint would join them.
func (f Formatter) Sprint(a ...interface{}) string {
	text := fmt.Sprint(a...)
	if noColor() {
		return f.prefix + text + f.suffix
	}
	return f.color.Sprint(text)
}

// Sprintf styles the result of fmt.Sprintf.
func (f Formatter) Sprintf(format string, a ...interface{}) string {
	return f.Sprint(fmt.Sprintf(format, a...))
}

// EnsureNewline appends "\n" unless s already ends with one.
func EnsureNewline(s string) string {
	if len(s) == 0 || s[len(s)-1] != '\n' {
		return s + "\n"
	}
	return s
}

// noColor is true when NO_COLOR is set at all, or when fatih/color has
// decided stdout cannot show color.
func noColor() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return true
	}
	return color.NoColor
}

// Formatters used by whisper's commands.
var (
	// Code marks a whisper invocation the user can run next, such as
	// `whisper keys generate`.
	Code = Formatter{color.New(color.FgYellow), "`", "`"}

	// Path marks the key store, export files and watched files.
	Path = Formatter{color.New(color.FgYellow), "", ""}

	// Flag marks a flag named in a hint, such as --force.
	Flag = Formatter{color.New(color.FgYellow), "", ""}

	// Success marks the ✓ of a completed command and a decrypted plaintext.
	Success = Formatter{color.New(color.FgGreen), "", ""}

	// Error marks the ✗ of a failure, including "Invalid input or key".
	Error = Formatter{color.New(color.FgRed), "", ""}

	// Warning marks the not-ready state and private key export notices.
	Warning = Formatter{color.New(color.FgYellow), "", ""}

	// Info marks the → of a next-step hint and the session prompt.
	Info = Formatter{color.New(color.FgCyan), "", ""}

	// Highlight marks key ids and PEM labels; quoted without color.
	Highlight = Formatter{color.New(color.FgCyan), "'", "'"}

	// Muted marks secondary detail; parenthesized without color.
	Muted = Formatter{color.New(color.FgHiBlack), "(", ")"}

	// Fingerprint marks an emoji fingerprint; bracketed without color so
	// the run of symbols has visible edges.
	Fingerprint = Formatter{color.New(color.FgMagenta), "[", "]"}
)

// Status renders whether a key pair is loaded.
func Status(ready bool) string {
	if ready {
		return Success.Sprint("✓ ready")
	}
	return Warning.Sprint("✗ not ready")
}
