// Package cli renders agent results for the terminal.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"fxagent/internal/agent"
)

// ANSI Color codes
const (
	ColorReset = "\033[0m"
	ColorRed   = "\033[31m"
	ColorGreen = "\033[32m"
	ColorCyan  = "\033[36m"
	ColorGray  = "\033[90m"
	ColorBold  = "\033[1m"
)

// Writer prints results with optional color
type Writer struct {
	writer    io.Writer
	colorMode bool
}

func NewWriter(w io.Writer) *Writer {
	if w == nil {
		w = os.Stdout
	}
	return &Writer{
		writer:    w,
		colorMode: true,
	}
}

func (w *Writer) SetColorMode(enabled bool) {
	w.colorMode = enabled
}

// WriteLine writes a line to the output
func (w *Writer) WriteLine(content string) {
	fmt.Fprintln(w.writer, content)
}

// WriteColored writes colored content if color mode is enabled
func (w *Writer) WriteColored(content, color string) {
	if w.colorMode {
		fmt.Fprintf(w.writer, "%s%s%s", color, content, ColorReset)
	} else {
		fmt.Fprint(w.writer, content)
	}
}

// Result prints a query result. Failures go out in red with their cause.
func (w *Writer) Result(res *agent.QueryResult) {
	if res.Success {
		w.WriteLine(res.Response)
		return
	}

	cause := "unknown error"
	if res.Error != nil {
		cause = *res.Error
	}
	w.WriteColored("Agent processing failed: "+cause, ColorRed)
	w.WriteLine("")
}

// ToolOutput prints the raw text of a tool, colored by outcome
func (w *Writer) ToolOutput(name, text string, success bool) {
	w.WriteColored(name, ColorBold+ColorCyan)
	w.WriteLine("")
	color := ColorGreen
	if !success {
		color = ColorRed
	}
	w.WriteColored(text, color)
	w.WriteLine("")
}

// JSON prints v as indented JSON
func (w *Writer) JSON(v any) error {
	enc := json.NewEncoder(w.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
