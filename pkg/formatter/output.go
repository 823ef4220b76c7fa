package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/helmcode/log-analyzer/pkg/model"
	"gopkg.in/yaml.v3"
)

const (
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatHuman = "human"
)

// Formats lists the accepted --format values.
var Formats = []string{FormatJSON, FormatYAML, FormatHuman}

// RenderJSON serializes the result as two-space indented JSON with a trailing
// newline. HTML and non-ASCII characters are written as-is.
func RenderJSON(result *model.Result) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteJSON writes the rendered JSON to path.
func WriteJSON(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

// DisplayResults formats and displays the analysis results
func DisplayResults(w io.Writer, result *model.Result, format string) error {
	switch format {
	case FormatJSON, "":
		return displayJSON(w, result)
	case FormatYAML:
		return displayYAML(w, result)
	case FormatHuman:
		return displayHuman(w, result)
	default:
		return fmt.Errorf("unknown output format %q (supported: %s)", format, strings.Join(Formats, ", "))
	}
}

func displayJSON(w io.Writer, result *model.Result) error {
	output, err := RenderJSON(result)
	if err != nil {
		return err
	}
	_, err = w.Write(output)
	return err
}

func displayYAML(w io.Writer, result *model.Result) error {
	var output []byte
	var err error
	if result.Extracted() {
		// JSON is valid YAML, so decoding into a node keeps the model's key order.
		var compact bytes.Buffer
		if err := json.Compact(&compact, result.Structured); err != nil {
			return err
		}
		var node yaml.Node
		if err := yaml.Unmarshal(compact.Bytes(), &node); err != nil {
			return fmt.Errorf("convert to yaml: %w", err)
		}
		blockStyle(&node)
		output, err = yaml.Marshal(&node)
	} else {
		output, err = yaml.Marshal(model.Fallback{RawResponse: result.RawResponse})
	}
	if err != nil {
		return err
	}
	_, err = w.Write(output)
	return err
}

// blockStyle drops the flow and quoting styles inherited from the JSON source.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

func displayHuman(w io.Writer, result *model.Result) error {
	// Colors
	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow, color.Bold)
	cyan := color.New(color.FgCyan, color.Bold)
	white := color.New(color.FgWhite, color.Bold)

	if !result.Extracted() {
		fmt.Fprintln(w)
		yellow.Fprintln(w, "⚠️  The model did not return JSON. Raw response:")
		fmt.Fprintln(w, wrapText(result.RawResponse, 80, "   "))
		fmt.Fprintln(w)
		return nil
	}

	analysis, err := result.Analysis()
	if err != nil {
		// Not the requested shape; show it verbatim.
		return displayJSON(w, result)
	}

	fmt.Fprintln(w)

	// Summary
	white.Fprintln(w, "📄 SUMMARY:")
	fmt.Fprintln(w, wrapText(analysis.Summary, 80, "   "))
	fmt.Fprintln(w)

	// Error types
	if len(analysis.Errors) > 0 {
		red.Fprintln(w, "🧯 ERROR TYPES:")
		for i, e := range analysis.Errors {
			style := styleFor(e.Severity)
			fmt.Fprintf(w, "   %d. %s %s (x%d)\n", i+1, style.icon, e.Type, e.Count)
			if e.Severity != "" {
				style.color.Fprintf(w, "      Severity: %s\n", strings.ToUpper(e.Severity))
			}
			if e.FirstSeen != "" || e.LastSeen != "" {
				fmt.Fprintf(w, "      Seen: %s → %s\n", e.FirstSeen, e.LastSeen)
			}
			for _, ex := range e.Examples {
				fmt.Fprintf(w, "      Example: %s\n", color.YellowString(ex))
			}
			fmt.Fprintln(w)
		}
	}

	// Recommendations
	if len(analysis.Recommendations) > 0 {
		cyan.Fprintln(w, "💡 RECOMMENDATIONS:")
		for i, rec := range analysis.Recommendations {
			fmt.Fprintf(w, "   %d. %s\n", i+1, rec)
		}
		fmt.Fprintln(w)
	}

	// Footer
	fmt.Fprintln(w, strings.Repeat("─", 80))
	fmt.Fprintf(w, "💡 %s\n", color.HiBlackString("Run with --format json or --format yaml for machine-readable output"))
	return nil
}

type severityStyle struct {
	icon  string
	color *color.Color
}

// severityStyles covers the levels the prompt asks for; anything else is
// shown as unrated.
var severityStyles = map[string]severityStyle{
	"high":   {"🔴", color.New(color.FgRed)},
	"medium": {"🟡", color.New(color.FgYellow)},
	"low":    {"🟢", color.New(color.FgGreen)},
}

var unratedSeverity = severityStyle{"⚪", color.New(color.FgWhite)}

func styleFor(severity string) severityStyle {
	if s, ok := severityStyles[strings.ToLower(strings.TrimSpace(severity))]; ok {
		return s
	}
	return unratedSeverity
}

func wrapText(text string, width int, indent string) string {
	var result strings.Builder
	lines := strings.Split(text, "\n")

	for _, line := range lines {
		words := strings.Fields(line)
		if len(words) == 0 {
			result.WriteString("\n")
			continue
		}

		currentLine := indent
		for _, word := range words {
			if currentLine != indent && len(currentLine)+len(word)+1 > width {
				result.WriteString(currentLine + "\n")
				currentLine = indent + word
			} else if currentLine == indent {
				currentLine += word
			} else {
				currentLine += " " + word
			}
		}

		if currentLine != indent {
			result.WriteString(currentLine + "\n")
		}
	}

	return strings.TrimSuffix(result.String(), "\n")
}
