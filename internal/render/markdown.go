package render

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"errlens/internal/model"
)

const (
	sentinelStart = "<!-- errlens:start -->"
	sentinelEnd   = "<!-- errlens:end -->"
)

// Markdown renders the coverage report as a sentinel-wrapped Markdown
// section, suitable for in-place updates inside a hand-written document.
func Markdown(r *model.CoverageReport, failures []model.FileFailure) string {
	var sb strings.Builder
	sb.WriteString(sentinelStart + "\n")
	sb.WriteString("## Error Coverage\n\n")
	fmt.Fprintf(&sb, "Declared error types: **%d** · intercepted: **%d** · unintercepted: **%d** · overall: **%d%%**\n\n",
		r.TotalErrorTypes, r.InterceptedErrorTypeCount, r.UninterceptedErrorTypeCount, r.OverallPercentage)

	sb.WriteString("| Error | Coverage | Risky files |\n")
	sb.WriteString("|---|---|---|\n")
	for _, pe := range r.PerError {
		risky := "—"
		if len(pe.RiskyFiles) > 0 {
			risky = strings.Join(pe.RiskyFiles, ", ")
		}
		fmt.Fprintf(&sb, "| %s | %d%% | %s |\n", pe.ErrorName, pe.CoverageRatio, risky)
	}

	if len(failures) > 0 {
		sb.WriteString("\n### Skipped files\n\n")
		for _, f := range failures {
			fmt.Fprintf(&sb, "- `%s`: %v\n", f.Path, f.Err)
		}
	}

	sb.WriteString(sentinelEnd)
	return sb.String()
}

// ApplySection inserts section into content, replacing an existing sentinel
// block if present or appending if not. It is a pure function for easy testing.
func ApplySection(content, section string) string {
	start := strings.Index(content, sentinelStart)
	end := strings.Index(content, sentinelEnd)

	if start >= 0 && end > start {
		return content[:start] + section + content[end+len(sentinelEnd):]
	}

	// Append, ensuring a blank line separator.
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + "\n" + section + "\n"
}

// WriteMarkdown writes (or updates in place) the coverage section in the
// file at path, preserving surrounding hand-written content. Creates the
// file if it does not exist.
func WriteMarkdown(path string, r *model.CoverageReport, failures []model.FileFailure) error {
	existing, _ := os.ReadFile(path)
	updated := ApplySection(string(existing), Markdown(r, failures))
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// WriteJSON archives the report as an indented JSON document.
func WriteJSON(path string, r *model.CoverageReport) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
