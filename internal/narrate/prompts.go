package narrate

import (
	"fmt"
	"strings"

	"errlens/internal/model"
)

// PromptBuilder constructs the summary prompt from a coverage report and its
// annotations.
type PromptBuilder struct{}

// BuildSummaryPrompt assembles the coverage table, the worst unguarded
// flows, and any git/PR annotations into one prompt.
func (pb *PromptBuilder) BuildSummaryPrompt(report *model.CoverageReport, flows []model.ErrorFlow, extras Extras) string {
	var sb strings.Builder
	sb.WriteString("Role: Senior engineer reviewing error handling in a TypeScript codebase.\n")
	sb.WriteString("Task: Write a short narrative assessment (3-5 paragraphs) of the project's error coverage.\n")
	sb.WriteString("Highlight the riskiest unhandled error types first and suggest where catch handlers belong.\n")

	sb.WriteString("\n### COVERAGE SUMMARY\n")
	fmt.Fprintf(&sb, "Error types declared: %d; intercepted somewhere: %d; never intercepted: %d; overall coverage: %d%%.\n",
		report.TotalErrorTypes, report.InterceptedErrorTypeCount,
		report.UninterceptedErrorTypeCount, report.OverallPercentage)

	sb.WriteString("\n### PER-ERROR DETAIL\n")
	for _, pe := range report.PerError {
		fmt.Fprintf(&sb, "- %s: coverage %d%%", pe.ErrorName, pe.CoverageRatio)
		if len(pe.RiskyFiles) > 0 {
			fmt.Fprintf(&sb, "; unguarded in %s", strings.Join(pe.RiskyFiles, ", "))
		}
		sb.WriteString("\n")
	}

	if len(flows) > 0 {
		sb.WriteString("\n### ERROR FLOWS\n")
		for _, fl := range flows {
			fmt.Fprintf(&sb, "- %s: defined in %s; raised in [%s]; intercepted in [%s]\n",
				fl.ErrorName, orNone(fl.DefinedIn),
				strings.Join(fl.RaisedIn, ", "), strings.Join(fl.InterceptedIn, ", "))
		}
	}

	if len(extras.History) > 0 {
		sb.WriteString("\n### RECENT CHANGES TO RISKY FILES\n")
		for _, pe := range report.PerError {
			for _, file := range pe.RiskyFiles {
				for _, c := range extras.History[file] {
					fmt.Fprintf(&sb, "- %s: %s (%s, %s)\n", file, c.Subject, c.Author, c.Date)
				}
			}
		}
	}

	if len(extras.Mentions) > 0 {
		sb.WriteString("\n### OPEN ISSUES AND PULL REQUESTS\n")
		for _, pe := range report.PerError {
			for _, it := range extras.Mentions[pe.ErrorName] {
				kind := "issue"
				if it.IsPR {
					kind = "PR"
				}
				fmt.Fprintf(&sb, "- %s #%d (%s): %s\n", kind, it.Number, pe.ErrorName, it.Title)
			}
		}
	}

	sb.WriteString("\nRespond in plain Markdown without code fences around the whole answer.\n")
	return sb.String()
}

func orNone(s string) string {
	if s == "" {
		return "(no declaration found)"
	}
	return s
}

func cleanMarkdownOutput(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```markdown") {
		text = strings.TrimPrefix(text, "```markdown")
		text = strings.TrimSuffix(text, "```")
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
	}
	return strings.TrimSpace(text)
}
