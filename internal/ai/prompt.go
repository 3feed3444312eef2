package ai

import (
	"fmt"
	"strings"

	"github.com/sunilav888-lab/RedHawk-Hunter/internal/model"
)

const systemPrompt = "You are a professional Android penetration tester. " +
	"Generate clear, concise, well-structured vulnerability reports."

// BuildPrompt monta o prompt do relatório estilo HackerOne/Bugcrowd a partir
// dos findings normalizados. O modo só muda o enquadramento do texto.
func BuildPrompt(appName string, mode model.Mode, findings []model.Finding) string {
	var lines []string
	lines = append(lines, "You are a senior Android application security researcher.")
	lines = append(lines, fmt.Sprintf(
		"Generate a complete HackerOne/Bugcrowd-style vulnerability report for the Android APK: `%s`.", appName))
	if mode == model.ModeRedTeam {
		lines = append(lines, "Frame the report from an offensive (red team) engagement perspective.")
	}
	lines = append(lines, "")
	lines = append(lines, "Normalized findings from scanners:")
	if len(findings) == 0 {
		lines = append(lines, "- No explicit static tool findings. Provide a generic risk assessment template.")
	} else {
		for _, f := range findings {
			title := f.Title
			if strings.TrimSpace(title) == "" {
				title = f.Description
			}
			lines = append(lines, fmt.Sprintf("- [%s] %s (tool: %s)", strings.ToLower(string(f.Severity)), title, f.Tool))
		}
	}

	lines = append(lines, "\nWrite the report in Markdown with these sections:\n"+
		"## Executive Summary\n"+
		"- High-level overview of the app's security posture.\n"+
		"\n"+
		"## Findings Overview\n"+
		"- Table-like summary grouped by severity.\n"+
		"\n"+
		"## Detailed Findings\n"+
		"For each vulnerability, include:\n"+
		"- Title\n"+
		"- Severity\n"+
		"- Affected components / permissions / endpoints\n"+
		"- Description\n"+
		"- Risk / Impact\n"+
		"- Steps to Reproduce\n"+
		"- Recommendations / Remediation\n"+
		"\n"+
		"## Conclusion\n"+
		"- Overall risk and recommended next steps.\n")

	return strings.Join(lines, "\n")
}
