package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sunilav888-lab/RedHawk-Hunter/internal/model"
)

// NoFindingsMarker aparece no relatório quando o scanner não reportou nada.
const NoFindingsMarker = "_No findings were reported by the static scanner. This does not guarantee the app is secure._"

// Render produz o relatório Markdown base (não-AI). Sem efeitos colaterais:
// persistência é responsabilidade do orquestrador. Findings são ordenados por
// severidade (CRITICAL primeiro) e, dentro da mesma severidade, pela ordem de
// primeira aparição na saída do scanner.
func Render(rec model.ScanRecord, findings []model.Finding, now time.Time) string {
	counts := model.CountBySeverity(findings)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s – Android Security Report\n\n", rec.APKName)
	if rec.AppID != "" {
		fmt.Fprintf(&b, "- App ID: `%s`\n", rec.AppID)
	}
	fmt.Fprintf(&b, "- Mode: %s\n", rec.Mode)
	fmt.Fprintf(&b, "- Generated: %s\n\n", now.UTC().Format(time.RFC3339))

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Total issues: **%d**\n", counts.Total())
	fmt.Fprintf(&b, "- Critical: %d\n", counts.Critical)
	fmt.Fprintf(&b, "- High: %d\n", counts.High)
	fmt.Fprintf(&b, "- Medium: %d\n", counts.Medium)
	fmt.Fprintf(&b, "- Low: %d\n", counts.Low)
	fmt.Fprintf(&b, "- Info: %d\n\n", counts.Info)

	if len(findings) == 0 {
		b.WriteString(NoFindingsMarker)
		b.WriteString("\n")
		return b.String()
	}

	ordered := make([]model.Finding, len(findings))
	copy(ordered, findings)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Severity.Rank() > ordered[j].Severity.Rank()
	})

	b.WriteString("## Findings\n\n")
	for _, f := range ordered {
		fmt.Fprintf(&b, "### %s – %s\n\n", sevTitle(f.Severity), f.Title)
		fmt.Fprintf(&b, "%s\n\n", f.Description)
		fmt.Fprintf(&b, "- Tool: `%s`\n", f.Tool)
		if f.RuleID != "" {
			fmt.Fprintf(&b, "- Rule: `%s`\n", f.RuleID)
		}
		if f.FilePath != "" {
			loc := f.FilePath
			if f.Line > 0 {
				loc = fmt.Sprintf("%s:%d", f.FilePath, f.Line)
			}
			fmt.Fprintf(&b, "- Location: `%s`\n", loc)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// sevTitle formata a severidade para o cabeçalho da seção ("Critical").
func sevTitle(s model.Severity) string {
	low := strings.ToLower(string(s))
	if low == "" {
		return low
	}
	return strings.ToUpper(low[:1]) + low[1:]
}

// ParseSummaryCounts recupera as contagens da seção Summary de um relatório
// gerado por Render. Usado para validar o round-trip relatório <-> contagens.
func ParseSummaryCounts(md string) (model.SeverityCounts, error) {
	var c model.SeverityCounts
	fields := map[string]*int{
		"Critical": &c.Critical,
		"High":     &c.High,
		"Medium":   &c.Medium,
		"Low":      &c.Low,
		"Info":     &c.Info,
	}

	found := 0
	for _, line := range strings.Split(md, "\n") {
		line = strings.TrimSpace(line)
		for label, dst := range fields {
			prefix := "- " + label + ": "
			if strings.HasPrefix(line, prefix) {
				n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, prefix)))
				if err != nil {
					return c, fmt.Errorf("contagem inválida para %s: %w", label, err)
				}
				*dst = n
				found++
			}
		}
	}
	if found < len(fields) {
		return c, fmt.Errorf("seção Summary incompleta: %d de %d buckets encontrados", found, len(fields))
	}
	return c, nil
}
