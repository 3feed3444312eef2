package ui

import (
	"strconv"

	"github.com/pterm/pterm"

	"github.com/sunilav888-lab/RedHawk-Hunter/internal/model"
)

// PrintFindings renderiza a tabela de findings no terminal do CLI.
func PrintFindings(findings []model.Finding) {
	if len(findings) == 0 {
		pterm.Success.Println("Nenhum finding reportado pelo scanner estático.")
		return
	}

	pterm.Warning.Printf("Encontrados %d problemas potenciais:\n\n", len(findings))

	data := [][]string{
		{"Severidade", "Regra", "Título", "Arquivo", "Linha"},
	}

	for _, f := range findings {
		line := "-"
		if f.Line > 0 {
			line = strconv.Itoa(f.Line)
		}
		data = append(data, []string{
			sevStyle(f.Severity),
			f.RuleID,
			pterm.FgCyan.Sprint(f.Title),
			f.FilePath,
			line,
		})
	}

	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// PrintSummary mostra o resumo por severidade após o scan.
func PrintSummary(rec model.ScanRecord) {
	c := rec.Counts
	pterm.Println()
	pterm.Info.Printf("Scan %s: %s\n", rec.ID, rec.Status)
	pterm.Printf("  Critical: %d  High: %d  Medium: %d  Low: %d  Info: %d\n",
		c.Critical, c.High, c.Medium, c.Low, c.Info)
	if rec.Reports.Baseline != "" {
		pterm.Printf("  Relatório: %s\n", rec.Reports.Baseline)
	}
	if rec.Reports.AIReport != "" {
		pterm.Printf("  Relatório AI: %s\n", rec.Reports.AIReport)
	}
	if rec.AINote != "" {
		pterm.Printf("  %s\n", rec.AINote)
	}
}

func sevStyle(s model.Severity) string {
	switch s {
	case model.SevCritical, model.SevHigh:
		return pterm.FgRed.Sprint(string(s))
	case model.SevMedium:
		return pterm.FgYellow.Sprint(string(s))
	default:
		return pterm.FgBlue.Sprint(string(s))
	}
}
