package model

import "strings"

type Severity string

const (
	SevCritical Severity = "CRITICAL"
	SevHigh     Severity = "HIGH"
	SevMedium   Severity = "MEDIUM"
	SevLow      Severity = "LOW"
	SevInfo     Severity = "INFO"
)

// Severities em ordem de prioridade (usada em relatórios e contagens).
var Severities = []Severity{SevCritical, SevHigh, SevMedium, SevLow, SevInfo}

// ParseSeverity normaliza a severidade nativa do analisador para a escala
// fixa de cinco níveis. Função total: token desconhecido vira LOW.
func ParseSeverity(s string) Severity {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CRITICAL":
		return SevCritical
	case "HIGH", "ERROR":
		return SevHigh
	case "MEDIUM", "WARNING":
		return SevMedium
	case "LOW":
		return SevLow
	case "INFO", "NOTE":
		return SevInfo
	default:
		return SevLow
	}
}

// Rank retorna o peso ordinal (CRITICAL maior). Usado para ordenar findings.
func (s Severity) Rank() int {
	switch s {
	case SevCritical:
		return 4
	case SevHigh:
		return 3
	case SevMedium:
		return 2
	case SevLow:
		return 1
	default:
		return 0
	}
}

type Finding struct {
	Tool        string            `json:"tool"`                // "mobsfscan" | "redhawk"
	RuleID      string            `json:"rule_id"`             // id/regra do scanner
	Title       string            `json:"title"`               // nome curto da regra
	Description string            `json:"description"`         // descrição livre
	Severity    Severity          `json:"severity"`            // severidade normalizada
	FilePath    string            `json:"file_path,omitempty"` // caminho relativo/normalizado
	Line        int               `json:"line,omitempty"`      // 1-based (0 = sem linha)
	Metadata    map[string]string `json:"metadata,omitempty"`  // campos extras do analisador, opacos
}
