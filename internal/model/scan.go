package model

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal informa se o scan chegou num estado final.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

type Mode string

const (
	ModeSafe    Mode = "safe"
	ModeRedTeam Mode = "redteam"
)

// ParseMode aceita o valor do formulário; qualquer coisa fora de "redteam"
// vira safe. O modo não altera o scanner, só o tom dos relatórios.
func ParseMode(s string) Mode {
	if s == string(ModeRedTeam) {
		return ModeRedTeam
	}
	return ModeSafe
}

// SeverityCounts agrega findings por bucket de severidade.
type SeverityCounts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	Info     int `json:"info"`
}

func (c SeverityCounts) Total() int {
	return c.Critical + c.High + c.Medium + c.Low + c.Info
}

// Get retorna a contagem de um bucket.
func (c SeverityCounts) Get(s Severity) int {
	switch s {
	case SevCritical:
		return c.Critical
	case SevHigh:
		return c.High
	case SevMedium:
		return c.Medium
	case SevLow:
		return c.Low
	default:
		return c.Info
	}
}

// CountBySeverity calcula o resumo por bucket a partir dos findings.
func CountBySeverity(findings []Finding) SeverityCounts {
	var c SeverityCounts
	for _, f := range findings {
		switch f.Severity {
		case SevCritical:
			c.Critical++
		case SevHigh:
			c.High++
		case SevMedium:
			c.Medium++
		case SevLow:
			c.Low++
		default:
			c.Info++
		}
	}
	return c
}

// ReportPaths guarda onde cada artefato do scan foi persistido.
type ReportPaths struct {
	Findings string `json:"findings,omitempty"`  // dump JSON normalizado
	Sarif    string `json:"sarif,omitempty"`     // export SARIF 2.1.0
	Baseline string `json:"baseline,omitempty"`  // relatório Markdown base
	AIReport string `json:"ai_report,omitempty"` // relatório AI (opcional)
}

// ScanRecord representa uma invocação do pipeline. O registry é o dono
// exclusivo das instâncias; o orquestrador atualiza via registry.Update.
type ScanRecord struct {
	ID            string         `json:"id"`
	APKName       string         `json:"apk_name"`
	StoredAPK     string         `json:"stored_apk,omitempty"`
	AppID         string         `json:"app_id"`
	Mode          Mode           `json:"mode"`
	Status        Status         `json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	TotalFindings int            `json:"total_findings"`
	Counts        SeverityCounts `json:"severity_counts"`
	Reports       ReportPaths    `json:"reports"`
	AINote        string         `json:"ai_note,omitempty"` // motivo do relatório AI ausente
	Error         string         `json:"error,omitempty"`   // mensagem quando status=failed
}
