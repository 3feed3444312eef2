package sarif

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sunilav888-lab/RedHawk-Hunter/internal/model"
)

type Log struct {
	Version string `json:"version"`
	Schema  string `json:"$schema"`
	Runs    []Run  `json:"runs"`
}

type Run struct {
	Tool    Tool     `json:"tool"`
	Results []Result `json:"results"`
}

type Tool struct {
	Driver Driver `json:"driver"`
}

type Driver struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type Result struct {
	RuleID    string     `json:"ruleId"`
	Message   Message    `json:"message"`
	Level     string     `json:"level"` // error, warning, note
	Locations []Location `json:"locations"`
}

type Message struct {
	Text string `json:"text"`
}

type Location struct {
	PhysicalLocation PhysicalLocation `json:"physicalLocation"`
}

type PhysicalLocation struct {
	ArtifactLocation ArtifactLocation `json:"artifactLocation"`
	Region           Region           `json:"region"`
}

type ArtifactLocation struct {
	URI string `json:"uri"`
}

type Region struct {
	StartLine int `json:"startLine"`
}

// Export recebe os findings normalizados de um scan e gera um .sarif 2.1.0
// ao lado do dump JSON. Retorna o caminho escrito.
func Export(findings []model.Finding, outDir, fileBase, toolName, toolVersion string) (string, error) {
	results := make([]Result, 0, len(findings))
	for _, f := range findings {
		fileURI := toURI(f.FilePath)
		if strings.TrimSpace(fileURI) == "" {
			fileURI = "UNKNOWN"
		}
		start := f.Line
		if start <= 0 {
			start = 1
		}

		msg := strings.TrimSpace(f.Description)
		if msg == "" {
			msg = f.Title
		}

		results = append(results, Result{
			RuleID: f.RuleID,
			Level:  sevToLevel(f.Severity),
			Message: Message{
				Text: msg,
			},
			Locations: []Location{
				{
					PhysicalLocation: PhysicalLocation{
						ArtifactLocation: ArtifactLocation{
							URI: fileURI,
						},
						Region: Region{
							StartLine: start,
						},
					},
				},
			},
		})
	}

	log := Log{
		Version: "2.1.0",
		// schema RTM reconhecido por GitHub/VSCode
		Schema: "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json",
		Runs: []Run{
			{
				Tool: Tool{
					Driver: Driver{
						Name:    toolName,
						Version: toolVersion,
					},
				},
				Results: results,
			},
		},
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("criar dir sarif: %w", err)
	}
	outPath := filepath.Join(outDir, fileBase+".sarif")

	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal sarif: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return "", fmt.Errorf("escrever sarif: %w", err)
	}
	return outPath, nil
}

func sevToLevel(s model.Severity) string {
	switch s {
	case model.SevCritical, model.SevHigh:
		return "error"
	case model.SevMedium:
		return "warning"
	default:
		return "note"
	}
}

func toURI(p string) string {
	p = strings.TrimSpace(p)
	p = filepath.ToSlash(p)
	for strings.HasPrefix(p, "../") {
		p = strings.TrimPrefix(p, "../")
	}
	return strings.TrimPrefix(p, "./")
}
