package adapters

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sunilav888-lab/RedHawk-Hunter/internal/model"
)

// Estrutura do JSON do mobsfscan: lista de findings já achatada.
// Cada entrada é decodificada individualmente para que uma entrada
// malformada não derrube o documento inteiro.
type mobsfJSON struct {
	Findings []json.RawMessage `json:"findings"`
}

type mobsfFinding struct {
	RuleID      string            `json:"rule_id"`
	Rule        string            `json:"rule"` // builds antigas usam "rule"
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Severity    string            `json:"severity"`
	Tool        string            `json:"tool"`
	FilePath    string            `json:"file_path"`
	File        string            `json:"file"`
	Line        int               `json:"line"`
	Metadata    map[string]string `json:"metadata"`
}

// ParseMobsfBytes normaliza a saída bruta do mobsfscan. Nunca descarta
// entrada em silêncio: o que não der para decodificar vira um finding LOW
// registrando a lacuna. Saída vazia (ou não-JSON) significa zero findings,
// não erro - o scan segue só com o relatório base.
func ParseMobsfBytes(b []byte) ([]model.Finding, error) {
	if len(strings.TrimSpace(string(b))) == 0 {
		return []model.Finding{}, nil
	}

	var doc mobsfJSON
	if err := json.Unmarshal(b, &doc); err != nil {
		// Algumas saídas trazem a lista achatada, sem o envelope "findings"
		// (é também o formato do dump persistido por scan).
		var list []json.RawMessage
		if err2 := json.Unmarshal(b, &list); err2 != nil {
			// Saída não-JSON do mobsfscan: sem parse detalhado, zero findings.
			return []model.Finding{}, nil
		}
		doc.Findings = list
	}

	out := make([]model.Finding, 0, len(doc.Findings))
	for i, raw := range doc.Findings {
		var f mobsfFinding
		if err := json.Unmarshal(raw, &f); err != nil {
			out = append(out, gapFinding(i, err))
			continue
		}

		ruleID := firstNonEmpty(f.RuleID, f.Rule)
		title := firstNonEmpty(f.Title, ruleID)
		if strings.TrimSpace(title) == "" {
			out = append(out, gapFinding(i, fmt.Errorf("entrada sem rule_id/title")))
			continue
		}

		fp := filepath.ToSlash(firstNonEmpty(f.FilePath, f.File))
		fp = strings.TrimPrefix(fp, "./")

		out = append(out, model.Finding{
			Tool:        firstNonEmpty(f.Tool, "mobsfscan"),
			RuleID:      ruleID,
			Title:       title,
			Description: firstNonEmpty(f.Description, title),
			Severity:    model.ParseSeverity(f.Severity),
			FilePath:    fp,
			Line:        safeLine(f.Line),
			Metadata:    f.Metadata,
		})
	}
	return out, nil
}

// ParseMobsfFile é a variante que lê do disco (usada pelo CLI com -o arquivo).
func ParseMobsfFile(path string) ([]model.Finding, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseMobsfBytes(b)
}

// gapFinding marca uma entrada que não pôde ser normalizada, em vez de
// abortar o scan por causa de um único registro ruim.
func gapFinding(idx int, err error) model.Finding {
	return model.Finding{
		Tool:        "redhawk",
		RuleID:      "normalization-gap",
		Title:       fmt.Sprintf("Entrada %d não reconhecida na saída do scanner", idx),
		Description: fmt.Sprintf("A entrada %d da saída bruta não pôde ser decodificada (%v) e foi preservada como placeholder.", idx, err),
		Severity:    model.SevLow,
	}
}
