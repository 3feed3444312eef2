package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sunilav888-lab/RedHawk-Hunter/internal/adapters"
	"github.com/sunilav888-lab/RedHawk-Hunter/internal/ai"
	"github.com/sunilav888-lab/RedHawk-Hunter/internal/model"
	"github.com/sunilav888-lab/RedHawk-Hunter/internal/notify"
	"github.com/sunilav888-lab/RedHawk-Hunter/internal/registry"
	"github.com/sunilav888-lab/RedHawk-Hunter/internal/report"
	"github.com/sunilav888-lab/RedHawk-Hunter/internal/sarif"
	"github.com/sunilav888-lab/RedHawk-Hunter/internal/scanner"
)

const toolVersion = "1.0.0"

// Scanner roda o analisador estático externo sobre o APK persistido.
type Scanner interface {
	Run(ctx context.Context, apkPath string) ([]byte, error)
}

// Completer gera o relatório AI ou devolve uma ai.Failure tipada.
type Completer interface {
	Generate(ctx context.Context, appName string, mode model.Mode, findings []model.Finding) (string, error)
}

// Notifier publica o resumo do scan, best-effort.
type Notifier interface {
	Send(title, message string) error
}

// RegistryScanner resolve o scanner pelo nome registrado em internal/scanner.
type RegistryScanner struct {
	Name string
}

func (r RegistryScanner) Run(ctx context.Context, apkPath string) ([]byte, error) {
	name := r.Name
	if name == "" {
		name = scanner.DefaultScanner
	}
	return scanner.Execute(ctx, name, apkPath)
}

// Orchestrator sequencia o pipeline de um scan: scanner externo ->
// normalização -> dump JSON/SARIF -> relatório base -> relatório AI opcional
// -> notificação. Único componente com lógica de sequenciamento; o resto são
// transformações puras ou chamadas de I/O.
type Orchestrator struct {
	Store          registry.Store
	Scanner        Scanner
	Completer      Completer
	Notifier       Notifier
	ReportsDir     string
	ScannerTimeout time.Duration
	Log            *zap.SugaredLogger
}

// NewScanID gera o identificador do scan. O chamador precisa dele antes de
// criar o registro: o APK enviado é persistido num nome derivado do id, e só
// então o scan passa a existir.
func NewScanID() string {
	return uuid.NewString()
}

// CreateScan registra um novo scan em pending. O id deriva os paths de
// artefato, então dois scans nunca colidem em disco.
func (o *Orchestrator) CreateScan(id, apkName, storedAPK, appID string, mode model.Mode) (model.ScanRecord, error) {
	rec := model.ScanRecord{
		ID:        id,
		APKName:   apkName,
		StoredAPK: storedAPK,
		AppID:     appID,
		Mode:      mode,
		Status:    model.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := o.Store.Create(rec); err != nil {
		return model.ScanRecord{}, err
	}
	return rec, nil
}

// ScanDir é o diretório de artefatos de um scan, derivado do id.
func (o *Orchestrator) ScanDir(scanID string) string {
	return filepath.Join(o.ReportsDir, scanID)
}

// Run executa o pipeline até um estado terminal. Só a falha do scanner
// externo produz failed; falha de AI deixa o scan completed sem o relatório
// AI, e falha de notificação nunca altera o status.
func (o *Orchestrator) Run(ctx context.Context, scanID, apkPath string, aiEnabled bool) error {
	rec, err := o.Store.Get(scanID)
	if err != nil {
		return err
	}

	if err := o.Store.Update(scanID, func(r *model.ScanRecord) {
		r.Status = model.StatusRunning
	}); err != nil {
		return err
	}

	sctx := ctx
	if o.ScannerTimeout > 0 {
		var cancel context.CancelFunc
		sctx, cancel = context.WithTimeout(ctx, o.ScannerTimeout)
		defer cancel()
	}

	o.Log.Infow("executando scanner", "scan", scanID, "apk", rec.APKName)
	raw, err := o.Scanner.Run(sctx, apkPath)
	if err != nil {
		o.Log.Errorw("scanner falhou", "scan", scanID, "erro", err)
		_ = o.Store.Update(scanID, func(r *model.ScanRecord) {
			r.Status = model.StatusFailed
			r.Error = err.Error()
		})
		o.notifyFailed(scanID, err)
		return fmt.Errorf("scanner failure: %w", err)
	}

	// Normalização nunca derruba o scan: entradas ruins viram placeholders.
	findings, perr := adapters.ParseMobsfBytes(raw)
	if perr != nil {
		o.Log.Warnw("saída do scanner sem parse detalhado", "scan", scanID, "erro", perr)
		findings = []model.Finding{}
	}

	scanDir := o.ScanDir(scanID)
	if err := os.MkdirAll(scanDir, 0o755); err != nil {
		_ = o.Store.Update(scanID, func(r *model.ScanRecord) {
			r.Status = model.StatusFailed
			r.Error = err.Error()
		})
		o.notifyFailed(scanID, err)
		return fmt.Errorf("criar dir do scan: %w", err)
	}

	findingsPath := filepath.Join(scanDir, "findings.json")
	dump, err := json.MarshalIndent(findings, "", "  ")
	if err == nil {
		err = os.WriteFile(findingsPath, dump, 0o644)
	}
	if err != nil {
		_ = o.Store.Update(scanID, func(r *model.ScanRecord) {
			r.Status = model.StatusFailed
			r.Error = err.Error()
		})
		o.notifyFailed(scanID, err)
		return fmt.Errorf("persistir findings: %w", err)
	}

	sarifPath, err := sarif.Export(findings, scanDir, "findings", "RedHawk", toolVersion)
	if err != nil {
		// Export SARIF é enriquecimento do dump, não pré-requisito.
		o.Log.Warnw("export sarif falhou", "scan", scanID, "erro", err)
		sarifPath = ""
	}

	counts := model.CountBySeverity(findings)

	// O relatório base precisa estar em disco antes do estado terminal.
	baselinePath := filepath.Join(scanDir, "report.md")
	md := report.Render(rec, findings, time.Now())
	if err := os.WriteFile(baselinePath, []byte(md), 0o644); err != nil {
		_ = o.Store.Update(scanID, func(r *model.ScanRecord) {
			r.Status = model.StatusFailed
			r.Error = err.Error()
		})
		o.notifyFailed(scanID, err)
		return fmt.Errorf("persistir relatório base: %w", err)
	}

	if err := o.Store.Update(scanID, func(r *model.ScanRecord) {
		r.Status = model.StatusCompleted
		r.TotalFindings = len(findings)
		r.Counts = counts
		r.Reports.Findings = findingsPath
		r.Reports.Sarif = sarifPath
		r.Reports.Baseline = baselinePath
	}); err != nil {
		return err
	}

	if aiEnabled {
		o.runAIStep(ctx, scanID, scanDir, rec, findings)
	} else {
		_ = o.Store.Update(scanID, func(r *model.ScanRecord) {
			r.AINote = "AI report not requested"
		})
	}

	done, _ := o.Store.Get(scanID)
	o.notifyBestEffort("✅ RedHawk Scan Completed", notify.FormatScanSummary(done))
	return nil
}

// runAIStep roda dentro de completed: qualquer um dos quatro tipos de falha
// só registra o motivo e segue sem relatório AI.
func (o *Orchestrator) runAIStep(ctx context.Context, scanID, scanDir string, rec model.ScanRecord, findings []model.Finding) {
	o.Log.Infow("gerando relatório AI", "scan", scanID)
	text, err := o.Completer.Generate(ctx, rec.APKName, rec.Mode, findings)
	if err != nil {
		note := "AI report unavailable"
		if f, ok := ai.AsFailure(err); ok {
			note = fmt.Sprintf("AI report unavailable (%s)", f.Kind)
		}
		o.Log.Warnw("relatório AI indisponível", "scan", scanID, "erro", err)
		_ = o.Store.Update(scanID, func(r *model.ScanRecord) {
			r.AINote = note
		})
		return
	}

	aiPath := filepath.Join(scanDir, "ai_report.md")
	if err := os.WriteFile(aiPath, []byte(text), 0o644); err != nil {
		o.Log.Warnw("persistir relatório AI falhou", "scan", scanID, "erro", err)
		_ = o.Store.Update(scanID, func(r *model.ScanRecord) {
			r.AINote = "AI report unavailable (write failed)"
		})
		return
	}

	_ = o.Store.Update(scanID, func(r *model.ScanRecord) {
		r.Reports.AIReport = aiPath
		r.AINote = ""
	})
}

func (o *Orchestrator) notifyFailed(scanID string, cause error) {
	rec, err := o.Store.Get(scanID)
	if err != nil {
		return
	}
	msg := fmt.Sprintf("APK: `%s`\nError: `%v`", rec.APKName, cause)
	o.notifyBestEffort("❌ RedHawk Scan Failed", msg)
}

func (o *Orchestrator) notifyBestEffort(title, message string) {
	if o.Notifier == nil {
		return
	}
	if err := o.Notifier.Send(title, message); err != nil {
		o.Log.Warnw("notificação falhou", "erro", err)
	}
}
