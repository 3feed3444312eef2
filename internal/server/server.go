package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/sunilav888-lab/RedHawk-Hunter/internal/config"
	"github.com/sunilav888-lab/RedHawk-Hunter/internal/model"
	"github.com/sunilav888-lab/RedHawk-Hunter/internal/orchestrator"
	"github.com/sunilav888-lab/RedHawk-Hunter/internal/parser"
	"github.com/sunilav888-lab/RedHawk-Hunter/internal/registry"
)

// Limite do multipart em memória; o resto vai para arquivos temporários.
const maxUploadMemory = 64 << 20

// Server expõe o pipeline via HTTP. Nenhum framework: a API são cinco rotas
// e o corpus inteiro resolve servidor com net/http puro.
type Server struct {
	cfg   *config.Config
	store registry.Store
	orch  *orchestrator.Orchestrator
	log   *zap.SugaredLogger
}

func New(cfg *config.Config, store registry.Store, orch *orchestrator.Orchestrator, log *zap.SugaredLogger) *Server {
	return &Server{cfg: cfg, store: store, orch: orch, log: log}
}

// Handler monta o mux da API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/scans", s.handleListScans)
	mux.HandleFunc("/api/scans/", s.handleGetScan)
	mux.HandleFunc("/api/reports/", s.handleAIReport)
	mux.HandleFunc("/api/scan", s.handleStartScan)
	return corsMiddleware(mux)
}

func (s *Server) ListenAndServe() error {
	if err := os.MkdirAll(s.cfg.UploadsDir, 0o755); err != nil {
		return fmt.Errorf("criar uploads_dir: %w", err)
	}
	if err := os.MkdirAll(s.cfg.ReportsDir, 0o755); err != nil {
		return fmt.Errorf("criar reports_dir: %w", err)
	}
	s.log.Infow("API no ar", "addr", s.cfg.ListenAddr)
	return http.ListenAndServe(s.cfg.ListenAddr, s.Handler())
}

// corsMiddleware libera o dashboard local, como o deployment original.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireAPIKey aplica X-API-Key quando há chaves configuradas; sem chaves,
// aceita tudo.
func (s *Server) requireAPIKey(w http.ResponseWriter, r *http.Request) bool {
	if len(s.cfg.APIKeys) == 0 {
		return true
	}
	got := r.Header.Get("X-API-Key")
	for _, k := range s.cfg.APIKeys {
		if got == k {
			return true
		}
	}
	writeError(w, http.StatusUnauthorized, "Invalid API key")
	return false
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "RedHawk Android Hunter API"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListScans retorna os registros do mais novo para o mais antigo.
func (s *Server) handleListScans(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if !s.requireAPIKey(w, r) {
		return
	}

	scans := s.store.List()
	for i, j := 0, len(scans)-1; i < j; i, j = i+1, j-1 {
		scans[i], scans[j] = scans[j], scans[i]
	}
	writeJSON(w, http.StatusOK, scans)
}

func (s *Server) handleGetScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if !s.requireAPIKey(w, r) {
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/scans/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "Scan not found")
		return
	}

	rec, err := s.store.Get(id)
	if errors.Is(err, registry.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Scan not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleAIReport serve o texto do relatório AI; sem ele, cai no relatório
// base (comportamento do dashboard original).
func (s *Server) handleAIReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if !s.requireAPIKey(w, r) {
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/reports/")
	id, ok := strings.CutSuffix(rest, "/ai_report")
	if !ok || id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	rec, err := s.store.Get(id)
	if errors.Is(err, registry.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Scan not found")
		return
	}

	path := rec.Reports.AIReport
	if path == "" {
		path = rec.Reports.Baseline
	}
	if path == "" {
		writeError(w, http.StatusNotFound, "Report file not found")
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		writeError(w, http.StatusNotFound, "Report file not found")
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = w.Write(data)
}

// handleStartScan recebe o multipart {file, app_id, mode, ai}, persiste o
// upload e dispara o pipeline em background. Resposta imediata com o id;
// as transições ficam observáveis em GET /api/scans/{id}.
func (s *Server) handleStartScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if !s.requireAPIKey(w, r) {
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	if !parser.HasAPKExtension(header.Filename) {
		writeError(w, http.StatusBadRequest, "Only .apk files are supported")
		return
	}

	appID := r.FormValue("app_id")
	mode := model.ParseMode(r.FormValue("mode"))
	aiEnabled := strings.ToLower(r.FormValue("ai")) != "false" // default true, como o original

	// O upload precisa estar em disco antes do registro existir.
	scanID := orchestrator.NewScanID()
	storedName := fmt.Sprintf("%s_%s", scanID, filepath.Base(header.Filename))
	storedPath := filepath.Join(s.cfg.UploadsDir, storedName)

	dst, err := os.Create(storedPath)
	if err != nil {
		s.log.Errorw("persistir upload falhou", "erro", err)
		writeError(w, http.StatusInternalServerError, "Failed to store upload")
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		_ = os.Remove(storedPath)
		writeError(w, http.StatusInternalServerError, "Failed to store upload")
		return
	}
	dst.Close()

	if !parser.LooksLikeAPK(storedPath) {
		_ = os.Remove(storedPath)
		writeError(w, http.StatusBadRequest, "File content is not a valid APK")
		return
	}

	rec, err := s.orch.CreateScan(scanID, filepath.Base(header.Filename), storedName, appID, mode)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to register scan")
		return
	}

	go func() {
		if err := s.orch.Run(context.Background(), scanID, storedPath, aiEnabled); err != nil {
			s.log.Errorw("scan terminou com erro", "scan", scanID, "erro", err)
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{
		"id":     rec.ID,
		"status": string(rec.Status),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError responde {"detail": ...} como a API original.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
