package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/sunilav888-lab/RedHawk-Hunter/internal/config"
	"github.com/sunilav888-lab/RedHawk-Hunter/internal/model"
	"github.com/sunilav888-lab/RedHawk-Hunter/internal/orchestrator"
	"github.com/sunilav888-lab/RedHawk-Hunter/internal/registry"
)

type stubScanner struct {
	out []byte
	err error
}

func (s stubScanner) Run(ctx context.Context, apkPath string) ([]byte, error) {
	return s.out, s.err
}

type stubCompleter struct {
	text string
	err  error
}

func (s stubCompleter) Generate(ctx context.Context, appName string, mode model.Mode, findings []model.Finding) (string, error) {
	return s.text, s.err
}

type noopNotifier struct{}

func (noopNotifier) Send(title, message string) error { return nil }

// apkBytes tem a assinatura ZIP para passar na validação de conteúdo.
var apkBytes = []byte{0x50, 0x4b, 0x03, 0x04, 0x01, 0x02, 0x03}

func newTestServer(t *testing.T, scn orchestrator.Scanner, cmp orchestrator.Completer, apiKeys ...string) (*httptest.Server, *registry.MemoryStore) {
	t.Helper()

	cfg := config.Default()
	cfg.UploadsDir = t.TempDir()
	cfg.ReportsDir = t.TempDir()
	cfg.APIKeys = apiKeys

	store := registry.NewMemoryStore()
	orch := &orchestrator.Orchestrator{
		Store:          store,
		Scanner:        scn,
		Completer:      cmp,
		Notifier:       noopNotifier{},
		ReportsDir:     cfg.ReportsDir,
		ScannerTimeout: time.Minute,
		Log:            zap.NewNop().Sugar(),
	}

	srv := New(cfg, store, orch, zap.NewNop().Sugar())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, store
}

func uploadAPK(t *testing.T, ts *httptest.Server, filename string, content []byte, fields map[string]string, headers map[string]string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatal(err)
	}
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	mw.Close()

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/scan", &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func waitTerminal(t *testing.T, store *registry.MemoryStore, id string) model.ScanRecord {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		rec, err := store.Get(id)
		if err == nil && rec.Status.Terminal() {
			return rec
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("scan não chegou em estado terminal a tempo")
	return model.ScanRecord{}
}

func TestStatusEndpoint(t *testing.T) {
	ts, _ := newTestServer(t, stubScanner{}, stubCompleter{})

	resp, err := http.Get(ts.URL + "/api/status")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body map[string]string
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if resp.StatusCode != http.StatusOK || body["status"] != "ok" {
		t.Errorf("status = %d, body = %v", resp.StatusCode, body)
	}
}

func TestRootEndpoint(t *testing.T) {
	ts, _ := newTestServer(t, stubScanner{}, stubCompleter{})

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var body map[string]string
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if !strings.Contains(body["message"], "RedHawk") {
		t.Errorf("body = %v", body)
	}

	resp2, err := http.Get(ts.URL + "/qualquer/coisa")
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotFound {
		t.Errorf("path desconhecido deveria dar 404, obtido %d", resp2.StatusCode)
	}
}

func TestAPIKeyEnforcement(t *testing.T) {
	ts, _ := newTestServer(t, stubScanner{}, stubCompleter{}, "segredo")

	resp, err := http.Get(ts.URL + "/api/scans")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("sem chave deveria dar 401, obtido %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/scans", nil)
	req.Header.Set("X-API-Key", "segredo")
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusOK {
		t.Errorf("com chave deveria dar 200, obtido %d", resp2.StatusCode)
	}
}

func TestStartScanRejectsNonAPK(t *testing.T) {
	ts, _ := newTestServer(t, stubScanner{}, stubCompleter{})

	resp := uploadAPK(t, ts, "app.ipa", apkBytes, nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("extensão errada deveria dar 400, obtido %d", resp.StatusCode)
	}
}

func TestStartScanRejectsBadContent(t *testing.T) {
	ts, _ := newTestServer(t, stubScanner{}, stubCompleter{})

	resp := uploadAPK(t, ts, "app.apk", []byte("não é um zip"), nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("conteúdo inválido deveria dar 400, obtido %d", resp.StatusCode)
	}
}

func TestStartScanEndToEnd(t *testing.T) {
	raw := `{"findings": [
		{"rule_id": "r1", "title": "Exported activity", "severity": "high"},
		{"rule_id": "r2", "title": "Logging", "severity": "low"},
		{"rule_id": "r3", "title": "Random fraco", "severity": "low"}
	]}`
	ts, store := newTestServer(t, stubScanner{out: []byte(raw)}, stubCompleter{text: "# AI Report"})

	resp := uploadAPK(t, ts, "app.apk", apkBytes, map[string]string{
		"app_id": "com.example.app",
		"mode":   "redteam",
		"ai":     "true",
	}, nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("esperado 202, obtido %d", resp.StatusCode)
	}
	var created map[string]string
	_ = json.NewDecoder(resp.Body).Decode(&created)
	if created["id"] == "" || created["status"] != "pending" {
		t.Fatalf("resposta de criação errada: %v", created)
	}

	rec := waitTerminal(t, store, created["id"])
	if rec.Status != model.StatusCompleted {
		t.Fatalf("status = %s", rec.Status)
	}
	if rec.Counts.High != 1 || rec.Counts.Low != 2 {
		t.Errorf("contagens = %+v", rec.Counts)
	}
	if rec.Mode != model.ModeRedTeam || rec.AppID != "com.example.app" {
		t.Errorf("campos do formulário perdidos: %+v", rec)
	}
	if rec.Reports.AIReport == "" {
		t.Error("relatório AI deveria existir")
	}

	// Registro observável pela API.
	getResp, err := http.Get(ts.URL + "/api/scans/" + rec.ID)
	if err != nil {
		t.Fatal(err)
	}
	defer getResp.Body.Close()
	var got model.ScanRecord
	_ = json.NewDecoder(getResp.Body).Decode(&got)
	if got.Status != model.StatusCompleted {
		t.Errorf("GET do scan = %+v", got)
	}

	// Texto do relatório AI servido pela API.
	aiResp, err := http.Get(ts.URL + "/api/reports/" + rec.ID + "/ai_report")
	if err != nil {
		t.Fatal(err)
	}
	defer aiResp.Body.Close()
	body, _ := io.ReadAll(aiResp.Body)
	if aiResp.StatusCode != http.StatusOK || !strings.Contains(string(body), "AI Report") {
		t.Errorf("relatório AI não servido: %d %s", aiResp.StatusCode, body)
	}
}

func TestAIReportFallsBackToBaseline(t *testing.T) {
	ts, store := newTestServer(t, stubScanner{out: []byte(`{"findings": []}`)}, stubCompleter{})

	resp := uploadAPK(t, ts, "app.apk", apkBytes, map[string]string{"ai": "false"}, nil)
	defer resp.Body.Close()
	var created map[string]string
	_ = json.NewDecoder(resp.Body).Decode(&created)

	rec := waitTerminal(t, store, created["id"])
	if rec.Reports.AIReport != "" {
		t.Fatal("não deveria haver relatório AI")
	}

	aiResp, err := http.Get(ts.URL + "/api/reports/" + rec.ID + "/ai_report")
	if err != nil {
		t.Fatal(err)
	}
	defer aiResp.Body.Close()
	body, _ := io.ReadAll(aiResp.Body)
	if aiResp.StatusCode != http.StatusOK || !strings.Contains(string(body), "Android Security Report") {
		t.Errorf("fallback para o relatório base não funcionou: %d", aiResp.StatusCode)
	}
}

func TestGetScanNotFound(t *testing.T) {
	ts, _ := newTestServer(t, stubScanner{}, stubCompleter{})

	resp, err := http.Get(ts.URL + "/api/scans/nao-existe")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("esperado 404, obtido %d", resp.StatusCode)
	}

	resp2, err := http.Get(ts.URL + "/api/reports/nao-existe/ai_report")
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotFound {
		t.Errorf("esperado 404, obtido %d", resp2.StatusCode)
	}
}

func TestListScansNewestFirst(t *testing.T) {
	ts, store := newTestServer(t, stubScanner{out: []byte(`{"findings": []}`)}, stubCompleter{})

	var ids []string
	for i := 0; i < 2; i++ {
		resp := uploadAPK(t, ts, "app.apk", apkBytes, map[string]string{"ai": "false"}, nil)
		var created map[string]string
		_ = json.NewDecoder(resp.Body).Decode(&created)
		resp.Body.Close()
		ids = append(ids, created["id"])
		waitTerminal(t, store, created["id"])
	}

	resp, err := http.Get(ts.URL + "/api/scans")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var list []model.ScanRecord
	_ = json.NewDecoder(resp.Body).Decode(&list)
	if len(list) != 2 {
		t.Fatalf("esperado 2 scans, obtido %d", len(list))
	}
	if list[0].ID != ids[1] || list[1].ID != ids[0] {
		t.Error("lista deveria vir do mais novo para o mais antigo")
	}
}

func TestScannerFailureVisibleViaAPI(t *testing.T) {
	ts, store := newTestServer(t,
		stubScanner{err: errors.New("pacote corrompido")},
		stubCompleter{})

	resp := uploadAPK(t, ts, "app.apk", apkBytes, nil, nil)
	defer resp.Body.Close()
	var created map[string]string
	_ = json.NewDecoder(resp.Body).Decode(&created)

	rec := waitTerminal(t, store, created["id"])
	if rec.Status != model.StatusFailed {
		t.Fatalf("status = %s", rec.Status)
	}
	if rec.Error == "" {
		t.Error("erro do scanner deveria estar no registro")
	}
}
