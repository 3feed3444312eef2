package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sunilav888-lab/RedHawk-Hunter/internal/model"
)

// TelegramNotifier envia alertas Markdown via sendMessage. Sem token/chat
// configurados vira no-op: notificação nunca é pré-requisito do scan.
type TelegramNotifier struct {
	BotToken   string
	ChatID     string
	BaseURL    string // sobrescrito em testes
	HTTPClient *http.Client
}

type telegramMessage struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

func NewTelegramNotifier(botToken, chatID string) *TelegramNotifier {
	return &TelegramNotifier{
		BotToken: botToken,
		ChatID:   chatID,
		BaseURL:  "https://api.telegram.org",
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Send publica "*title*\nmessage" no chat configurado, best-effort.
func (t *TelegramNotifier) Send(title, message string) error {
	if t.BotToken == "" || t.ChatID == "" {
		return nil
	}

	msg := telegramMessage{
		ChatID:                t.ChatID,
		Text:                  fmt.Sprintf("*%s*\n%s", title, message),
		ParseMode:             "Markdown",
		DisableWebPagePreview: true,
	}

	jsonData, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal mensagem telegram: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.BaseURL, t.BotToken)
	resp, err := t.HTTPClient.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("enviar mensagem telegram: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram retornou status %d", resp.StatusCode)
	}
	return nil
}

// FormatScanSummary monta o resumo enviado quando o scan termina.
func FormatScanSummary(rec model.ScanRecord) string {
	c := rec.Counts
	return fmt.Sprintf(
		"APK: `%s`\nStatus: *%s*\nFindings: %d\nSeverity: C:%d H:%d M:%d L:%d I:%d",
		rec.APKName, rec.Status, rec.TotalFindings,
		c.Critical, c.High, c.Medium, c.Low, c.Info,
	)
}
