package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config reúne tudo que o servidor e o CLI precisam. Carregada de um YAML
// opcional; segredos (chave de AI, token do Telegram, API keys do dashboard)
// caem nas variáveis de ambiente quando ausentes do arquivo.
type Config struct {
	ListenAddr     string         `yaml:"listen_addr"`
	UploadsDir     string         `yaml:"uploads_dir"`
	ReportsDir     string         `yaml:"reports_dir"`
	Scanner        string         `yaml:"scanner"`
	ScannerTimeout string         `yaml:"scanner_timeout"` // ex: "5m"
	APIKeys        []string       `yaml:"api_keys"`
	AI             AIConfig       `yaml:"ai"`
	Telegram       TelegramConfig `yaml:"telegram"`
}

type AIConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	APIKey  string `yaml:"api_key"`
	Timeout string `yaml:"timeout"` // ex: "90s"
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   string `yaml:"chat_id"`
}

// Default retorna a configuração usada quando nenhum arquivo é passado.
func Default() *Config {
	cfg := &Config{
		ListenAddr:     ":8000",
		UploadsDir:     "uploads",
		ReportsDir:     "reports",
		Scanner:        "mobsfscan",
		ScannerTimeout: "5m",
		AI: AIConfig{
			Timeout: "90s",
		},
	}
	cfg.applyEnv()
	return cfg
}

// Load lê o YAML e completa com defaults e ambiente.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv preenche segredos a partir do ambiente quando o YAML não traz.
// Mesmos nomes do deployment original.
func (c *Config) applyEnv() {
	if c.AI.APIKey == "" {
		c.AI.APIKey = firstEnv("OPENROUTER_API_KEY", "OPENAI_API_KEY")
	}
	if c.Telegram.BotToken == "" {
		c.Telegram.BotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	}
	if c.Telegram.ChatID == "" {
		c.Telegram.ChatID = os.Getenv("TELEGRAM_CHAT_ID")
	}
	if len(c.APIKeys) == 0 {
		for _, k := range strings.Split(os.Getenv("DASHBOARD_API_KEYS"), ",") {
			if k = strings.TrimSpace(k); k != "" {
				c.APIKeys = append(c.APIKeys, k)
			}
		}
	}
}

func (c *Config) Validate() error {
	if c.UploadsDir == "" || c.ReportsDir == "" {
		return fmt.Errorf("uploads_dir e reports_dir são obrigatórios")
	}
	if _, err := c.ScannerTimeoutDuration(); err != nil {
		return fmt.Errorf("invalid scanner_timeout: %w", err)
	}
	if _, err := c.AITimeoutDuration(); err != nil {
		return fmt.Errorf("invalid ai.timeout: %w", err)
	}
	return nil
}

func (c *Config) ScannerTimeoutDuration() (time.Duration, error) {
	return parseTimeout(c.ScannerTimeout, 5*time.Minute)
}

func (c *Config) AITimeoutDuration() (time.Duration, error) {
	return parseTimeout(c.AI.Timeout, 90*time.Second)
}

func parseTimeout(s string, def time.Duration) (time.Duration, error) {
	if strings.TrimSpace(s) == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout deve ser positivo: %s", s)
	}
	return d, nil
}

func firstEnv(names ...string) string {
	for _, n := range names {
		if v := os.Getenv(n); v != "" {
			return v
		}
	}
	return ""
}
