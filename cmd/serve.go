package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sunilav888-lab/RedHawk-Hunter/internal/ai"
	"github.com/sunilav888-lab/RedHawk-Hunter/internal/logging"
	"github.com/sunilav888-lab/RedHawk-Hunter/internal/notify"
	"github.com/sunilav888-lab/RedHawk-Hunter/internal/orchestrator"
	"github.com/sunilav888-lab/RedHawk-Hunter/internal/registry"
	"github.com/sunilav888-lab/RedHawk-Hunter/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Sobe a API HTTP do dashboard",
	Run: func(cmd *cobra.Command, args []string) {
		logging.InitLogger(debugMode)
		logger := logging.L()

		cfg, err := loadConfig()
		if err != nil {
			logger.Errorw("erro ao carregar configuração", "erro", err)
			os.Exit(1)
		}
		if serveAddr != "" {
			cfg.ListenAddr = serveAddr
		}

		scannerTimeout, _ := cfg.ScannerTimeoutDuration()
		aiTimeout, _ := cfg.AITimeoutDuration()

		store := registry.NewMemoryStore()
		orch := &orchestrator.Orchestrator{
			Store:          store,
			Scanner:        orchestrator.RegistryScanner{Name: cfg.Scanner},
			Completer:      ai.NewClient(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, aiTimeout),
			Notifier:       notify.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID),
			ReportsDir:     cfg.ReportsDir,
			ScannerTimeout: scannerTimeout,
			Log:            logger,
		}

		srv := server.New(cfg, store, orch, logger)
		if err := srv.ListenAndServe(); err != nil {
			logger.Errorw("servidor encerrou com erro", "erro", err)
			os.Exit(1)
		}
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "Endereço de escuta (sobrescreve o listen_addr da config)")
	rootCmd.AddCommand(serveCmd)
}
