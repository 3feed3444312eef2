package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sunilav888-lab/RedHawk-Hunter/internal/adapters"
	"github.com/sunilav888-lab/RedHawk-Hunter/internal/ai"
	"github.com/sunilav888-lab/RedHawk-Hunter/internal/logging"
	"github.com/sunilav888-lab/RedHawk-Hunter/internal/model"
	"github.com/sunilav888-lab/RedHawk-Hunter/internal/notify"
	"github.com/sunilav888-lab/RedHawk-Hunter/internal/orchestrator"
	"github.com/sunilav888-lab/RedHawk-Hunter/internal/parser"
	"github.com/sunilav888-lab/RedHawk-Hunter/internal/registry"
	"github.com/sunilav888-lab/RedHawk-Hunter/internal/ui"
)

var scanAI bool
var scanMode string
var scanAppID string
var scanOutput string

var scanCmd = &cobra.Command{
	Use:   "scan [apk]",
	Short: "Escaneia um APK local e gera os relatórios",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logging.InitLogger(debugMode)
		logger := logging.L()

		cfg, err := loadConfig()
		if err != nil {
			logger.Errorw("erro ao carregar configuração", "erro", err)
			os.Exit(1)
		}

		apkPath := args[0]
		if !parser.HasAPKExtension(apkPath) || !parser.LooksLikeAPK(apkPath) {
			logger.Errorw("arquivo não parece um APK válido", "path", apkPath)
			os.Exit(1)
		}

		scannerTimeout, _ := cfg.ScannerTimeoutDuration()
		aiTimeout, _ := cfg.AITimeoutDuration()

		orch := &orchestrator.Orchestrator{
			Store:          registry.NewMemoryStore(),
			Scanner:        orchestrator.RegistryScanner{Name: cfg.Scanner},
			Completer:      ai.NewClient(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, aiTimeout),
			Notifier:       notify.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID),
			ReportsDir:     cfg.ReportsDir,
			ScannerTimeout: scannerTimeout,
			Log:            logger,
		}

		scanID := orchestrator.NewScanID()
		rec, err := orch.CreateScan(scanID, filepath.Base(apkPath), "", scanAppID, model.ParseMode(scanMode))
		if err != nil {
			logger.Errorw("erro ao registrar scan", "erro", err)
			os.Exit(1)
		}

		logger.Infof("Escaneando %s (scan %s)", rec.APKName, rec.ID)
		if err := orch.Run(context.Background(), scanID, apkPath, scanAI); err != nil {
			logger.Errorw("scan falhou", "erro", err)
			os.Exit(1)
		}

		done, err := orch.Store.Get(scanID)
		if err != nil {
			logger.Errorw("erro ao consultar scan", "erro", err)
			os.Exit(1)
		}

		switch strings.ToLower(scanOutput) {
		case "json":
			data, err := os.ReadFile(done.Reports.Findings)
			if err != nil {
				logger.Errorw("erro ao ler findings", "erro", err)
				os.Exit(1)
			}
			fmt.Println(string(data))

		case "markdown":
			data, err := os.ReadFile(done.Reports.Baseline)
			if err != nil {
				logger.Errorw("erro ao ler relatório", "erro", err)
				os.Exit(1)
			}
			fmt.Println(string(data))

		default:
			// Saída padrão terminal
			findings, err := adapters.ParseMobsfFile(done.Reports.Findings)
			if err != nil {
				logger.Errorw("erro ao ler findings", "erro", err)
				os.Exit(1)
			}
			ui.PrintFindings(findings)
			ui.PrintSummary(done)
		}
	},
}

func init() {
	scanCmd.Flags().BoolVar(&scanAI, "ai", false, "Gera também o relatório AI estilo bug bounty")
	scanCmd.Flags().StringVarP(&scanMode, "mode", "m", "safe", "Modo do relatório (safe, redteam)")
	scanCmd.Flags().StringVar(&scanAppID, "app-id", "", "Identificador do app no programa de bug bounty")
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "", "Formato da saída (json, markdown)")
	rootCmd.AddCommand(scanCmd)
}
