package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sunilav888-lab/RedHawk-Hunter/internal/config"
)

var configPath string
var debugMode bool

var rootCmd = &cobra.Command{
	Use:   "redhawk",
	Short: "RedHawk - Android APK Hunter",
	Long:  `RedHawk roda análise estática (mobsfscan) sobre APKs Android, gera relatórios Markdown e, opcionalmente, um relatório AI estilo bug bounty.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Caminho do arquivo de configuração YAML")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Habilita logs em nível debug")
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	return config.Default(), nil
}
