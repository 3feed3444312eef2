package logging

import (
	"go.uber.org/zap"
)

var Logger *zap.SugaredLogger

// InitLogger configura o logger global. Em modo debug usa o preset de
// desenvolvimento; fora dele, produção com nível Info (o servidor precisa
// registrar o andamento dos scans).
func InitLogger(debug bool) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg.Encoding = "console"
	logger, err := cfg.Build()
	if err != nil {
		panic("erro ao inicializar logger: " + err.Error())
	}
	Logger = logger.Sugar()
}

// L retorna o logger global, inicializando um padrão caso InitLogger
// ainda não tenha sido chamado (útil em testes).
func L() *zap.SugaredLogger {
	if Logger == nil {
		InitLogger(false)
	}
	return Logger
}
