package scanner

import (
	"context"
	"fmt"
)

// DefaultScanner é o analisador estático usado quando nada é configurado.
const DefaultScanner = "mobsfscan"

type ScannerFunc func(ctx context.Context, apkPath string) ([]byte, error)

var scanners = map[string]ScannerFunc{
	"mobsfscan": RunMobsfscan,
}

// Execute roda o scanner pelo nome e retorna a saída bruta para normalização.
func Execute(ctx context.Context, scannerName, apkPath string) ([]byte, error) {
	fn, ok := scanners[scannerName]
	if !ok {
		return nil, fmt.Errorf("scanner '%s' não suportado", scannerName)
	}
	return fn(ctx, apkPath)
}
