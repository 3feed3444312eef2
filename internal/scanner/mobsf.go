package scanner

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// RunMobsfscan executa `mobsfscan -o - --json <apk>` e retorna a saída JSON
// bruta. O mobsfscan retorna exit code != 0 quando encontra findings, então
// stdout não-vazio conta como sucesso mesmo com erro de processo.
func RunMobsfscan(ctx context.Context, apkPath string) ([]byte, error) {
	if strings.TrimSpace(apkPath) == "" {
		return nil, fmt.Errorf("nenhum path informado para mobsfscan")
	}

	cmd := exec.CommandContext(ctx, "mobsfscan", "--json", "-o", "-", apkPath)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() != nil {
		return nil, fmt.Errorf("mobsfscan excedeu o timeout: %w", ctx.Err())
	}
	if err != nil && stdout.Len() == 0 {
		return nil, fmt.Errorf("erro ao executar mobsfscan: %v\nstderr: %s", err, stderr.String())
	}

	return stdout.Bytes(), nil
}
