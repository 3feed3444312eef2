package adapters

import "strings"

// safeLine garante linha 1-based; valores inválidos viram 0 (sem linha).
func safeLine(n int) int {
	if n < 1 {
		return 0
	}
	return n
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}
