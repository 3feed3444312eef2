package parser

import (
	"bytes"
	"os"
	"strings"
)

// APKs são containers ZIP; os quatro primeiros bytes identificam o formato.
var zipMagic = []byte{0x50, 0x4b, 0x03, 0x04}

// HasAPKExtension verifica o nome do arquivo enviado (case-insensitive).
func HasAPKExtension(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".apk")
}

// LooksLikeAPK analisa o conteúdo do arquivo para verificar se é um pacote
// Android plausível (assinatura ZIP). Extensão certa com conteúdo errado é
// rejeitada antes de acionar o scanner.
func LooksLikeAPK(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	header := make([]byte, len(zipMagic))
	n, err := f.Read(header)
	if err != nil || n < len(zipMagic) {
		return false
	}

	return bytes.Equal(header, zipMagic)
}
