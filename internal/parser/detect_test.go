package parser

import (
	"os"
	"testing"
)

func writeTempFile(t *testing.T, content []byte) string {
	f, err := os.CreateTemp("", "*.apk")
	if err != nil {
		t.Fatal(err)
	}
	_, err = f.Write(content)
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	return f.Name()
}

func TestHasAPKExtension(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		expected bool
	}{
		{"lowercase", "app.apk", true},
		{"uppercase", "APP.APK", true},
		{"wrong_ext", "app.ipa", false},
		{"no_ext", "app", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := HasAPKExtension(tt.filename)
			if result != tt.expected {
				t.Errorf("esperado %v, obtido %v", tt.expected, result)
			}
		})
	}
}

func TestLooksLikeAPK(t *testing.T) {
	tests := []struct {
		name     string
		content  []byte
		expected bool
	}{
		{"zip_magic", []byte{0x50, 0x4b, 0x03, 0x04, 0x00, 0x01}, true},
		{"texto", []byte("isso não é um apk"), false},
		{"vazio", []byte{}, false},
		{"curto", []byte{0x50, 0x4b}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempFile(t, tt.content)
			defer os.Remove(path)

			result := LooksLikeAPK(path)
			if result != tt.expected {
				t.Errorf("esperado %v, obtido %v", tt.expected, result)
			}
		})
	}
}

func TestLooksLikeAPKMissingFile(t *testing.T) {
	if LooksLikeAPK("/caminho/que/nao/existe.apk") {
		t.Error("arquivo inexistente não pode passar")
	}
}
