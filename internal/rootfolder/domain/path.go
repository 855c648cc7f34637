package domain

import (
	"path/filepath"
	"strings"
)

// IsPathValid reporta se path é absoluto e não vazio.
func IsPathValid(path string) bool {
	return strings.TrimSpace(path) != "" && filepath.IsAbs(path)
}

// PathEquals compara caminhos ignorando separadores finais e segmentos redundantes.
func PathEquals(a, b string) bool {
	return CleanPath(a) == CleanPath(b)
}

func CleanPath(path string) string {
	if strings.TrimSpace(path) == "" {
		return ""
	}
	return filepath.Clean(path)
}
