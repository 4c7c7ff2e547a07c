package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func validateConfigPath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("pipeline file is required")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve pipeline path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("pipeline file does not exist: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("pipeline path %s is a directory", abs)
	}

	return abs, nil
}
