package exporter

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ReadPageList reads a plain-text page list: one URL per line, surrounding
// whitespace trimmed, blank lines skipped. Order is preserved; duplicates
// are kept and will simply be exported again.
func ReadPageList(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open page list: %w", err)
	}
	defer file.Close()

	var urls []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read page list: %w", err)
	}

	return urls, nil
}
