package exporter

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestReadPageList(t *testing.T) {
	content := "https://example.atlassian.net/wiki/spaces/A/pages/1/First\n" +
		"\n" +
		"  https://example.atlassian.net/wiki/spaces/A/pages/2/Second  \n" +
		"\t\n" +
		"https://example.atlassian.net/wiki/spaces/A/pages/3/Third"

	path := filepath.Join(t.TempDir(), "pages.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing page list: %v", err)
	}

	urls, err := ReadPageList(path)
	if err != nil {
		t.Fatalf("ReadPageList() returned error: %v", err)
	}

	want := []string{
		"https://example.atlassian.net/wiki/spaces/A/pages/1/First",
		"https://example.atlassian.net/wiki/spaces/A/pages/2/Second",
		"https://example.atlassian.net/wiki/spaces/A/pages/3/Third",
	}
	if !reflect.DeepEqual(urls, want) {
		t.Errorf("ReadPageList() = %v, want %v", urls, want)
	}
}

func TestReadPageList_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.txt")
	if err := os.WriteFile(path, []byte("\n\n  \n"), 0o644); err != nil {
		t.Fatalf("writing page list: %v", err)
	}

	urls, err := ReadPageList(path)
	if err != nil {
		t.Fatalf("ReadPageList() returned error: %v", err)
	}
	if len(urls) != 0 {
		t.Errorf("ReadPageList() = %v, want no URLs", urls)
	}
}

func TestReadPageList_MissingFile(t *testing.T) {
	_, err := ReadPageList(filepath.Join(t.TempDir(), "nope.txt"))
	if err == nil {
		t.Fatal("Expected error but got nil")
	}
}
