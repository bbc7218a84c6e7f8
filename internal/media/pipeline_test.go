package media

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSourceID(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.instagram.com/p/ABC123/", "ABC123"},
		{"https://www.instagram.com/reel/XYZ789", "XYZ789"},
		{"https://www.instagram.com/tv/QWE456/?utm_source=x", "QWE456"},
		{"https://example.com/video.mp4", "unknown"},
	}
	for _, c := range cases {
		if got := sourceID(c.url); got != c.want {
			t.Errorf("sourceID(%q) = %q, want %q", c.url, got, c.want)
		}
	}
}

func TestFindDownload(t *testing.T) {
	dir := t.TempDir()
	p := &Pipeline{tempDir: dir}

	if _, found := p.findDownload("video_1_abcd"); found {
		t.Error("found a download in an empty directory")
	}

	for _, name := range []string{"video_1_abcd.part", "video_1_abcd.mp4", "outro_arquivo.mp4"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	path, found := p.findDownload("video_1_abcd")
	if !found {
		t.Fatal("download not found")
	}
	if filepath.Base(path) != "video_1_abcd.mp4" {
		t.Errorf("wrong file picked: %s", path)
	}
}

func TestRemoveByPrefix(t *testing.T) {
	dir := t.TempDir()
	p := &Pipeline{tempDir: dir}

	files := map[string]bool{
		"video_1_abcd.mp4": false, // removed
		"video_1_abcd.wav": false,
		"video_2_efgh.mp4": true, // kept
		"sem_relacao.txt":  true,
	}
	for name := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	p.removeByPrefix("video_1_abcd")

	for name, shouldExist := range files {
		_, err := os.Stat(filepath.Join(dir, name))
		exists := err == nil
		if exists != shouldExist {
			t.Errorf("file %s: exists=%v, want %v", name, exists, shouldExist)
		}
	}
}
