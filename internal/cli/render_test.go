package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"json only", "json", []string{"json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if len(got) != len(tt.want) {
				t.Errorf("parseFormats(%q) length = %d, want %d", tt.input, len(got), len(tt.want))
				return
			}
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
				}
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"derive from input", "", "song.toml", "song"},
		{"derive from stdin", "", "-", "score"},
		{"output without extension", "out", "song.toml", "out"},
		{"output with format extension", "out.svg", "song.toml", "out"},
		{"output with other extension", "out.bak", "song.toml", "out.bak"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestReadScore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "score.toml")
	if err := os.WriteFile(path, []byte("time = \"4/4\""), 0o644); err != nil {
		t.Fatal(err)
	}

	data, err := readScore(path)
	if err != nil {
		t.Fatalf("readScore() error: %v", err)
	}
	if string(data) != "time = \"4/4\"" {
		t.Errorf("readScore() = %q", data)
	}

	if _, err := readScore(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("readScore() should fail for missing file")
	}
}

func TestRootCommandWiring(t *testing.T) {
	c := New(os.Stderr, LogInfo)
	root := c.RootCommand()

	want := map[string]bool{
		"render": false, "layout": false, "grid": false,
		"inspect": false, "serve": false, "cache": false, "completion": false,
	}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}
