package utils

import (
	"path/filepath"
	"testing"
)

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/.config/habitchain", filepath.Join(home, ".config/habitchain")},
		{"/var/lib/habitchain.db", "/var/lib/habitchain.db"},
		{"relative/path", "relative/path"},
		{"~user/file", "~user/file"},
		{"postgres://db.internal/habits", "postgres://db.internal/habits"},
	}
	for _, tt := range tests {
		if got := ExpandHome(tt.in); got != tt.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
