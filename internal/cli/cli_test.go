package cli

import (
	"io"
	"path/filepath"
	"reflect"
	"testing"
)

func TestCacheDirRespectsXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg", appName) {
		t.Errorf("cacheDir() = %q", dir)
	}
}

func TestCacheDirDefault(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("HOME", "/home/tester")
	dir, err := cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join("/home/tester", ".cache", appName)
	if dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{"html"}},
		{"json", []string{"json"}},
		{"html,svg,png", []string{"html", "svg", "png"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.input); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestSourceOptions(t *testing.T) {
	tests := []struct {
		input     string
		dir       string
		manifest  string
		albumFile string
	}{
		{"./photos", "./photos", "", ""},
		{"album.toml", "", "album.toml", ""},
		{"trip/Album.TOML", "", "trip/Album.TOML", ""},
		{"album.json", "", "", "album.json"},
	}
	for _, tt := range tests {
		opts := sourceOptions(tt.input)
		if opts.Dir != tt.dir || opts.Manifest != tt.manifest || opts.AlbumFile != tt.albumFile {
			t.Errorf("sourceOptions(%q) = {Dir:%q Manifest:%q AlbumFile:%q}",
				tt.input, opts.Dir, opts.Manifest, opts.AlbumFile)
		}
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output string
		input  string
		want   string
	}{
		{"", "photos/album.json", "photos/album"},
		{"out.html", "album.json", "out"},
		{"gallery", "album.json", "gallery"},
		{"dir/out.svg", "album.json", "dir/out"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	want := []string{"scan", "pack", "render", "preview", "serve", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}
