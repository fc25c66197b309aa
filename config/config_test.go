package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/mpvbridge/errors"
)

func TestDefault(t *testing.T) {
	c := Default()
	if c.LogLevel != "debug" || c.Context != "webgl" || c.SizeCacheTTL.Duration != 500*time.Millisecond {
		t.Errorf("Default = %+v", c)
	}
	want := []string{"hwdec", "opengl-hwdec-interop", "sub-auto", "vo"}
	if diff := cmp.Diff(want, c.OptionNames()); diff != "" {
		t.Errorf("option order (-want +got):\n%s", diff)
	}
}

func TestParse(t *testing.T) {
	c, err := Parse([]byte(`
log-level = "warn"
size-cache-ttl = "250ms"

[options]
hwdec = "auto"
volume = "50"
`))
	if err != nil {
		t.Fatal(err)
	}
	if c.LogLevel != "warn" {
		t.Errorf("LogLevel = %q", c.LogLevel)
	}
	if c.Context != "webgl" {
		t.Errorf("Context = %q, want default", c.Context)
	}
	if c.SizeCacheTTL.Duration != 250*time.Millisecond {
		t.Errorf("SizeCacheTTL = %v", c.SizeCacheTTL)
	}
	want := map[string]string{
		"hwdec":                "auto",
		"opengl-hwdec-interop": "auto",
		"sub-auto":             "no",
		"vo":                   "opengl-cb",
		"volume":               "50",
	}
	if diff := cmp.Diff(want, c.Options); diff != "" {
		t.Errorf("options (-want +got):\n%s", diff)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind errors.Kind
	}{
		{"syntax", `log-level = `, errors.KindInvalidData},
		{"unknown key", `colour = "red"`, errors.KindInvalidInput},
		{"bad level", `log-level = "loud"`, errors.KindInvalidInput},
		{"bad duration", `size-cache-ttl = "soon"`, errors.KindInvalidData},
		{"negative ttl", `size-cache-ttl = "-1s"`, errors.KindInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			if err == nil {
				t.Fatal("expected error")
			}
			want := &errors.Error{Phase: errors.PhaseConfig, Kind: tt.kind}
			if !stderrors.Is(err, want) {
				t.Errorf("error = %v, want %s/%s", err, want.Phase, want.Kind)
			}
		})
	}
}

func TestLoadAndFind(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, FileName)
	if err := os.WriteFile(path, []byte("context = \"webgl2\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	c, err := Find(nested)
	if err != nil {
		t.Fatal(err)
	}
	if c == nil || c.Context != "webgl2" || c.Path != path {
		t.Fatalf("Find = %+v", c)
	}

	if _, err := Load(filepath.Join(root, "missing.toml")); err == nil {
		t.Error("Load of missing file succeeded")
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	c := Default()
	c.Options["volume"] = "80"
	data, err := c.Encode()
	if err != nil {
		t.Fatal(err)
	}
	back, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse(Encode()): %v\n%s", err, data)
	}
	if diff := cmp.Diff(c, back); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}
