package declare

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/RomanAgeev/CommandParser/cmdparse"
)

const compressYAML = `
flagsets:
  stage: [decode, resize, encode]
commands:
  - name: compress
    required:
      name: Compress
      keys: [compress]
      params:
        - {name: Src, type: string}
        - {name: Dest}
    optional:
      - name: JobCount
        keys: [--job-count, -j]
        params: [{name: Value, type: int}]
      - name: Profile
        keys: [--profile]
        params: [{name: Value, type: flags, set: stage}]
  - name: version
    handler: info
    optional:
      - name: Version
        keys: [--version]
`

const compressTOML = `
[flagsets]
stage = ["decode", "resize", "encode"]

[[commands]]
name = "compress"

[commands.required]
name = "Compress"
keys = ["compress"]
params = [{ name = "Src", type = "string" }, { name = "Dest" }]

[[commands.optional]]
name = "JobCount"
keys = ["--job-count", "-j"]
params = [{ name = "Value", type = "integer" }]

[[commands.optional]]
name = "Profile"
keys = ["--profile"]
params = [{ name = "Value", type = "flags", set = "stage" }]

[[commands]]
name = "version"
handler = "info"

[[commands.optional]]
name = "Version"
keys = ["--version"]
`

func TestParseFormatsAgree(t *testing.T) {
	fromYAML, err := Parse([]byte(compressYAML), FormatYAML)
	if err != nil {
		t.Fatalf("YAML parse failed: %v", err)
	}
	fromTOML, err := Parse([]byte(compressTOML), FormatTOML)
	if err != nil {
		t.Fatalf("TOML parse failed: %v", err)
	}

	// TOML spells the int type differently; normalize before comparing
	fromTOML.Commands[0].Optional[0].Params[0].Type = "int"
	if diff := cmp.Diff(fromYAML, fromTOML); diff != "" {
		t.Errorf("YAML and TOML documents differ (-yaml +toml):\n%s", diff)
	}

	if got := fromYAML.Commands[1].HandlerName(); got != "info" {
		t.Errorf("HandlerName() = %q, want info", got)
	}
}

func TestParseAuto(t *testing.T) {
	for name, src := range map[string]string{"yaml": compressYAML, "toml": compressTOML} {
		t.Run(name, func(t *testing.T) {
			doc, err := Parse([]byte(src), FormatAuto)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if len(doc.Commands) != 2 || doc.Commands[0].Required.Name != "Compress" {
				t.Errorf("unexpected document %+v", doc)
			}
		})
	}

	if _, err := Parse([]byte("x"), Format(42)); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	if _, err := Parse([]byte("commands:\n  - nmae: typo\n"), FormatYAML); err == nil {
		t.Error("expected YAML unknown field error")
	}
	if _, err := Parse([]byte("[[commands]]\nnmae = \"typo\"\n"), FormatTOML); err == nil {
		t.Error("expected TOML unknown key error")
	}
	doc, err := Parse(nil, FormatYAML)
	if err != nil || len(doc.Commands) != 0 {
		t.Errorf("empty YAML should decode to an empty document, got %v, %v", doc, err)
	}
}

func TestBuildProcessor(t *testing.T) {
	for name, src := range map[string]string{"yaml": compressYAML, "toml": compressTOML} {
		t.Run(name, func(t *testing.T) {
			doc, err := Parse([]byte(src), FormatAuto)
			if err != nil {
				t.Fatal(err)
			}

			var got []string
			handlers := map[string]cmdparse.Handler{
				"compress": func(r *cmdparse.Result) error {
					got = append(got, "compress "+r.String())
					return nil
				},
				"info": func(r *cmdparse.Result) error {
					got = append(got, "info "+r.String())
					return nil
				},
			}
			p, err := doc.Build(handlers, nil)
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}

			for _, line := range []string{
				"compress a.txt a.gz -j 4 --profile decode,encode",
				"--version",
			} {
				if err := p.Run(strings.Fields(line)); err != nil {
					t.Fatalf("Run(%q) failed: %v", line, err)
				}
			}
			want := []string{
				"compress {Compress{Src=a.txt Dest=a.gz} JobCount{Value=4} Profile{Value=decode,encode}}",
				"info {Version{}}",
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("calls mismatch (-want +got):\n%s", diff)
			}

			if err := p.Run([]string{"WRONG"}); !cmdparse.IsUnknownCommand(err) {
				t.Errorf("expected unknown command, got %v", err)
			}
		})
	}
}

func TestBuildFallbackHandler(t *testing.T) {
	doc, err := Parse([]byte(compressYAML), FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	calls := 0
	p, err := doc.Build(nil, func(*cmdparse.Result) error { calls++; return nil }, cmdparse.WithSuggestions(2))
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Run([]string{"--version"}); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("fallback calls = %d, want 1", calls)
	}
}

func TestBuildErrors(t *testing.T) {
	nop := func(*cmdparse.Result) error { return nil }

	tests := []struct {
		name     string
		src      string
		fallback cmdparse.Handler
		wantErr  string
	}{
		{
			name:    "missing handler",
			src:     "commands:\n  - name: a\n    required: {name: A, keys: [a]}\n",
			wantErr: `no handler registered for "a"`,
		},
		{
			name:     "unknown type",
			src:      "commands:\n  - name: a\n    required: {name: A, keys: [a], params: [{name: X, type: float}]}\n",
			fallback: nop,
			wantErr:  `unknown type "float"`,
		},
		{
			name:     "unknown set",
			src:      "commands:\n  - name: a\n    required: {name: A, keys: [a], params: [{name: X, type: flags, set: nope}]}\n",
			fallback: nop,
			wantErr:  `unknown flag set "nope"`,
		},
		{
			name:     "flags without set",
			src:      "commands:\n  - name: a\n    required: {name: A, keys: [a], params: [{name: X, type: flags}]}\n",
			fallback: nop,
			wantErr:  "requires a set",
		},
		{
			name:     "bad flag set",
			src:      "flagsets:\n  s: [a, a]\n",
			fallback: nop,
			wantErr:  "twice",
		},
		{
			name:     "invalid section",
			src:      "commands:\n  - name: a\n    required: {name: A}\n",
			fallback: nop,
			wantErr:  "declares no keys",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.src), FormatYAML)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			_, err = doc.Build(nil, tt.fallback)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Build error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "commands.yml")
	tomlPath := filepath.Join(dir, "commands.toml")
	if err := os.WriteFile(yamlPath, []byte(compressYAML), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(tomlPath, []byte(compressTOML), 0o600); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{yamlPath, tomlPath} {
		doc, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%s) failed: %v", path, err)
		}
		if len(doc.Commands) != 2 {
			t.Errorf("Load(%s) returned %d commands", path, len(doc.Commands))
		}
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	// Extension decides the format, so YAML content in a .toml file fails
	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte(compressYAML), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("expected TOML parse error")
	}
}

func TestFormatForPath(t *testing.T) {
	tests := map[string]Format{
		"a.yaml":   FormatYAML,
		"a.YML":    FormatYAML,
		"a.toml":   FormatTOML,
		"commands": FormatAuto,
	}
	for path, want := range tests {
		if got := FormatForPath(path); got != want {
			t.Errorf("FormatForPath(%q) = %s, want %s", path, got, want)
		}
	}
}
