package interpreter_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"minic/interpreter-go/pkg/driver"
	"minic/interpreter-go/pkg/interpreter"
	"minic/interpreter-go/pkg/typechecker"
)

type fixtureManifest struct {
	Description string `yaml:"description"`
	Entry       string `yaml:"entry"`
	// Typecheck set to "off" skips the diagnostics comparison.
	Typecheck string `yaml:"typecheck"`
	Expect    struct {
		Stdout      []string `yaml:"stdout"`
		Diagnostics []string `yaml:"diagnostics"`
		Error       *struct {
			Kind string `yaml:"kind"`
			Line int    `yaml:"line"`
		} `yaml:"error"`
	} `yaml:"expect"`
}

func TestFixtures(t *testing.T) {
	root := filepath.Join("testdata", "fixtures")
	entries, err := os.ReadDir(root)
	require.NoError(t, err)

	ran := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		ran++
		t.Run(entry.Name(), func(t *testing.T) {
			runFixture(t, dir)
		})
	}
	require.NotZero(t, ran, "no fixtures found under %s", root)
}

func runFixture(t *testing.T, dir string) {
	t.Helper()
	manifest := readFixtureManifest(t, dir)
	entry := manifest.Entry
	if entry == "" {
		entry = "program.yml"
	}
	program, err := driver.LoadProgram(filepath.Join(dir, entry))
	require.NoError(t, err)

	if manifest.Typecheck != "off" {
		diags, err := typechecker.New().CheckProgram(program)
		require.NoError(t, err)
		got := make([]string, 0, len(diags))
		for _, diag := range diags {
			got = append(got, diag.String())
		}
		want := manifest.Expect.Diagnostics
		if want == nil {
			want = []string{}
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("%s: diagnostics mismatch (-want +got):\n%s", manifest.Description, diff)
		}
	}

	var out bytes.Buffer
	err = interpreter.New(interpreter.WithOutput(&out)).EvaluateProgram(program)
	if expected := manifest.Expect.Error; expected != nil {
		var rtErr *interpreter.RuntimeError
		require.True(t, errors.As(err, &rtErr), "%s: expected runtime error, got %v", manifest.Description, err)
		require.Equal(t, expected.Kind, string(rtErr.Kind))
		require.Equal(t, expected.Line, rtErr.Line)
	} else {
		require.NoError(t, err, manifest.Description)
	}

	stdout := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if out.Len() == 0 {
		stdout = nil
	}
	require.Equal(t, manifest.Expect.Stdout, stdout, manifest.Description)
}

func readFixtureManifest(t *testing.T, dir string) fixtureManifest {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "manifest.yml"))
	if err != nil {
		if os.IsNotExist(err) {
			return fixtureManifest{}
		}
		t.Fatalf("read manifest %s: %v", dir, err)
	}
	var manifest fixtureManifest
	require.NoError(t, yaml.Unmarshal(data, &manifest))
	return manifest
}
