package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"minic/interpreter-go/pkg/interpreter"
)

// ManifestFileName is the project manifest looked up by FindManifest.
const ManifestFileName = "minic.yml"

// DefaultMaxCallDepth is used when the manifest sets no call-depth limit.
const DefaultMaxCallDepth = interpreter.DefaultMaxCallDepth

// MaxCallDepthLimit is the largest call-depth ceiling a run accepts.
const MaxCallDepthLimit = interpreter.MaxCallDepthLimit

// Manifest represents the parsed contents of minic.yml.
type Manifest struct {
	Path        string
	Name        string
	Version     string
	Description string
	Authors     []string
	Entry       string
	Typecheck   TypecheckMode
	Limits      Limits
}

// Limits bounds resource use while running a program.
type Limits struct {
	MaxCallDepth int
}

// TypecheckMode controls whether diagnostics block a run.
type TypecheckMode string

const (
	TypecheckStrict TypecheckMode = "strict"
	TypecheckWarn   TypecheckMode = "warn"
	TypecheckOff    TypecheckMode = "off"
)

// IsValid reports whether the mode is recognised.
func (m TypecheckMode) IsValid() bool {
	switch m {
	case TypecheckStrict, TypecheckWarn, TypecheckOff:
		return true
	default:
		return false
	}
}

// ParseTypecheckMode normalises user input into a TypecheckMode. An empty
// string selects strict.
func ParseTypecheckMode(input string) (TypecheckMode, error) {
	mode := TypecheckMode(strings.ToLower(strings.TrimSpace(input)))
	if mode == "" {
		return TypecheckStrict, nil
	}
	if !mode.IsValid() {
		return "", fmt.Errorf("unknown typecheck mode %q; supported modes are strict, warn, off", input)
	}
	return mode, nil
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// ErrManifestNotFound is returned by FindManifest when no minic.yml exists in
// the directory or any of its parents.
var ErrManifestNotFound = errors.New("manifest: " + ManifestFileName + " not found")

// LoadManifest parses minic.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// FindManifest walks from dir towards the filesystem root and returns the
// path of the first minic.yml it meets.
func FindManifest(dir string) (string, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("manifest: resolve %s: %w", dir, err)
	}
	for {
		candidate := filepath.Join(current, ManifestFileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("manifest: stat %s: %w", candidate, err)
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", ErrManifestNotFound
		}
		current = parent
	}
}

// EntryPath resolves the entry document relative to the manifest location.
func (m *Manifest) EntryPath() string {
	if m == nil || m.Entry == "" {
		return ""
	}
	if filepath.IsAbs(m.Entry) {
		return m.Entry
	}
	return filepath.Join(filepath.Dir(m.Path), m.Entry)
}

// Summary renders the project line: name, version, authors, description.
func (m *Manifest) Summary() string {
	if m == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.Name)
	if m.Version != "" {
		b.WriteString(" " + m.Version)
	}
	if len(m.Authors) > 0 {
		b.WriteString(" by " + strings.Join(m.Authors, ", "))
	}
	if m.Description != "" {
		b.WriteString(": " + m.Description)
	}
	return b.String()
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	if m.Entry == "" {
		errs.Issues = append(errs.Issues, "entry must be provided")
	}
	if !m.Typecheck.IsValid() {
		errs.Issues = append(errs.Issues, fmt.Sprintf("typecheck has unsupported mode %q", m.Typecheck))
	}
	if m.Limits.MaxCallDepth <= 0 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("limits.max_call_depth must be positive (got %d)", m.Limits.MaxCallDepth))
	} else if m.Limits.MaxCallDepth > MaxCallDepthLimit {
		errs.Issues = append(errs.Issues, fmt.Sprintf("limits.max_call_depth must be at most %d (got %d)", MaxCallDepthLimit, m.Limits.MaxCallDepth))
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

type manifestFile struct {
	Name        string     `yaml:"name"`
	Version     string     `yaml:"version"`
	Description string     `yaml:"description"`
	Authors     stringList `yaml:"authors"`
	Entry       string     `yaml:"entry"`
	Typecheck   string     `yaml:"typecheck"`
	Limits      limitsYAML `yaml:"limits"`
}

type limitsYAML struct {
	MaxCallDepth *int `yaml:"max_call_depth"`
}

type stringList []string

func (mf manifestFile) toManifest(path string) *Manifest {
	result := &Manifest{
		Path:        path,
		Name:        strings.TrimSpace(mf.Name),
		Version:     strings.TrimSpace(mf.Version),
		Description: strings.TrimSpace(mf.Description),
		Authors:     mf.Authors.Clone(),
		Entry:       strings.TrimSpace(mf.Entry),
		Typecheck:   TypecheckMode(strings.ToLower(strings.TrimSpace(mf.Typecheck))),
		Limits:      Limits{MaxCallDepth: DefaultMaxCallDepth},
	}
	if result.Typecheck == "" {
		result.Typecheck = TypecheckStrict
	}
	if mf.Limits.MaxCallDepth != nil {
		result.Limits.MaxCallDepth = *mf.Limits.MaxCallDepth
	}
	return result
}

func (l stringList) Clone() []string {
	if len(l) == 0 {
		return nil
	}
	out := make([]string, 0, len(l))
	for _, item := range l {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			*l = nil
			return nil
		}
		*l = stringList{strings.TrimSpace(value.Value)}
		return nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(value.Content))
		for _, node := range value.Content {
			var str string
			if err := node.Decode(&str); err != nil {
				return err
			}
			str = strings.TrimSpace(str)
			if str == "" {
				continue
			}
			items = append(items, str)
		}
		*l = stringList(items)
		return nil
	case yaml.AliasNode:
		return l.UnmarshalYAML(value.Alias)
	case 0:
		*l = nil
		return nil
	default:
		return fmt.Errorf("manifest: expected string or sequence for list but found %s", value.ShortTag())
	}
}
