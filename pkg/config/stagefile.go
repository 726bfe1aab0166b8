package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/stager/pkg/errors"
	"github.com/arthur-debert/stager/pkg/logging"
	"github.com/arthur-debert/stager/pkg/paths"
	"github.com/arthur-debert/stager/pkg/spec"
	"github.com/arthur-debert/stager/pkg/template"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)


// Format is a stage file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// stageKey is the optional top-level key a stage map can be nested under.
const stageKey = "stage"

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.Newf(errors.ErrInvalidConfiguration,
		"unsupported stage file extension: %q", path).WithDetail("path", path)
}

// MapStage maps target directory templates to the sources that populate
// them. Targets are absolute paths inside the stage.
type MapStage struct {
	targets map[string][]Source
}

// NewMapStage returns an empty map.
func NewMapStage() *MapStage {
	return &MapStage{targets: make(map[string][]Source)}
}

// Add appends sources to target.
func (m *MapStage) Add(target string, sources ...Source) *MapStage {
	if m.targets == nil {
		m.targets = make(map[string][]Source)
	}
	m.targets[target] = append(m.targets[target], sources...)
	return m
}

// Targets returns the target templates in ascending order.
func (m *MapStage) Targets() []string {
	targets := make([]string, 0, len(m.targets))
	for t := range m.targets {
		targets = append(targets, t)
	}
	sort.Strings(targets)
	return targets
}

// Sources returns the sources registered for target.
func (m *MapStage) Sources(target string) []Source {
	return append([]Source(nil), m.targets[target]...)
}

// Len returns the number of targets.
func (m *MapStage) Len() int {
	return len(m.targets)
}

// Render expands every template in the map and converts it into a
// spec.StageMap keyed by stage-relative directories. Targets that render to
// the same directory are merged in key order. Every failure is collected.
func (m *MapStage) Render(engine template.Renderer) (*spec.StageMap, error) {
	logger := logging.GetLogger("config.stagefile")
	var errs errors.Errors
	out := spec.NewStageMap()

	for _, key := range m.Targets() {
		rendered, err := engine.Render(key)
		if err != nil {
			errs.Extend(err)
			continue
		}
		rel, err := paths.NormalizeStagePath(rendered)
		if err != nil {
			errs.Extend(err)
			continue
		}

		builders := errors.Partition(m.targets[key], &errs, func(s Source) (spec.Builder, error) {
			return s.Render(engine)
		})
		out.Add(rel, builders...)

		logger.Debug().
			Str("target", key).
			Str("rendered", rel).
			Int("sources", len(builders)).
			Msg("Rendered stage target")
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadMapStage reads a stage file, picking the format from its extension.
func LoadMapStage(path string) (*MapStage, error) {
	logger := logging.GetLogger("config.stagefile").With().Str("path", path).Logger()

	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidConfiguration,
			"failed to read stage file %q", path).WithDetail("path", path)
	}

	m, err := ParseMapStage(data, format)
	if err != nil {
		return nil, err
	}

	logger.Debug().Int("targets", m.Len()).Msg("Loaded stage file")
	return m, nil
}

// ParseMapStage decodes a stage map. Unknown source types, unknown fields and
// malformed entries are all reported together.
func ParseMapStage(data []byte, format Format) (*MapStage, error) {
	raw := map[string]interface{}{}

	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &raw)
	case FormatYAML:
		err = yaml.Unmarshal(data, &raw)
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		err = dec.Decode(&raw)
	default:
		return nil, errors.Newf(errors.ErrInvalidConfiguration, "unsupported stage file format %q", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidConfiguration,
			"failed to parse %s stage file", format)
	}

	if nested, ok := raw[stageKey]; ok {
		table, ok := nested.(map[string]interface{})
		if !ok {
			return nil, errors.Newf(errors.ErrInvalidConfiguration,
				"%q must be a table of targets, got %T", stageKey, nested)
		}
		raw = table
	}

	return decodeMapStage(raw)
}

func decodeMapStage(raw map[string]interface{}) (*MapStage, error) {
	var errs errors.Errors
	m := NewMapStage()

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, target := range keys {
		entries, ok := raw[target].([]interface{})
		if !ok {
			errs.Push(errors.Newf(errors.ErrInvalidConfiguration,
				"target %q must hold a list of sources, got %T", target, raw[target]).
				WithDetail("target", target))
			continue
		}

		for i, entry := range entries {
			source, err := decodeSource(entry)
			if err != nil {
				errs.Push(errors.Wrapf(err, errors.ErrInvalidConfiguration,
					"invalid source %d for target %q", i, target).
					WithDetail("target", target).
					WithDetail("index", i))
				continue
			}
			m.Add(target, source)
		}
		if len(entries) == 0 {
			m.Add(target)
		}
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}
	return m, nil
}
