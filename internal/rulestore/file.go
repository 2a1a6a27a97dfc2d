package rulestore

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"

	"recommender-workers/internal/common/logger"
	"recommender-workers/internal/common/metrics"
	"recommender-workers/internal/inference"
)

type ruleFile struct {
	Rules []fileRule `yaml:"rules"`
}

// fileRule accepts conditions either as a nested mapping or as JSON text.
type fileRule struct {
	ID            string      `yaml:"rule_id"`
	Description   string      `yaml:"description"`
	ProgramID     int64       `yaml:"program_id"`
	Confidence    float64     `yaml:"confidence"`
	Justification string      `yaml:"justification"`
	Active        *bool       `yaml:"is_active"`
	Conditions    interface{} `yaml:"conditions"`
}

// FileStore serves rules loaded once from a YAML or JSON catalog.
type FileStore struct {
	path  string
	rules []inference.Rule
}

var _ inference.RuleStore = (*FileStore)(nil)

func NewFileStore(path string, log logger.Logger) (*FileStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}

	rules, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	log.Info("loaded rule catalog", map[string]interface{}{
		"path":  path,
		"rules": len(rules),
	})

	return &FileStore{path: path, rules: rules}, nil
}

// ParseRules decodes a rule catalog. Rules keep file order; is_active
// defaults to true. Rule ids must be unique.
func ParseRules(data []byte) ([]inference.Rule, error) {
	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}

	seen := make(map[string]struct{}, len(file.Rules))
	rules := make([]inference.Rule, 0, len(file.Rules))
	for i, fr := range file.Rules {
		if _, dup := seen[fr.ID]; dup && fr.ID != "" {
			return nil, fmt.Errorf("rules[%d]: duplicate rule_id %q", i, fr.ID)
		}
		seen[fr.ID] = struct{}{}

		conditions, err := conditionsText(fr.Conditions)
		if err != nil {
			return nil, fmt.Errorf("rules[%d] (%s): %w", i, fr.ID, err)
		}

		active := true
		if fr.Active != nil {
			active = *fr.Active
		}

		rules = append(rules, inference.Rule{
			ID:            fr.ID,
			Description:   fr.Description,
			Conditions:    conditions,
			ProgramID:     fr.ProgramID,
			Confidence:    fr.Confidence,
			Justification: fr.Justification,
			Active:        active,
		})
	}
	return rules, nil
}

func conditionsText(v interface{}) (string, error) {
	switch c := v.(type) {
	case nil:
		return "", nil
	case string:
		return c, nil
	}
	data, err := json.Marshal(normalizeYAML(v))
	if err != nil {
		return "", fmt.Errorf("encode conditions: %w", err)
	}
	return string(data), nil
}

// normalizeYAML turns interface-keyed maps into string-keyed ones so they encode as JSON objects.
func normalizeYAML(v interface{}) interface{} {
	switch t := v.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalizeYAML(val)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = normalizeYAML(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = normalizeYAML(val)
		}
		return out
	default:
		return v
	}
}

func (f *FileStore) FetchActiveRules(ctx context.Context) ([]inference.Rule, error) {
	start := time.Now()
	defer func() {
		metrics.RuleFetchDuration.WithLabelValues("file").Observe(time.Since(start).Seconds())
	}()

	active := make([]inference.Rule, 0, len(f.rules))
	for _, r := range f.rules {
		if r.Active {
			active = append(active, r)
		}
	}
	return active, nil
}

// Rules returns every rule in the catalog, inactive ones included.
func (f *FileStore) Rules() []inference.Rule {
	out := make([]inference.Rule, len(f.rules))
	copy(out, f.rules)
	return out
}

func (f *FileStore) Path() string {
	return f.path
}
