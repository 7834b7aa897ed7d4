package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/study-productivity/internal/productivity"
	"github.com/danielpatrickdp/study-productivity/internal/store"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description string        `json:"description"`
	Config      FixtureConfig `json:"config"`
	Cases       []FixtureCase `json:"cases"`
}

// FixtureConfig mirrors productivity.EngineConfig with JSON tags.
type FixtureConfig struct {
	SampleStep float64 `json:"sample_step"`
}

// FixtureCase is one recorded input with the result it is expected to produce.
type FixtureCase struct {
	ID               string                `json:"id"`
	Input            productivity.Input    `json:"input"`
	ExpectedScore    int                   `json:"expected_score"`
	ExpectedCategory productivity.Category `json:"expected_category"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// WriteFixture writes f as indented JSON.
func WriteFixture(path string, f *Fixture) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write fixture %s: %w", path, err)
	}
	return nil
}

// ToEngineConfig converts a FixtureConfig to an engine configuration.
// A missing sample step means the default.
func (fc *FixtureConfig) ToEngineConfig() productivity.EngineConfig {
	cfg := productivity.DefaultEngineConfig()
	if fc.SampleStep > 0 {
		cfg.SampleStep = fc.SampleStep
	}
	return cfg
}

// ToCase converts a FixtureCase to a replay Case.
func (fc *FixtureCase) ToCase() Case {
	return Case{
		ID:    fc.ID,
		Input: fc.Input,
		Expected: productivity.Result{
			Score:    fc.ExpectedScore,
			Category: fc.ExpectedCategory,
		},
	}
}

// ToCases converts every fixture case.
func (f *Fixture) ToCases() []Case {
	cases := make([]Case, len(f.Cases))
	for i := range f.Cases {
		cases[i] = f.Cases[i].ToCase()
	}
	return cases
}

// #endregion fixture-loader

// #region from-records

// FixtureFromRecords captures stored evaluations as a fixture. The stored
// score and category become the expectations.
func FixtureFromRecords(description string, config productivity.EngineConfig, records []store.Record) *Fixture {
	f := &Fixture{
		Description: description,
		Config:      FixtureConfig{SampleStep: config.SampleStep},
		Cases:       make([]FixtureCase, 0, len(records)),
	}
	for _, r := range records {
		f.Cases = append(f.Cases, FixtureCase{
			ID:               r.ID,
			Input:            r.Input,
			ExpectedScore:    r.Score,
			ExpectedCategory: r.Category,
		})
	}
	return f
}

// CasesFromRecords turns stored evaluations into replay cases, including the
// stored recommendation in the comparison.
func CasesFromRecords(records []store.Record) []Case {
	cases := make([]Case, len(records))
	for i, r := range records {
		cases[i] = Case{ID: r.ID, Input: r.Input, Expected: r.Result}
	}
	return cases
}

// #endregion from-records
