/*
Package factory provides JSON to Go funding-source conversion.

PURPOSE:
  Converts JSON funding-source definitions into section3.FundingSource
  values. This enables program configuration without code changes -
  compliance administrators define sources in JSON, and the factory
  creates the proper Go structs.

WHY JSON?
  - Non-developers can add funding programs
  - Easy integration with admin UI
  - Version control for program definitions
  - Database storage of source configs

JSON SCHEMA:
  {
    "id": "cdbg-2024",
    "name": "CDBG Entitlement 2024",
    "program": "cdbg",
    "default_threshold": 200000,
    "subpart": "Subpart B"
  }

KEY FEATURES:
  - Validates structure and subpart values
  - Sets sensible defaults (Subpart B, $200k) for omitted fields
  - Resolves program types through the section3 registry

USAGE:
  f := factory.NewSourceFactory()

  // From JSON string
  source, err := f.ParseFundingSource(jsonStr)

  // From domain preset (recommended)
  import "github.com/rapidcompliance/section3-engine/funding"
  jsonStr := funding.CDBGJSON("cdbg-2024", "CDBG Entitlement 2024")
  source, err := f.ParseFundingSource(jsonStr)

SEE ALSO:
  - section3/types.go: FundingSource definition
  - funding/factory.go: JSON presets for common programs
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/rapidcompliance/section3-engine/section3"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// FundingSourceJSON is the JSON representation of a funding source.
type FundingSourceJSON struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Program          string  `json:"program"`
	DefaultThreshold float64 `json:"default_threshold,omitempty"`
	Subpart          string  `json:"subpart,omitempty"`
}

// =============================================================================
// SOURCE FACTORY
// =============================================================================

// SourceFactory converts JSON funding sources to Go structs.
type SourceFactory struct{}

// NewSourceFactory creates a new source factory.
func NewSourceFactory() *SourceFactory {
	return &SourceFactory{}
}

// ParseFundingSource parses a JSON string into a FundingSource.
func (f *SourceFactory) ParseFundingSource(jsonStr string) (*section3.FundingSource, error) {
	var sj FundingSourceJSON
	if err := json.Unmarshal([]byte(jsonStr), &sj); err != nil {
		return nil, fmt.Errorf("failed to parse funding source JSON: %w", err)
	}
	return f.FromJSON(sj)
}

// FromJSON converts FundingSourceJSON to a section3.FundingSource.
func (f *SourceFactory) FromJSON(sj FundingSourceJSON) (*section3.FundingSource, error) {
	if sj.ID == "" {
		return nil, fmt.Errorf("funding source id is required")
	}
	if sj.Program == "" {
		return nil, fmt.Errorf("funding source program is required")
	}

	subpart, err := parseSubpart(sj.Subpart)
	if err != nil {
		return nil, err
	}

	threshold := sj.DefaultThreshold
	if threshold == 0 {
		threshold = defaultThresholdFor(subpart)
	}

	return &section3.FundingSource{
		ID:               section3.SourceID(sj.ID),
		Name:             sj.Name,
		Program:          section3.GetOrCreateProgram(sj.Program),
		DefaultThreshold: section3.NewAmount(threshold, section3.UnitDollars),
		Subpart:          subpart,
	}, nil
}

// ToJSON converts a FundingSource to FundingSourceJSON.
func (f *SourceFactory) ToJSON(source *section3.FundingSource) FundingSourceJSON {
	threshold, _ := source.DefaultThreshold.Value.Float64()
	return FundingSourceJSON{
		ID:               string(source.ID),
		Name:             source.Name,
		Program:          source.Program.ProgramID(),
		DefaultThreshold: threshold,
		Subpart:          string(source.Subpart),
	}
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parseSubpart(s string) (section3.Subpart, error) {
	switch s {
	case "", string(section3.SubpartB):
		return section3.SubpartB, nil
	case string(section3.SubpartC):
		return section3.SubpartC, nil
	default:
		return "", fmt.Errorf("unknown subpart: %q", s)
	}
}

func defaultThresholdFor(subpart section3.Subpart) float64 {
	if subpart == section3.SubpartC {
		t, _ := section3.LeadHazardThreshold.Value.Float64()
		return t
	}
	t, _ := section3.DefaultThreshold.Value.Float64()
	return t
}
