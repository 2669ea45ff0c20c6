/*
factory.go - Funding source JSON definition helpers

These helpers construct JSON funding-source definitions for the factory
package. They build JSON strings directly to avoid import cycles with
the factory package.

USAGE:
  import "github.com/rapidcompliance/section3-engine/funding"

  jsonStr := funding.CDBGJSON("cdbg-2024", "CDBG Entitlement 2024")
  source, err := factory.ParseFundingSource(jsonStr)
*/
package funding

import (
	"encoding/json"
)

// CDBGJSON returns JSON for a CDBG funding source.
func CDBGJSON(id, name string) string {
	return sourceJSON(id, name, string(ProgramCDBG), 200000, "Subpart B")
}

// HOMEJSON returns JSON for a HOME funding source.
func HOMEJSON(id, name string) string {
	return sourceJSON(id, name, string(ProgramHOME), 200000, "Subpart B")
}

// LeadHazardJSON returns JSON for a lead hazard control funding source.
func LeadHazardJSON(id, name string) string {
	return sourceJSON(id, name, string(ProgramLeadHazard), 100000, "Subpart C")
}

// PublicHousingJSON returns JSON for a public housing capital fund source.
func PublicHousingJSON(id, name string) string {
	return sourceJSON(id, name, string(ProgramPublicHousing), 200000, "Subpart B")
}

func sourceJSON(id, name, program string, threshold float64, subpart string) string {
	sj := map[string]interface{}{
		"id":                id,
		"name":              name,
		"program":           program,
		"default_threshold": threshold,
		"subpart":           subpart,
	}
	b, _ := json.MarshalIndent(sj, "", "  ")
	return string(b)
}
