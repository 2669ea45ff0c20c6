/*
catalog.go - Pre-built funding source configurations

PURPOSE:
  Provides ready-to-use funding sources for the common HUD programs.
  These are convenience constructors that pair a program with its usual
  Section 3 threshold and subpart classification.

AVAILABLE SOURCES:
  CDBGSource:          Community development grants, Subpart B, $200k
  HOMESource:          HOME partnerships, Subpart B, $200k
  LeadHazardSource:    Lead hazard control, Subpart C, $100k
  PublicHousingSource: Capital fund work, Subpart B, $200k

CUSTOMIZATION:
  Thresholds are program defaults, not law for every grantee; agencies
  with different agreements create sources through the factory package
  from JSON instead.

EXAMPLE:
  cdbg := funding.CDBGSource("cdbg-2024")
  verdict := section3.ResolveApplicability(ct, amount, cost, &cdbg)

SEE ALSO:
  - factory: JSON-based funding source creation
  - section3/applicability.go: How sources drive the verdict
*/
package funding

import "github.com/rapidcompliance/section3-engine/section3"

// =============================================================================
// COMMON FUNDING SOURCES
// =============================================================================

// CDBGSource returns a Community Development Block Grant funding source.
func CDBGSource(id section3.SourceID) section3.FundingSource {
	return section3.FundingSource{
		ID:               id,
		Name:             "Community Development Block Grant",
		Program:          ProgramCDBG,
		DefaultThreshold: section3.NewAmountFromInt(200000, section3.UnitDollars),
		Subpart:          section3.SubpartB,
	}
}

// HOMESource returns a HOME Investment Partnerships funding source.
func HOMESource(id section3.SourceID) section3.FundingSource {
	return section3.FundingSource{
		ID:               id,
		Name:             "HOME Investment Partnerships Program",
		Program:          ProgramHOME,
		DefaultThreshold: section3.NewAmountFromInt(200000, section3.UnitDollars),
		Subpart:          section3.SubpartB,
	}
}

// LeadHazardSource returns a Lead Hazard Control funding source. Lead
// hazard work is the Subpart C case: lower threshold, lower labor-hour
// benchmark.
func LeadHazardSource(id section3.SourceID) section3.FundingSource {
	return section3.FundingSource{
		ID:               id,
		Name:             "Lead Hazard Control and Healthy Homes",
		Program:          ProgramLeadHazard,
		DefaultThreshold: section3.NewAmountFromInt(100000, section3.UnitDollars),
		Subpart:          section3.SubpartC,
	}
}

// PublicHousingSource returns a Public Housing Capital Fund source.
func PublicHousingSource(id section3.SourceID) section3.FundingSource {
	return section3.FundingSource{
		ID:               id,
		Name:             "Public Housing Capital Fund",
		Program:          ProgramPublicHousing,
		DefaultThreshold: section3.NewAmountFromInt(200000, section3.UnitDollars),
		Subpart:          section3.SubpartB,
	}
}
