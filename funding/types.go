// Package funding implements the HUD funding-program domain: concrete
// program types and preset funding-source configurations consumed by the
// section3 compliance engine.
package funding

import "github.com/rapidcompliance/section3-engine/section3"

// =============================================================================
// HUD PROGRAM TYPES
// =============================================================================

// Program is the concrete program type for HUD-administered funding.
// Implements section3.ProgramType.
type Program string

func (p Program) ProgramID() string     { return string(p) }
func (p Program) ProgramAgency() string { return "hud" }

// Compile-time check that Program implements section3.ProgramType
var _ section3.ProgramType = Program("")

// Program identifiers for common HUD funding streams
const (
	ProgramCDBG          Program = "cdbg"                // Community Development Block Grant
	ProgramHOME          Program = "home"                // HOME Investment Partnerships
	ProgramLeadHazard    Program = "lead_hazard_control" // Lead Hazard Control and Healthy Homes
	ProgramPublicHousing Program = "public_housing"      // Public Housing Capital Fund
	ProgramHousingTrust  Program = "housing_trust_fund"  // Housing Trust Fund
)

// Register all HUD programs with the section3 registry
func init() {
	section3.RegisterProgram(ProgramCDBG)
	section3.RegisterProgram(ProgramHOME)
	section3.RegisterProgram(ProgramLeadHazard)
	section3.RegisterProgram(ProgramPublicHousing)
	section3.RegisterProgram(ProgramHousingTrust)
}
