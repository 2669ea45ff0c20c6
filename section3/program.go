/*
program.go - HUD program type registration and lookup

PURPOSE:
  Provides a registry for domain packages to register their HUD program
  types. Storage and the factory use it to reconstruct concrete program
  types from stored strings while this package stays program-agnostic.

HOW IT WORKS:
  1. Domain packages define their ProgramType implementations
  2. Domain packages register them on init()
  3. Factory/storage uses the registry to reconstruct types

USAGE:
  // In funding/catalog.go
  func init() {
      section3.RegisterProgram(ProgramCDBG)
  }

  // In factory or store
  program := section3.LookupProgram("cdbg")  // returns funding.ProgramCDBG

SEE ALSO:
  - types.go: FundingSource carries a ProgramType
  - funding: Concrete program implementations
*/
package section3

import (
	"fmt"
	"sync"
)

// ProgramType identifies a federal funding program category. Domain
// packages define their own concrete types; this package has no
// knowledge of specific programs.
type ProgramType interface {
	// ProgramID returns the unique identifier for this program.
	ProgramID() string

	// ProgramAgency returns the administering agency.
	ProgramAgency() string
}

// =============================================================================
// PROGRAM REGISTRY
// =============================================================================

var (
	programRegistry = make(map[string]ProgramType)
	registryMu      sync.RWMutex
)

// RegisterProgram adds a program type to the global registry.
// Call this from domain package init() functions.
func RegisterProgram(p ProgramType) {
	registryMu.Lock()
	defer registryMu.Unlock()
	programRegistry[p.ProgramID()] = p
}

// LookupProgram finds a registered program type by ID.
// Returns nil if not found.
func LookupProgram(id string) ProgramType {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return programRegistry[id]
}

// MustLookupProgram finds a registered program type or panics.
// Use in tests or when you're certain the program exists.
func MustLookupProgram(id string) ProgramType {
	p := LookupProgram(id)
	if p == nil {
		panic(fmt.Sprintf("program type not registered: %s", id))
	}
	return p
}

// ListPrograms returns all registered program types.
func ListPrograms() []ProgramType {
	registryMu.RLock()
	defer registryMu.RUnlock()
	result := make([]ProgramType, 0, len(programRegistry))
	for _, p := range programRegistry {
		result = append(result, p)
	}
	return result
}

// =============================================================================
// STRING PROGRAM - For testing and fallback
// =============================================================================

// StringProgram is a simple string-based program type. Use only for
// testing or as a fallback when domain types aren't available.
type StringProgram struct {
	ID     string
	Agency string
}

func (p StringProgram) ProgramID() string     { return p.ID }
func (p StringProgram) ProgramAgency() string { return p.Agency }

// GetOrCreateProgram looks up a program type, or creates a StringProgram
// fallback. Use in deserialization when the domain might not be loaded.
func GetOrCreateProgram(id string) ProgramType {
	if p := LookupProgram(id); p != nil {
		return p
	}
	return StringProgram{ID: id, Agency: "unknown"}
}
