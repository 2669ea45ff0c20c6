/*
errors.go - Centralized error types for the compliance engine boundary

PURPOSE:
  The rule functions themselves never fail: malformed input still yields
  a deterministic verdict. The errors here exist for the BOUNDARY around
  the engine, so callers can distinguish "this contract is exempt" (a
  legitimate verdict) from "this contract's data is nonsensical" (an
  invalid-input error) and from "this record does not exist" (a store
  error).

ERROR CATEGORIES:
  1. Invalid input - Rejected before the engine is invoked
  2. Not found     - Missing contracts, funding sources, reports
  3. Conflict      - Duplicate labor-hour or report submissions

USAGE:
  if err := section3.ValidateContractInput(in); err != nil {
      var inv *section3.InvalidInputError
      if errors.As(err, &inv) { ... }
  }

SEE ALSO:
  - applicability.go: The no-validation default path
  - api: Maps these errors to HTTP status codes
*/
package section3

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInput marks boundary validation failures. Distinct from a
	// non-applicable verdict, which is a valid answer.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownContractType is returned when a contract type string does
	// not match a known category.
	ErrUnknownContractType = errors.New("unknown contract type")

	// ErrContractNotFound is returned when a referenced contract doesn't exist.
	ErrContractNotFound = errors.New("contract not found")

	// ErrFundingSourceNotFound is returned when a referenced funding source doesn't exist.
	ErrFundingSourceNotFound = errors.New("funding source not found")

	// ErrTaskNotFound is returned when a referenced task doesn't exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrDuplicateHoursEntry is returned when a labor-hour entry with the
	// same idempotency key already exists. Expected behavior for retries.
	ErrDuplicateHoursEntry = errors.New("duplicate labor-hour entry")

	// ErrDuplicateReport is returned when a report already covers the period.
	ErrDuplicateReport = errors.New("report already submitted for period")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidInputError names the field that failed boundary validation.
type InvalidInputError struct {
	Field   string
	Message string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

// =============================================================================
// BOUNDARY VALIDATION
// =============================================================================

// ContractInput is the raw material for an applicability decision plus a
// task calendar, as received from a caller.
type ContractInput struct {
	ContractType     ContractType
	HUDFundingAmount Amount
	TotalProjectCost Amount
	StartDate        TimePoint
	EndDate          TimePoint
}

// ParseContractType validates a contract type string against the known
// categories.
func ParseContractType(s string) (ContractType, error) {
	switch ct := ContractType(s); ct {
	case ContractMaterialsOnly, ContractConstruction, ContractRehabilitation,
		ContractLeadHazardControl, ContractProfessionalServices, ContractOther:
		return ct, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownContractType, s)
}

// ValidateContractInput applies the recommended boundary checks: known
// contract type, non-negative amounts, and a coherent date range. The
// engine functions do not call this; callers do, before invoking them.
func ValidateContractInput(in ContractInput) error {
	if _, err := ParseContractType(string(in.ContractType)); err != nil {
		return &InvalidInputError{Field: "contract_type", Message: err.Error()}
	}
	if in.HUDFundingAmount.IsNegative() {
		return &InvalidInputError{Field: "hud_funding_amount", Message: "must be non-negative"}
	}
	if in.TotalProjectCost.IsNegative() {
		return &InvalidInputError{Field: "total_project_cost", Message: "must be non-negative"}
	}
	if in.EndDate.Before(in.StartDate) {
		return &InvalidInputError{Field: "end_date", Message: "must not precede start_date"}
	}
	return nil
}

// ValidateLaborHours checks a labor-hour submission: non-negative values
// and Section 3 / targeted hours that fit inside the total.
func ValidateLaborHours(total, section3Hours, targetedHours Amount) error {
	if total.IsNegative() || section3Hours.IsNegative() || targetedHours.IsNegative() {
		return &InvalidInputError{Field: "labor_hours", Message: "hours must be non-negative"}
	}
	if section3Hours.GreaterThan(total) {
		return &InvalidInputError{Field: "section3_hours", Message: "cannot exceed total hours"}
	}
	if targetedHours.GreaterThan(section3Hours) {
		return &InvalidInputError{Field: "targeted_hours", Message: "cannot exceed section3 hours"}
	}
	return nil
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrUnknownContractType)
}

// IsConflict returns true for duplicate-submission errors.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateHoursEntry) ||
		errors.Is(err, ErrDuplicateReport)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrContractNotFound) ||
		errors.Is(err, ErrFundingSourceNotFound) ||
		errors.Is(err, ErrTaskNotFound)
}
