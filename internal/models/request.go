// internal/models/request.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetRange bounds what a household is prepared to pay for one rate kind.
// A nil bound is open; both nil means the range is unconstrained.
type BudgetRange struct {
	Min *decimal.Decimal `json:"min,omitempty"`
	Max *decimal.Decimal `json:"max,omitempty"`
}

// Unconstrained reports whether neither bound is set.
func (b BudgetRange) Unconstrained() bool {
	return b.Min == nil && b.Max == nil
}

// JobRequirements is the open care request being matched.
type JobRequirements struct {
	ID            string   `json:"id"`
	MandatoryTags []Tag    `json:"mandatoryTags"`
	ChildIDs      []string `json:"childIds"`
}

// HouseholdProfile is the family-side snapshot attached to a request.
type HouseholdProfile struct {
	ID                  string                   `json:"id"`
	EngagementTypes     []EngagementType         `json:"engagementTypes"`
	HasPets             bool                     `json:"hasPets"`
	ExpectsDomesticHelp bool                     `json:"expectsDomesticHelp"`
	Budgets             map[RateKind]BudgetRange `json:"budgets"`
	Coordinates         *Coordinate              `json:"coordinates,omitempty"`
	Needed              *WeeklySchedule          `json:"needed,omitempty"`
}

// ChildProfile is one child in the scope of a request. Unborn children carry
// an expected birth date instead of a birth date.
type ChildProfile struct {
	ID                string     `json:"id"`
	BirthDate         *time.Time `json:"birthDate,omitempty"`
	ExpectedBirthDate *time.Time `json:"expectedBirthDate,omitempty"`
	Unborn            bool       `json:"unborn"`
	SpecialNeeds      bool       `json:"specialNeeds"`
	SpecialNeedsNote  string     `json:"specialNeedsNote,omitempty"`
}

// AgeRangeAt buckets the child into a provider age bracket as of now.
// Unborn children and children with no known birth date fall into the
// newborn bracket.
func (c ChildProfile) AgeRangeAt(now time.Time) AgeRange {
	if c.Unborn || c.BirthDate == nil {
		return AgeNewborn
	}
	years := yearsBetween(*c.BirthDate, now)
	switch {
	case years < 1:
		return AgeNewborn
	case years < 3:
		return AgeToddler
	case years < 6:
		return AgePreschool
	case years < 12:
		return AgeSchool
	default:
		return AgeTeen
	}
}

func yearsBetween(from, to time.Time) int {
	years := to.Year() - from.Year()
	anniversary := from.AddDate(years, 0, 0)
	if anniversary.After(to) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
