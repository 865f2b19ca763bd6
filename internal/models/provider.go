// internal/models/provider.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Coordinate is a WGS84 point. Latitude must be in [-90, 90] and longitude
// in [-180, 180]; upstream form validation owns those checks.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// TravelRadius is the discrete tier of how far a provider is willing to
// travel from their own address.
type TravelRadius string

const (
	RadiusUpTo5Km   TravelRadius = "up_to_5km"
	RadiusUpTo10Km  TravelRadius = "up_to_10km"
	RadiusUpTo15Km  TravelRadius = "up_to_15km"
	RadiusUpTo20Km  TravelRadius = "up_to_20km"
	RadiusUpTo30Km  TravelRadius = "up_to_30km"
	RadiusMetroArea TravelRadius = "metro_area"
)

// DefaultRadiusKm applies when a provider's radius tier is absent or not one
// of the known values.
const DefaultRadiusKm = 10.0

// Km maps a radius tier to its kilometre ceiling.
func (r TravelRadius) Km() float64 {
	switch r {
	case RadiusUpTo5Km:
		return 5
	case RadiusUpTo10Km:
		return 10
	case RadiusUpTo15Km:
		return 15
	case RadiusUpTo20Km:
		return 20
	case RadiusUpTo30Km:
		return 30
	case RadiusMetroArea:
		return 100
	default:
		return DefaultRadiusKm
	}
}

// AgeRange is a child age bracket a provider declares experience with.
type AgeRange string

const (
	AgeNewborn   AgeRange = "newborn"    // under 1 year, incl. unborn
	AgeToddler   AgeRange = "toddler"    // 1-2 years
	AgePreschool AgeRange = "preschool"  // 3-5 years
	AgeSchool    AgeRange = "school_age" // 6-11 years
	AgeTeen      AgeRange = "teenager"   // 12 and up
)

// Tag is the shared namespace for activity and certification tags; job
// requirements reference it so a mandatory tag can be satisfied by either.
type Tag string

// ActivityTag marks an activity a provider accepts as part of an engagement.
type ActivityTag string

const (
	ActivityHomeworkHelp ActivityTag = "homework_help"
	ActivityMealPrep     ActivityTag = "meal_prep"
	ActivityDomesticHelp ActivityTag = "domestic_help"
	ActivitySpecialNeeds ActivityTag = "special_needs"
	ActivityTransport    ActivityTag = "school_transport"
	ActivityOvernight    ActivityTag = "overnight_care"
)

// Certification is a formal qualification attached to a provider profile.
type Certification string

const (
	CertFirstAid         Certification = "first_aid"
	CertChildcareDiploma Certification = "childcare_diploma"
	CertNursing          Certification = "nursing"
	CertEarlyEducation   Certification = "early_education"
)

// EngagementType is the contract shape both sides declare.
type EngagementType string

const (
	EngagementFullTime   EngagementType = "full_time"
	EngagementPartTime   EngagementType = "part_time"
	EngagementLiveIn     EngagementType = "live_in"
	EngagementOccasional EngagementType = "occasional"
)

// RateKind is the granularity a quoted rate or budget range applies to.
type RateKind string

const (
	RateMonthly RateKind = "monthly"
	RateHourly  RateKind = "hourly"
	RateDaily   RateKind = "daily"
)

// RateKindOrder is the tie-break order when more than one rate kind is
// shared between a request and a provider.
var RateKindOrder = []RateKind{RateMonthly, RateHourly, RateDaily}

// ProviderProfile is an identity-independent snapshot of a caregiver as the
// scoring engine sees it. All pointer fields mean "unknown" when nil, which
// the engine treats as neutral rather than disqualifying.
type ProviderProfile struct {
	ID              string                        `json:"id"`
	ExperienceYears int                           `json:"experienceYears"`
	MaxChildren     int                           `json:"maxChildren"` // 0 = unspecified
	AgeRanges       []AgeRange                    `json:"ageRanges"`
	Activities      []ActivityTag                 `json:"activities"`
	Certifications  []Certification               `json:"certifications"`
	EngagementTypes []EngagementType              `json:"engagementTypes"`
	Rates           map[RateKind]decimal.Decimal  `json:"rates"`
	Coordinates     *Coordinate                   `json:"coordinates,omitempty"`
	TravelRadius    TravelRadius                  `json:"travelRadius,omitempty"`
	AcceptsPets     *bool                         `json:"acceptsPets,omitempty"`

	DocumentValidated *bool      `json:"documentValidated,omitempty"`
	DocumentExpiresAt *time.Time `json:"documentExpiresAt,omitempty"`
	IdentityValidated *bool      `json:"identityValidated,omitempty"`
	BackgroundChecked *bool      `json:"backgroundChecked,omitempty"`

	AverageRating float64    `json:"averageRating"`
	ReviewCount   int        `json:"reviewCount"`
	LastActiveAt  *time.Time `json:"lastActiveAt,omitempty"`

	Available *WeeklySchedule `json:"available,omitempty"`
}

// TagSet collects the provider's activities and certifications into one set
// for mandatory-requirement membership tests.
func (p ProviderProfile) TagSet() map[Tag]struct{} {
	set := make(map[Tag]struct{}, len(p.Activities)+len(p.Certifications))
	for _, a := range p.Activities {
		set[Tag(a)] = struct{}{}
	}
	for _, c := range p.Certifications {
		set[Tag(c)] = struct{}{}
	}
	return set
}

// AcceptsActivity reports whether the provider lists the given activity.
func (p ProviderProfile) AcceptsActivity(a ActivityTag) bool {
	for _, tag := range p.Activities {
		if tag == a {
			return true
		}
	}
	return false
}

// AgeRangeSet returns the declared age brackets as a set.
func (p ProviderProfile) AgeRangeSet() map[AgeRange]struct{} {
	set := make(map[AgeRange]struct{}, len(p.AgeRanges))
	for _, r := range p.AgeRanges {
		set[r] = struct{}{}
	}
	return set
}
