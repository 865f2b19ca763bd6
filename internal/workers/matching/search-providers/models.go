// internal/workers/matching/search-providers/models.go
package searchproviders

type Input struct {
	Keywords        string     `json:"keywords,omitempty"`
	Latitude        *float64   `json:"latitude,omitempty"`
	Longitude       *float64   `json:"longitude,omitempty"`
	RadiusKm        float64    `json:"radiusKm,omitempty"`
	AgeRanges       []string   `json:"ageRanges,omitempty"`
	Activities      []string   `json:"activities,omitempty"`
	EngagementTypes []string   `json:"engagementTypes,omitempty"`
	MinExperience   int        `json:"minExperienceYears,omitempty"`
	Pagination      Pagination `json:"pagination"`
}

type Pagination struct {
	From int `json:"from"`
	Size int `json:"size"`
}

type Output struct {
	ProviderIDs []string                 `json:"providerIds"`
	Data        []map[string]interface{} `json:"data"`
	TotalHits   int64                    `json:"totalHits"`
	MaxScore    float64                  `json:"maxScore"`
	Took        int64                    `json:"took"`
}
