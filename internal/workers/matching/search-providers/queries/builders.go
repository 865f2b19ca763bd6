// internal/workers/matching/search-providers/queries/builders.go
package queries

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var (
	ErrMissingIndex = errors.New("index name is required")
)

// ProviderQuery defines the structure of a provider search request
type ProviderQuery struct {
	Index           string
	Keywords        string
	Latitude        *float64
	Longitude       *float64
	RadiusKm        float64
	AgeRanges       []string
	Activities      []string
	EngagementTypes []string
	MinExperience   int
	Pagination      struct {
		From int
		Size int
	}
}

// BuildQuery builds the providers-index search request from the filters.
func BuildQuery(eq ProviderQuery) (*esapi.SearchRequest, error) {
	if eq.Index == "" {
		return nil, ErrMissingIndex
	}

	body, _ := json.Marshal(buildProviderSearchQuery(eq))

	req := esapi.SearchRequest{
		Index: []string{eq.Index},
		Body:  strings.NewReader(string(body)),
		From:  &eq.Pagination.From,
		Size:  &eq.Pagination.Size,
	}

	return &req, nil
}

func buildProviderSearchQuery(eq ProviderQuery) map[string]interface{} {
	boolQuery := make(map[string]interface{})
	mustClauses := []interface{}{}
	filterClauses := []interface{}{}

	// Keyword search
	if eq.Keywords != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  eq.Keywords,
				"fields": []string{"name^3", "headline^2", "bio"},
				"type":   "best_fields",
			},
		})
	}

	// Geo filter: providers within radius of the household address
	if eq.Latitude != nil && eq.Longitude != nil {
		radius := eq.RadiusKm
		if radius <= 0 {
			radius = 10
		}
		filterClauses = append(filterClauses, map[string]interface{}{
			"geo_distance": map[string]interface{}{
				"distance": fmt.Sprintf("%.1fkm", radius),
				"location": map[string]interface{}{
					"lat": *eq.Latitude,
					"lon": *eq.Longitude,
				},
			},
		})
	}

	// Every requested age bracket must be covered
	for _, ar := range eq.AgeRanges {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"age_ranges": ar},
		})
	}

	// Every requested activity must be offered
	for _, a := range eq.Activities {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"activities": a},
		})
	}

	// Any shared engagement type qualifies
	if len(eq.EngagementTypes) > 0 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"terms": map[string]interface{}{"engagement_types": eq.EngagementTypes},
		})
	}

	if eq.MinExperience > 0 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"range": map[string]interface{}{
				"experience_years": map[string]interface{}{"gte": eq.MinExperience},
			},
		})
	}

	if len(mustClauses) == 0 {
		mustClauses = append(mustClauses, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	boolQuery["must"] = mustClauses
	if len(filterClauses) > 0 {
		boolQuery["filter"] = filterClauses
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": boolQuery,
		},
	}
}
