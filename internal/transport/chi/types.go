package chi

import (
	"time"

	"github.com/kailas-cloud/folio/internal/domain/item"
	"github.com/kailas-cloud/folio/internal/domain/search/result"
)

// ErrorCode is the machine-readable error code of an ErrorResponse.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodeInvalidQuery     ErrorCode = "invalid_query"
	ErrorCodeInvalidKind      ErrorCode = "invalid_kind"
	ErrorCodeInvalidSession   ErrorCode = "invalid_session"
	ErrorCodeNotFound         ErrorCode = "not_found"
	ErrorCodeAlreadyExists    ErrorCode = "already_exists"
	ErrorCodeUnauthorized     ErrorCode = "unauthorized"
	ErrorCodeNotReady         ErrorCode = "not_ready"
	ErrorCodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ItemRequest is the body of create and update requests.
type ItemRequest struct {
	ID           string   `json:"id,omitempty"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	Category     string   `json:"category"`
	Code         string   `json:"code,omitempty"`
	Featured     bool     `json:"featured,omitempty"`
	URL          string   `json:"url,omitempty"`
}

func (r ItemRequest) fields() item.Fields {
	return item.Fields{
		Title:        r.Title,
		Description:  r.Description,
		Technologies: r.Technologies,
		Category:     r.Category,
		Code:         r.Code,
		Featured:     r.Featured,
		URL:          r.URL,
	}
}

// ItemResponse is a catalog item.
type ItemResponse struct {
	ID           string    `json:"id"`
	Kind         item.Kind `json:"kind"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Technologies []string  `json:"technologies"`
	Category     string    `json:"category"`
	Code         string    `json:"code,omitempty"`
	Featured     bool      `json:"featured"`
	URL          string    `json:"url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ItemListResponse lists a collection in collection order.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Total int            `json:"total"`
}

// SearchHit is one ranked item.
type SearchHit struct {
	Item          ItemResponse `json:"item"`
	Score         float64      `json:"score"`
	MatchedFields []string     `json:"matched_fields"`
}

// SearchStats reports how a search went.
type SearchStats struct {
	TotalResults int      `json:"total_results"`
	SearchTimeMs int64    `json:"search_time_ms"`
	Suggestions  []string `json:"suggestions"`
}

// SearchResponse is the body of a search request.
type SearchResponse struct {
	Items []SearchHit `json:"items"`
	Stats SearchStats `json:"stats"`
}

// CategoriesResponse lists the distinct categories of a collection.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// RecentResponse lists a session's recent queries, newest first.
type RecentResponse struct {
	Session string   `json:"session"`
	Queries []string `json:"queries"`
}

// LoginRequest is the admin login body.
type LoginRequest struct {
	Phone    string `json:"phone"`
	Passcode string `json:"passcode"`
}

// LoginResponse carries an issued admin token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// HealthResponse reports component health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// ItemToResponse converts a domain item.
func ItemToResponse(it item.Item) ItemResponse {
	techs := it.Technologies()
	if techs == nil {
		techs = []string{}
	}
	return ItemResponse{
		ID:           it.ID(),
		Kind:         it.Kind(),
		Title:        it.Title(),
		Description:  it.Description(),
		Technologies: techs,
		Category:     it.Category(),
		Code:         it.Code(),
		Featured:     it.Featured(),
		URL:          it.URL(),
		CreatedAt:    it.CreatedAt(),
		UpdatedAt:    it.UpdatedAt(),
	}
}

// OutcomeToResponse converts a ranked outcome.
func OutcomeToResponse(out result.Outcome) SearchResponse {
	hits := make([]SearchHit, len(out.Matches))
	for i, m := range out.Matches {
		hits[i] = SearchHit{
			Item:          ItemToResponse(m.Item()),
			Score:         m.Score(),
			MatchedFields: m.Matched().Names(),
		}
	}
	suggestions := out.Stats.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}
	return SearchResponse{
		Items: hits,
		Stats: SearchStats{
			TotalResults: out.Stats.TotalResults,
			SearchTimeMs: out.Stats.SearchTimeMillis(),
			Suggestions:  suggestions,
		},
	}
}
