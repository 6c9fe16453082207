package models

import (
	"fmt"
	"net/http"
)

// LambdaEvent is the input event for Lambda invocation.
type LambdaEvent struct {
	Organization string `json:"organization,omitempty"`
	Source       string `json:"source,omitempty"`
	DetailType   string `json:"detail-type,omitempty"`
}

// OrganizationOr returns the event organization, or fallback when unset.
func (e *LambdaEvent) OrganizationOr(fallback string) string {
	if e != nil && e.Organization != "" {
		return e.Organization
	}
	return fallback
}

// LambdaResponse is the output from Lambda invocation.
type LambdaResponse struct {
	StatusCode int          `json:"status_code"`
	Message    string       `json:"message"`
	Result     *FetchResult `json:"result,omitempty"`
}

// NewFetchResponse maps a fetch result to a response. A failed fetch is
// reported as a bad gateway and still carries the resulting state.
func NewFetchResponse(result *FetchResult) *LambdaResponse {
	if !result.Succeeded {
		return &LambdaResponse{
			StatusCode: http.StatusBadGateway,
			Message:    fmt.Sprintf("Fetch failed: %s", result.Error),
			Result:     result,
		}
	}
	return &LambdaResponse{
		StatusCode: http.StatusOK,
		Message:    fmt.Sprintf("Fetched %d members", result.MemberCount),
		Result:     result,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(err error) *LambdaResponse {
	return &LambdaResponse{
		StatusCode: http.StatusInternalServerError,
		Message:    err.Error(),
	}
}
