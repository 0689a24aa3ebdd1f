// Package dto defines request/response shapes for the HTTP API.
package dto

// ClaimUserRequest is the body for POST /users.
type ClaimUserRequest struct {
	Username string `json:"username"`
}

// ClaimUserResponse is the success response for POST /users.
type ClaimUserResponse struct {
	Status   string `json:"status"`
	UID      string `json:"uid"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// UsernameResponse is the success response for POST /getusername.
type UsernameResponse struct {
	Status   string `json:"status"`
	Username string `json:"username"`
}

// SearchUsersResponse is the response for GET /search_users.
type SearchUsersResponse struct {
	Results []string `json:"results"`
}

// ErrorResponse is the common error body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
