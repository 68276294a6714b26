package types

// APIResponse is the envelope every endpoint answers with
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Pagination describes one page of a listing
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

// NewPagination computes the page window for total rows split into pages of limit
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}

// Success wraps data in a successful envelope
func Success(data any) APIResponse {
	return APIResponse{Success: true, Data: data}
}

// SuccessMessage is a successful envelope carrying only a message
func SuccessMessage(message string) APIResponse {
	return APIResponse{Success: true, Message: message}
}

// Failure is the error envelope
func Failure(message string) APIResponse {
	return APIResponse{Success: false, Error: message}
}
