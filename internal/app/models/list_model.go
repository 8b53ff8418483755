package models

type ListSearchRequest struct {
	Text string `json:"text" validate:"max=200"`
}

type ListFilterRequest struct {
	Key   string `json:"key" validate:"required,max=50"`
	Value string `json:"value" validate:"max=200"`
}

type ListPageRequest struct {
	Page int `json:"page"`
}

type ListPageSizeRequest struct {
	PageSize int `json:"page_size" validate:"required,min=1,max=100"`
}

// ListError describes the error currently shown on a list.
type ListError struct {
	Kind      string   `json:"kind"`
	Message   string   `json:"message"`
	ID        string   `json:"id,omitempty"`
	FailedIDs []string `json:"failed_ids,omitempty"`
}

// ListViewResponse is the browser's view of one list.
type ListViewResponse struct {
	Resource       string            `json:"resource"`
	Items          any               `json:"items"`
	Total          int               `json:"total"`
	Page           int               `json:"page"`
	TotalPages     int               `json:"total_pages"`
	PageSize       int               `json:"page_size"`
	StartItem      int               `json:"start_item"`
	EndItem        int               `json:"end_item"`
	HasNext        bool              `json:"has_next"`
	HasPrev        bool              `json:"has_prev"`
	SearchInput    string            `json:"search_input"`
	SearchTerm     string            `json:"search_term"`
	Filters        map[string]string `json:"filters"`
	AllowedFilters []string          `json:"allowed_filters"`
	Selection      []string          `json:"selection"`
	Loading        bool              `json:"loading"`
	Loaded         bool              `json:"loaded"`
	Error          *ListError        `json:"error,omitempty"`
	Version        uint64            `json:"version"`
}

// SavedListQuery is the committed query of a list, kept between visits.
type SavedListQuery struct {
	SearchTerm string            `json:"search_term"`
	Filters    map[string]string `json:"filters"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
}
