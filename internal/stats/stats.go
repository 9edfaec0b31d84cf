package stats

// StatusCounts maps each status to the number of rows holding it.
type StatusCounts map[string]int64

func (c StatusCounts) Total() int64 {
	var n int64
	for _, v := range c {
		n += v
	}
	return n
}

type ITAMStats struct {
	Total    int64        `json:"total"`
	ByStatus StatusCounts `json:"by_status"`
}

type HelpdeskStats struct {
	Total      int64        `json:"total"`
	Open       int64        `json:"open"`
	InProgress int64        `json:"in_progress"`
	Resolved   int64        `json:"resolved"`
	ByStatus   StatusCounts `json:"by_status"`
}

type AssetStats struct {
	Count      int64   `json:"count"`
	TotalValue float64 `json:"total_value"`
}

// Source names one counted table and how its live rows are told apart.
type Source struct {
	Table         string
	DeletedColumn string
}

var (
	ITAMAssets      = Source{Table: "itam_assets", DeletedColumn: "is_deleted"}
	HelpdeskTickets = Source{Table: "helpdesk_tickets"}
	Assets          = Source{Table: "assets", DeletedColumn: "is_deleted"}
)
