package model

type AdminToken struct {
	Name string `json:"name"`
}

type Entry struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	ContactIdentifier string `json:"contact_identifier"`
	Phone             string `json:"phone,omitempty"`
	Source            string `json:"source"`
	CreatedAt         string `json:"created_at"`
}

type RaffleSettings struct {
	Title       string `json:"title"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	WinnerCount int    `json:"winner_count"`
	Status      string `json:"status"`
	UpdatedAt   string `json:"updated_at"`
}

type Winner struct {
	ID                string `json:"id"`
	DrawID            string `json:"draw_id"`
	EntryID           string `json:"entry_id"`
	Name              string `json:"name"`
	ContactIdentifier string `json:"contact_identifier"`
	Phone             string `json:"phone,omitempty"`
	Rank              int    `json:"rank"`
	Published         bool   `json:"published"`
	DrawnAt           string `json:"drawn_at"`
	PublishedAt       string `json:"published_at,omitempty"`
}

type DrawInfo struct {
	TotalEntries int64  `json:"total_entries"`
	WinnerCount  int    `json:"winner_count"`
	DrawnAt      string `json:"drawn_at"`
}
