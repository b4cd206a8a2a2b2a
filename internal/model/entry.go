package model

type GetEntriesRequest struct{}

type GetEntriesResponse struct {
	Entries []Entry `json:"entries"`
}

type SubmitEntryRequest struct {
	Name              string `json:"name"`
	ContactIdentifier string `json:"contact_identifier"`
	Phone             string `json:"phone"`

	// Source is "public" or "cookie" for public submissions. It defaults to
	// "public".
	Source string `json:"source"`
}

type SubmitEntryResponse struct {
	Entry Entry `json:"entry"`
}

type AddEntryRequest struct {
	Name              string `json:"name"`
	ContactIdentifier string `json:"contact_identifier"`
	Phone             string `json:"phone"`
}

type AddEntryResponse struct {
	Entry Entry `json:"entry"`
}

type DeleteEntryRequest struct {
	ID string `json:"id"`
}

type DeleteEntryResponse struct{}

type ClearEntriesRequest struct{}

type ClearEntriesResponse struct{}

type ImportEntry struct {
	Name              string `json:"name"`
	ContactIdentifier string `json:"contact_identifier"`
	Phone             string `json:"phone"`
}

type ImportEntriesRequest struct {
	Entries []ImportEntry `json:"entries"`
}

type ImportEntriesResponse struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}
