package model

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ResetRaffleRequest struct{}

type ResetRaffleResponse struct{}

type ExportEntriesRequest struct{}

type ExportWinnersRequest struct {
	PublishedOnly bool `json:"published_only" form:"published_only"`
}

// ExportResponse is written to the client as a file download instead of a
// JSON body.
type ExportResponse struct {
	Filename string
	Data     []byte
}

func (r *ExportResponse) Attachment() (string, string, []byte) {
	return r.Filename, xlsxContentType, r.Data
}
