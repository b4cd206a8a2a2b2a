package model

type GetWinnersRequest struct {
	PublishedOnly bool `json:"published_only" form:"published_only"`
}

type GetWinnersResponse struct {
	Winners  []Winner  `json:"winners"`
	DrawInfo *DrawInfo `json:"draw_info"`
}

type DrawWinnersRequest struct{}

type DrawWinnersResponse struct {
	Winners []Winner `json:"winners"`
}

type PublishWinnersRequest struct{}

type PublishWinnersResponse struct {
	Winners []Winner `json:"winners"`
}

type ClearWinnersRequest struct{}

type ClearWinnersResponse struct{}
