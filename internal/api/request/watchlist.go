package request

type CreateWatchlistRequest struct {
	Name string `json:"name"`
}
