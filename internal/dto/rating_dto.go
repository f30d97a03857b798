package dto

type CreateRatingRequest struct {
	RatedUsername string `json:"rated_username"`
	Rating        int    `json:"rating"`
	Comment       string `json:"comment"`
}
