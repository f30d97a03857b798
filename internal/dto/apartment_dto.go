package dto

type CreateApartmentRequest struct {
	UnitNumber string `json:"unit_number"`
	Building   string `json:"building"`
	Floor      int    `json:"floor"`
}
