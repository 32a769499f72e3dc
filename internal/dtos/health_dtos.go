package dtos

type HealthResponse struct {
	Status string `json:"status"`
	App    string `json:"app"`
}
