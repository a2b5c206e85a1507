package models

// ErrorMessageResponse returns the error message response struct
type ErrorMessageResponse struct {
	Response string `json:"response"`
}

// HealthCheckResponse is returned by the health endpoint
type HealthCheckResponse struct {
	Alive bool `json:"alive"`
}
