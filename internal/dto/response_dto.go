package dto

// Envelope statuses shared by the generation and persisted-test endpoints.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusOK      = "ok"
)

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// QuestionsEnvelope is the {status, data} / {status:"error", message} shape
// returned by the generation endpoints.
type QuestionsEnvelope struct {
	Status  string              `json:"status"`
	Data    []GeneratedQuestion `json:"data,omitempty"`
	Message string              `json:"message,omitempty"`
}

type UpsertResponse struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
