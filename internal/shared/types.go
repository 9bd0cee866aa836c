package shared

// Task types and queues handled by cmd/worker
const (
	TypeDeleteBookImage = "book:delete_image"

	QueueDefault = "default"
)

// DeleteImagePayload is the asynq payload of TypeDeleteBookImage
type DeleteImagePayload struct {
	Ref string `json:"ref"`
}
