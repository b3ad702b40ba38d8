package payloads

// Cleanup reasons.
const (
	ReasonMovieDeleted   = "movie_deleted"
	ReasonUserDeleted    = "user_deleted"
	ReasonImageReplaced  = "image_replaced"
	ReasonPersistFailure = "persist_failed"
)

// ImageCleanupPayload asks the worker to delete one object from the media host.
type ImageCleanupPayload struct {
	PublicID string `json:"public_id"`
	Reason   string `json:"reason"`
}
