package checkout

// CreateSessionRequest models the payload for starting a checkout.
type CreateSessionRequest struct {
	ImageName string `json:"image_name" validate:"required,max=256"`
	Origin    string `json:"origin" validate:"required,url"`
}

// CreateSessionResponse carries the hosted checkout handoff back to the client.
type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}
