package share

type LinkResponse struct {
	ShareURL  string `json:"shareUrl"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}
