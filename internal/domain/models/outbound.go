package models

// OutboundMessage is a text notification pushed to an administrator's phone.
type OutboundMessage struct {
	To         string `json:"to" binding:"required"`
	Body       string `json:"body" binding:"required"`
	PreviewURL bool   `json:"preview_url"`
}
