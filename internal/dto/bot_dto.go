package dto

import "mallfinder-be/pkg/menu"

// UpdateRequest is a free-text message forwarded by the bot gateway.
type UpdateRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Text   string `json:"text"`
}

// CallbackRequest is an inline-button press forwarded by the bot gateway.
type CallbackRequest struct {
	UserID       string `json:"user_id" validate:"required"`
	CallbackData string `json:"callback_data" validate:"required"`
	MessageID    int64  `json:"message_id"`
	ChatID       int64  `json:"chat_id"`
}

// Reply is the render instruction for the gateway: text, an optional
// keyboard, and whether to suppress link previews.
type Reply struct {
	Text               string           `json:"text"`
	Menu               *menu.Descriptor `json:"reply_markup,omitempty"`
	DisableLinkPreview bool             `json:"disable_web_page_preview,omitempty"`
}
