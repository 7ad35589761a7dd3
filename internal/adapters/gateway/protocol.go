package gateway

// Update type discriminators on the inbound side of the relay
// protocol.
const (
	UpdateMessage  = "message"
	UpdateCallback = "callback"
)

// Update is one inbound event from the chat-gateway relay.
type Update struct {
	Type string `json:"type"`

	ChatID    int64 `json:"chat_id"`
	UserID    int64 `json:"user_id"`
	MessageID int64 `json:"message_id"`
	Private   bool  `json:"private"`

	// Message fields. ForwardedAt is the unix time the game produced
	// the message; ForwardOrigin is the forwarding account's ID.
	Text          string `json:"text,omitempty"`
	ForwardedAt   int64  `json:"forwarded_at,omitempty"`
	ForwardOrigin int64  `json:"forward_origin,omitempty"`

	// Callback fields.
	Value         string `json:"value,omitempty"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// Outbound type discriminators.
const (
	OutboundReply  = "reply"
	OutboundPrompt = "prompt"
	OutboundEdit   = "edit"
)

// Outbound is one instruction to the relay.
type Outbound struct {
	Type string `json:"type"`

	ChatID  int64  `json:"chat_id,omitempty"`
	ReplyTo int64  `json:"reply_to,omitempty"`
	Text    string `json:"text,omitempty"`

	// Prompt fields: the inline button row and the token each press
	// will carry back.
	Buttons       []string `json:"buttons,omitempty"`
	CorrelationID string   `json:"correlation_id,omitempty"`
}
