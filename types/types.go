package types

const (
	TypeWebsocketPing  = "ping"
	TypeWebsocketPong  = "pong"
	TypeWebsocketChat  = "chat"
	TypeWebsocketDelta = "delta"
	TypeWebsocketDone  = "done"
	TypeWebsocketError = "error"
)

type WebsocketRequest struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type WebsocketResponse struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

type WebsocketChatPayload struct {
	DocumentID string    `json:"document_id"`
	Messages   []Message `json:"messages"`
}

type WebsocketDeltaPayload struct {
	Delta string `json:"delta"`
}

type WebsocketErrorPayload struct {
	Message string `json:"message"`
}
