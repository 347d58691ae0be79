package service

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/SaiVinayBathoju/SaiV/types"
)

// WebSocketService streams chat answers over a websocket as delta frames,
// ending each answer with a done frame. Errors are reported as error frames
// on the same connection.
type WebSocketService struct {
	rag        *RAGService
	generation *GenerationService
	upgrader   websocket.Upgrader
}

func NewWebSocketService(rag *RAGService, generation *GenerationService) *WebSocketService {
	return &WebSocketService{
		rag:        rag,
		generation: generation,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // CORS enforcement happens at the HTTP layer
			},
		},
	}
}

func (s *WebSocketService) HandleChat(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	logger := log.With().Str("conn_id", uuid.NewString()).Logger()
	logger.Debug().Msg("websocket connected")

	conn.SetReadLimit(512 * 1024)
	conn.SetReadDeadline(time.Now().Add(5 * time.Minute))

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	for {
		_, p, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logger.Warn().Err(err).Msg("websocket read error")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(5 * time.Minute))

		var req types.WebsocketRequest
		if err := json.Unmarshal(p, &req); err != nil {
			s.writeError(logger, conn, "invalid message format")
			continue
		}

		switch req.Type {
		case types.TypeWebsocketPing:
			if err := conn.WriteJSON(types.WebsocketResponse{Type: types.TypeWebsocketPong}); err != nil {
				return
			}
		case types.TypeWebsocketChat:
			payloadBytes, err := json.Marshal(req.Payload)
			if err != nil {
				s.writeError(logger, conn, "invalid message format")
				continue
			}
			var payload types.WebsocketChatPayload
			if err := json.Unmarshal(payloadBytes, &payload); err != nil {
				s.writeError(logger, conn, "invalid chat payload")
				continue
			}
			s.handleChatMessage(ctx, logger, conn, payload)
		default:
			s.writeError(logger, conn, "unsupported message type")
		}
	}
}

func (s *WebSocketService) handleChatMessage(ctx context.Context, logger zerolog.Logger, conn *websocket.Conn, payload types.WebsocketChatPayload) {
	if payload.DocumentID == "" {
		s.writeError(logger, conn, "document_id is required")
		return
	}
	query, err := ChatQuery(payload.Messages)
	if err != nil {
		s.writeError(logger, conn, err.Error())
		return
	}

	contextText, err := s.rag.RetrieveContext(ctx, payload.DocumentID, query)
	if err != nil {
		logger.Error().Err(err).Str("document_id", payload.DocumentID).Msg("context retrieval failed")
		s.writeError(logger, conn, err.Error())
		return
	}
	if contextText == "" {
		// The model still answers; it is told there is nothing to ground on.
		contextText = "No relevant context found. The document may not be indexed yet."
	}

	err = s.generation.ChatStream(ctx, payload.Messages, contextText, func(fragment string) error {
		return conn.WriteJSON(types.WebsocketResponse{
			Type:    types.TypeWebsocketDelta,
			Payload: types.WebsocketDeltaPayload{Delta: fragment},
		})
	})
	if err != nil {
		logger.Error().Err(err).Str("document_id", payload.DocumentID).Msg("chat stream failed")
		s.writeError(logger, conn, err.Error())
		return
	}

	if err := conn.WriteJSON(types.WebsocketResponse{Type: types.TypeWebsocketDone}); err != nil {
		logger.Warn().Err(err).Msg("websocket write error")
	}
}

func (s *WebSocketService) writeError(logger zerolog.Logger, conn *websocket.Conn, message string) {
	err := conn.WriteJSON(types.WebsocketResponse{
		Type:    types.TypeWebsocketError,
		Payload: types.WebsocketErrorPayload{Message: message},
	})
	if err != nil {
		logger.Warn().Err(err).Msg("websocket write error")
	}
}
