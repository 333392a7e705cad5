package service

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/minjcho/findoc-be/types"
)

type WebSocketService struct {
	documents DocumentService
	upgrader  websocket.Upgrader
}

func NewWebSocketService(documents DocumentService) *WebSocketService {
	return &WebSocketService{
		documents: documents,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins (adjust for production)
			},
		},
	}
}

// HandleProcess upgrades the connection and serves process requests,
// streaming per-page progress events until the pipeline finishes.
func (s *WebSocketService) HandleProcess(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Upgrade error:", err)
		return
	}
	conn.SetReadLimit(512 * 1024) // 512KB max message size
	conn.SetReadDeadline(time.Now().Add(10 * time.Minute))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(10 * time.Minute))
		return nil
	})
	defer conn.Close()

	ctx := r.Context()

	for {
		messageType, p, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}
		var req types.WebsocketRequest
		if err := json.Unmarshal(p, &req); err != nil {
			conn.WriteMessage(messageType, []byte("Error processing message"))
			log.Println("Unmarshal error:", err)
			continue
		}
		switch req.Type {
		case types.TypeWebsocketProcess:
			payloadBytes, err := json.Marshal(req.Payload)
			if err != nil {
				conn.WriteMessage(messageType, []byte("Error processing message"))
				log.Println("Marshal error:", err)
				continue
			}
			var payload types.ProcessRequest
			if err := json.Unmarshal(payloadBytes, &payload); err != nil {
				conn.WriteMessage(messageType, []byte("Error processing message"))
				log.Println("Unmarshal error:", err)
				continue
			}
			if payload.SecurityCode == "" {
				conn.WriteJSON(types.WebsocketResponse{
					Type:    types.TypeWebsocketError,
					Payload: "security_code is required",
				})
				continue
			}

			doc, err := s.documents.ProcessReport(ctx, payload, func(status types.ProcessingStatus) {
				if err := conn.WriteJSON(types.WebsocketResponse{
					Type:    types.TypeWebsocketProgress,
					Payload: status,
				}); err != nil {
					log.Println("Write error:", err)
				}
			})
			if err != nil {
				log.Println("Process error:", err)
				conn.WriteJSON(types.WebsocketResponse{
					Type:    types.TypeWebsocketError,
					Payload: err.Error(),
				})
				continue
			}
			if err := conn.WriteJSON(types.WebsocketResponse{
				Type:    types.TypeWebsocketCompleted,
				Payload: doc,
			}); err != nil {
				log.Println("Write error:", err)
			}
		case types.TypeWebsocketPing:
			pongRes := types.WebsocketResponse{
				Type:    types.TypeWebsocketPong,
				Payload: nil,
			}
			if err := conn.WriteJSON(pongRes); err != nil {
				log.Println("Write error:", err)
			}
		default:
			log.Println("Invalid message type")
		}
	}
}

func (s *WebSocketService) Health() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}
