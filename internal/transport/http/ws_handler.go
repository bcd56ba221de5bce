package http

import (
	"context"
	"encoding/json"
	"net/http"

	"quiz-builder/internal/app"
	"quiz-builder/internal/editor"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type WSHandler struct {
	workspace *app.Workspace
	upgrader  websocket.Upgrader
	log       *zap.Logger
}

func NewWSHandler(workspace *app.Workspace, log *zap.Logger) *WSHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WSHandler{
		workspace: workspace,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: log.Named("ws"),
	}
}

type inboundMessage struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type ackPayload struct {
	ID      string `json:"id,omitempty"`
	Op      string `json:"op"`
	Applied bool   `json:"applied"`
	Result  any    `json:"result,omitempty"`
}

type errorPayload struct {
	ID      string `json:"id,omitempty"`
	Message string `json:"message"`
}

type personalizePayload struct {
	Profile map[string]string `json:"profile"`
}

type bindProductPayload struct {
	ElementID string `json:"elementId"`
	FeedURL   string `json:"feedUrl"`
	ProductID string `json:"productId"`
}

// ServeWS upgrades HTTP requests to websockets and attaches the connection to
// the editing session of one document.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	docID := r.URL.Query().Get("docId")
	if docID == "" {
		http.Error(w, "missing docId", http.StatusBadRequest)
		return
	}
	editorID := r.URL.Query().Get("editorId")
	if editorID == "" {
		editorID = uuid.NewString()
	}
	log := h.log.With(zap.String("document", docID), zap.String("editor", editorID))

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx := r.Context()
	if _, _, err := h.workspace.Open(ctx, docID, editorID); err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer h.workspace.Leave(context.Background(), docID, editorID)

	updates, cancel, err := h.workspace.Subscribe(ctx, docID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()
	opened := <-updates

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// single writer: gorilla connections do not support concurrent writes
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Debug("ws write error", zap.Error(err))
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "document", Payload: update}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "opened", Payload: opened}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		send <- h.handle(ctx, docID, editorID, inbound)
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

func (h *WSHandler) handle(ctx context.Context, docID, editorID string, in inboundMessage) outboundMessage[any] {
	fail := func(err error) outboundMessage[any] {
		return outboundMessage[any]{Type: "error", Payload: errorPayload{ID: in.ID, Message: err.Error()}}
	}
	ack := func(applied bool, result any) outboundMessage[any] {
		return outboundMessage[any]{Type: "ack", Payload: ackPayload{ID: in.ID, Op: in.Type, Applied: applied, Result: result}}
	}

	switch in.Type {
	case "personalize":
		var p personalizePayload
		if err := decode(in.Payload, &p); err != nil {
			return fail(err)
		}
		n, err := h.workspace.Personalize(ctx, docID, editorID, p.Profile)
		if err != nil {
			return fail(err)
		}
		return ack(n > 0, n)
	case "bindProduct":
		var p bindProductPayload
		if err := decode(in.Payload, &p); err != nil {
			return fail(err)
		}
		_, applied, err := h.workspace.BindProduct(ctx, docID, editorID, p.ElementID, p.FeedURL, p.ProductID)
		if err != nil {
			return fail(err)
		}
		return ack(applied, nil)
	}

	cmd, err := parseCommand(in.Type, in.Payload)
	if err != nil {
		return fail(err)
	}
	_, applied, err := h.workspace.Apply(ctx, docID, editorID, in.Type, func(s *editor.DocumentStore) bool {
		return cmd.run(s)
	})
	if err != nil {
		return fail(err)
	}
	return ack(applied, cmd.result())
}
