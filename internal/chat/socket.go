package chat

import (
	"context"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"lifin-backend/internal/assets"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// viewEvent is one node mutation sent to the browser.
type viewEvent struct {
	Type   string `json:"type"` // append | remove | clear_input | quick_show | quick_clear | busy
	Node   *Node  `json:"node,omitempty"`
	NodeID string `json:"node_id,omitempty"`
	Label  string `json:"label,omitempty"`
}

// clientCommand is one action received from the browser.
type clientCommand struct {
	Type   string `json:"type"` // submit | retry | quick
	Text   string `json:"text,omitempty"`
	NodeID string `json:"node_id,omitempty"`
}

// wireConn is the slice of *websocket.Conn the view writes through; tests
// substitute a recorder.
type wireConn interface {
	WriteJSON(v interface{}) error
}

// socketView adapts a websocket connection to the View interface: every node
// mutation becomes one JSON event on the wire and the browser applies it to
// its own DOM.
type socketView struct {
	mu   sync.Mutex
	conn wireConn
}

func (v *socketView) emit(ev viewEvent) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.conn.WriteJSON(ev); err != nil {
		log.Printf("chat: websocket write failed: %v", err)
	}
}

func (v *socketView) AppendMessage(node Node) { v.emit(viewEvent{Type: "append", Node: &node}) }
func (v *socketView) RemoveMessage(id uuid.UUID) {
	v.emit(viewEvent{Type: "remove", NodeID: id.String()})
}
func (v *socketView) ClearInput() { v.emit(viewEvent{Type: "clear_input"}) }
func (v *socketView) ShowQuickQuestion(label string) {
	v.emit(viewEvent{Type: "quick_show", Label: label})
}
func (v *socketView) ClearQuickQuestions() { v.emit(viewEvent{Type: "quick_clear"}) }

// SocketHandler upgrades browser connections and drives one Session per
// socket. The same handler serves the floating widget and the embedded
// Finlook page; the surface passes its lesson topic as a query parameter.
type SocketHandler struct {
	proxy   Completer
	library *assets.Library
}

func NewSocketHandler(proxy Completer, library *assets.Library) *SocketHandler {
	return &SocketHandler{proxy: proxy, library: library}
}

func (h *SocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("chat: websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	view := &socketView{conn: conn}
	session, err := NewSession(Config{
		Proxy:   h.proxy,
		View:    view,
		Library: h.library,
		Topic:   topic,
	})
	if err != nil {
		// A misconfigured surface aborts initialization; the rest of the page
		// stays functional.
		log.Printf("chat: session init failed: %v", err)
		return
	}

	session.RenderQuickQuestions()

	// Commands are handled in arrival order on this goroutine, so turns on
	// one socket are naturally serialized.
	ctx := r.Context()
	for {
		var cmd clientCommand
		if err := conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("chat: websocket read failed: %v", err)
			}
			return
		}

		dispatch(ctx, session, view, cmd)
	}
}

// dispatch applies one client command to the session. Every command that
// bounces off an in-flight turn surfaces the same busy event, so the client
// reacts uniformly regardless of which action it attempted.
func dispatch(ctx context.Context, session *Session, view *socketView, cmd clientCommand) {
	switch cmd.Type {
	case "submit":
		if err := session.Submit(ctx, cmd.Text); err == ErrBusy {
			view.emit(viewEvent{Type: "busy"})
		}
	case "retry":
		nodeID, err := uuid.Parse(cmd.NodeID)
		if err != nil {
			log.Printf("chat: retry with invalid node ID %q", cmd.NodeID)
			return
		}
		if err := session.Retry(ctx, nodeID); err == ErrBusy {
			view.emit(viewEvent{Type: "busy"})
		} else if err != nil {
			log.Printf("chat: retry failed: %v", err)
		}
	case "quick":
		if err := session.AskQuickQuestion(ctx); err == ErrBusy {
			view.emit(viewEvent{Type: "busy"})
		}
	default:
		log.Printf("chat: unknown command %q", cmd.Type)
	}
}
