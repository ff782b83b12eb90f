package chat

import "github.com/google/uuid"

// Sender identifies who a rendered chat bubble belongs to.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "finny"
	SenderError     Sender = "error"
)

// Node is one rendered chat bubble. Nodes exist only in the view; nothing is
// persisted. The typing placeholder carries Typing=true and is always located
// by ID, never by position in the message list.
type Node struct {
	ID       uuid.UUID `json:"id"`
	Sender   Sender    `json:"sender"`
	Text     string    `json:"text"`
	Typing   bool      `json:"typing,omitempty"`
	CanRetry bool      `json:"can_retry,omitempty"`
}

// RenderMessage maps a message and its sender to a view-node description.
// It performs no view mutation itself; applying the node is the View's job,
// which keeps the mapping unit-testable without any UI attached.
func RenderMessage(text string, sender Sender) Node {
	return Node{
		ID:     uuid.New(),
		Sender: sender,
		Text:   text,
	}
}

// View receives node mutations from a Session. Implementations adapt one
// concrete chat surface: the websocket adapter serves the floating widget and
// the embedded Finlook page, tests plug in an in-memory fake.
type View interface {
	AppendMessage(node Node)
	RemoveMessage(id uuid.UUID)
	ClearInput()
	ShowQuickQuestion(label string)
	ClearQuickQuestions()
}
