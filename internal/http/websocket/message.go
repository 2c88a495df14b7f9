package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

type SocketMessageType int

const (
	Command SocketMessageType = iota
	Response
	ErrorResponse
	Welcome
)

var messageTypeNames = map[SocketMessageType]string{
	Command:       "COMMAND",
	Response:      "RESPONSE",
	ErrorResponse: "ERROR_RESPONSE",
	Welcome:       "WELCOME",
}

func (t SocketMessageType) String() string {
	if name, ok := messageTypeNames[t]; ok {
		return name
	}

	return fmt.Sprintf("UNKNOWN(%d)", int(t))
}

func (t SocketMessageType) MarshalText() ([]byte, error) {
	if name, ok := messageTypeNames[t]; ok {
		return []byte(name), nil
	}

	return nil, fmt.Errorf("unknown socket message type %d", int(t))
}

func (t *SocketMessageType) UnmarshalText(text []byte) error {
	for typ, name := range messageTypeNames {
		if name == string(text) {
			*t = typ
			return nil
		}
	}

	return fmt.Errorf("unknown socket message type '%s'", text)
}

// SocketMessage is the envelope for everything sent over the socket. Clients
// send COMMAND messages naming the command in Title; the hub replies with a
// message carrying the same Id so the client can pair the two. Origin and
// Target are the ids of the client that sent the message and the client a
// reply must be delivered to.
type SocketMessage struct {
	Title     string            `json:"title"`
	Arguments json.RawMessage   `json:"arguments,omitempty"`
	Body      map[string]any    `json:"body,omitempty"`
	Id        int               `json:"id"`
	Type      SocketMessageType `json:"type"`
	Origin    *uuid.UUID        `json:"-"`
	Target    *uuid.UUID        `json:"-"`

	// ctx is the context of the connection the message arrived on
	ctx context.Context
}

// FormReply returns a NEW message addressed back to the origin of this
// message, carrying its Id. The command title is added to the reply body.
func (message *SocketMessage) FormReply(replyTitle string, replyBody map[string]any, replyType SocketMessageType) *SocketMessage {
	if replyBody == nil {
		replyBody = make(map[string]any)
	}
	replyBody["command"] = message.Title

	return &SocketMessage{
		Title:  replyTitle,
		Body:   replyBody,
		Type:   replyType,
		Id:     message.Id,
		Target: message.Origin,
	}
}

func (message *SocketMessage) context() context.Context {
	if message.ctx == nil {
		return context.Background()
	}

	return message.ctx
}
