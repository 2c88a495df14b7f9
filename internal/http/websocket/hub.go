package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/hbomb79/mediagate/internal/fault"
	"github.com/hbomb79/mediagate/pkg/logger"
)

var socketLogger = logger.Get("WebSocket")

// Dispatcher runs a named command with the JSON arguments provided.
type Dispatcher interface {
	Invoke(ctx context.Context, name string, arguments json.RawMessage) (any, error)
	Commands() []string
}

// SocketHub is the struct responsible for managing
// the websocket upgrading, connecting, pushing and
// receiving of messages. Every COMMAND received is
// dispatched on its own goroutine, and the reply is
// sent only to the client which issued it.
type SocketHub struct {
	dispatcher   Dispatcher
	upgrader     *websocket.Upgrader
	clients      []*socketClient
	registerCh   chan *socketClient
	deregisterCh chan *socketClient
	sendCh       chan *SocketMessage
	receiveCh    chan *SocketMessage
	doneCh       chan struct{}
	ctx          context.Context
	started      atomic.Bool
	running      atomic.Bool
}

// Returns a new SocketHub with the channels,
// maps and slices initialised to sane starting
// values
func New(dispatcher Dispatcher) *SocketHub {
	return &SocketHub{
		dispatcher: dispatcher,
		upgrader: &websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		registerCh:   make(chan *socketClient),
		deregisterCh: make(chan *socketClient),
		sendCh:       make(chan *SocketMessage),
		receiveCh:    make(chan *SocketMessage),
		doneCh:       make(chan struct{}),
		clients:      make([]*socketClient, 0),
	}
}

// Running reports whether the hub is accepting connections.
func (hub *SocketHub) Running() bool {
	return hub.running.Load()
}

// Start beings the socket hub by listening on all related channels
// for incoming clients and messages. A hub can only be started once.
func (hub *SocketHub) Start(ctx context.Context) {
	if !hub.started.CompareAndSwap(false, true) {
		socketLogger.Emit(logger.WARNING, "Attempting to start socketHub more than once! Ignoring request.\n")
		return
	} else if ctx.Err() != nil {
		socketLogger.Emit(logger.STOP, "Refusing to start socket hub as provided context is already cancelled\n")
		return
	}
	socketLogger.Emit(logger.INFO, "Opening SocketHub!\n")

	hub.ctx = ctx
	hub.running.Store(true)

	defer hub.close()
	for {
		select {
		case message := <-hub.sendCh:
			if message.Target == nil {
				socketLogger.Emit(logger.WARNING, "Dropping message '%s' with no target\n", message.Title)
				break
			}

			if _, client := hub.findClient(*message.Target); client != nil {
				if err := client.SendMessage(message); err != nil {
					socketLogger.Emit(logger.ERROR, "Failed to send message to target {%v}: %v\n", message.Target, err)
				}
			} else {
				socketLogger.Emit(logger.WARNING, "Attempted to send message to target {%v}, but no matching client was found.\n", message.Target)
			}
		case message := <-hub.receiveCh:
			go hub.handleMessage(message)
		case client := <-hub.registerCh:
			if idx, _ := hub.findClient(client.id); idx > -1 {
				socketLogger.Emit(logger.ERROR, "Attempted to register client that is already registered (duplicate uuid)! Illegal!\n")
				client.Close()

				break
			}

			hub.clients = append(hub.clients, client)
			socketLogger.Emit(logger.NEW, "Registered new client {%v}\n", client.id)
		case client := <-hub.deregisterCh:
			if idx, _ := hub.findClient(client.id); idx != -1 {
				hub.clients = append(hub.clients[:idx], hub.clients[idx+1:]...)
				socketLogger.Emit(logger.REMOVE, "Deregistered client {%v}\n", client.id)

				break
			}

			socketLogger.Emit(logger.WARNING, "Attempted to deregister unknown client {%v}\n", client.id)
		case <-ctx.Done():
			socketLogger.Emit(logger.REMOVE, "Shutting down socket hub! Closing all clients.\n")
			return
		}
	}
}

// Send queues a message for delivery to the client matching its Target.
// The message is dropped if the hub is not running.
func (hub *SocketHub) Send(message *SocketMessage) {
	if !hub.running.Load() {
		socketLogger.Emit(logger.WARNING, "Attempted to send message via socket hub, however the hub is offline. Ignoring message.\n")
		return
	}

	select {
	case hub.sendCh <- message:
	case <-hub.doneCh:
	}
}

// Upgrades a given HTTP request to a websocket and adds the new clients to the hub.
// This method blocks until the client disconnects or the hub closes.
func (hub *SocketHub) UpgradeToSocket(w http.ResponseWriter, r *http.Request) {
	if !hub.running.Load() {
		socketLogger.Emit(logger.ERROR, "Failed to upgrade incoming HTTP request to a websocket: SocketHub has not been started!\n")
		http.Error(w, "socket hub is offline", http.StatusServiceUnavailable)
		return
	}

	// Generate the UUID first; if this fails after upgrading then the
	// connection has already been hijacked.
	id, err := uuid.NewRandom()
	if err != nil {
		socketLogger.Emit(logger.ERROR, "Failed to generate UUID for new connection - aborting!\n")
		http.Error(w, "failed to allocate client id", http.StatusInternalServerError)
		return
	}

	sock, err := hub.upgrader.Upgrade(w, r, nil)
	if err != nil {
		socketLogger.Emit(logger.ERROR, "Failed to upgrade incoming HTTP request to a websocket: %v\n", err)
		return
	}

	client := &socketClient{id: id, socket: sock}
	select {
	case hub.registerCh <- client:
	case <-hub.doneCh:
		client.Close()
		return
	}

	hub.Send(&SocketMessage{
		Title:  "CONNECTION_ESTABLISHED",
		Body:   map[string]any{"client": id, "commands": hub.dispatcher.Commands()},
		Target: &client.id,
		Type:   Welcome,
	})

	// Commands still in flight for this client are cancelled once it disconnects
	ctx, cancel := context.WithCancel(hub.ctx)
	defer func() {
		cancel()
		select {
		case hub.deregisterCh <- client:
		case <-hub.doneCh:
		}
		client.Close()
	}()

	if err := client.Read(ctx, hub.receiveCh); err != nil {
		socketLogger.Emit(logger.WARNING, "Client {%v} closed, error: %v\n", client.id, err)
	}
}

// Closes the sockethub by deregistering and closing all
// connected clients and sockets
func (hub *SocketHub) close() {
	hub.running.Store(false)
	close(hub.doneCh)

	for _, client := range hub.clients {
		client.Close()
	}

	hub.clients = nil
	socketLogger.Emit(logger.STOP, "Socket hub is now closed!\n")
}

// handleMessage dispatches the command and replies to the client
// which sent it with either the result or the error.
func (hub *SocketHub) handleMessage(command *SocketMessage) {
	if command.Type != Command {
		socketLogger.Emit(logger.WARNING, "SocketHub received a message from client {%v} of type {%v} - this type is not allowed, only commands can be sent to the server!\n", command.Origin, command.Type)
		hub.Send(command.FormReply("COMMAND_FAILURE", errorBody(fault.New(fault.InvalidArgument, "Only commands can be sent to the server")), ErrorResponse))
		return
	}

	result, err := hub.dispatcher.Invoke(command.context(), command.Title, command.Arguments)
	if err != nil {
		socketLogger.Emit(logger.ERROR, "Command '%v' returned error - %v\n", command.Title, err)
		hub.Send(command.FormReply("COMMAND_FAILURE", errorBody(err), ErrorResponse))
		return
	}

	socketLogger.Emit(logger.SUCCESS, "Command '%v' executed successfully\n", command.Title)
	hub.Send(command.FormReply("COMMAND_SUCCESS", map[string]any{"result": result}, Response))
}

// findClient returns a socketClient with the matching uuid if
// one can be found - if not, nil is returned. Additionally, the index
// of the client inside of the client list is returned as well.
func (hub *SocketHub) findClient(id uuid.UUID) (int, *socketClient) {
	for idx, client := range hub.clients {
		if client.id == id {
			return idx, client
		}
	}

	return -1, nil
}

func errorBody(err error) map[string]any {
	return map[string]any{"error": err.Error(), "kind": fault.KindOf(err)}
}
