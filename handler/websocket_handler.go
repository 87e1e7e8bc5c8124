package handler

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/contrib/websocket"
	"github.com/sirupsen/logrus"

	"chat-group-service/dto"
	"chat-group-service/dto/req"
	"chat-group-service/errors"
	"chat-group-service/usecase"
)

// Inbound socket events and the reply events they fan out.
const (
	EventCreateChatGroup      = "createChatGroup"
	EventChatGroupCreated     = "chatGroupCreated"
	EventUpdateChatGroupName  = "updateChatGroupName"
	EventChatGroupNameUpdated = "chatGroupNameUpdated"
	EventDeleteChatGroup      = "deleteChatGroup"
	EventChatGroupDeleted     = "chatGroupDeleted"
	EventAddUsers             = "addUsersToChatGroup"
	EventUsersAdded           = "usersAddedToChatGroup"
	EventRemoveUsers          = "removeUsersFromChatGroup"
	EventUsersRemoved         = "usersRemovedFromChatGroup"
	EventGetChatUsers         = "getChatUsers"
	EventChatUsers            = "chatUsers"
	EventSendMessage          = "sendMessage"
	EventReceiveMessage       = "receiveMessage"
	EventEditMessage          = "editMessage"
	EventMessageEdited        = "messageEdited"
	EventDeleteMessage        = "deleteMessage"
	EventMessageDeleted       = "messageDeleted"
	EventMessageHistory       = "requestMessageHistory"
	EventReceiveHistory       = "receiveMessageHistory"
	EventGetChatList          = "getChatList"
	EventChatList             = "chatList"
	EventJoinChat             = "joinChat"
	EventJoinedChat           = "joinedChat"
	EventLeaveChat            = "leaveChat"
	EventLeftChat             = "leftChat"
	EventError                = "error"
)

// WebSocketHandler maps inbound socket events to service calls and fans the
// results out to affected participants. Group lifecycle events broadcast to
// everyone; message events only reach clients joined to the chat room.
type WebSocketHandler struct {
	Log            *logrus.Logger
	Validate       *validator.Validate
	GroupUsecase   usecase.ChatGroupUsecase
	MessageUsecase usecase.ChatMessageUsecase
	UserUsecase    usecase.UserUsecase

	// mu guards the membership maps. Each conn also carries its own write
	// lock: the reader goroutine replies directly while runBroadcast fans
	// out, and the websocket conn forbids concurrent writers.
	mu        sync.Mutex
	clients   map[*websocket.Conn]*sync.Mutex
	rooms     map[string]map[*websocket.Conn]bool
	Broadcast chan dto.OutboundEvent
}

func NewWebSocketHandler(validate *validator.Validate, groupUsecase usecase.ChatGroupUsecase, messageUsecase usecase.ChatMessageUsecase, userUsecase usecase.UserUsecase, log *logrus.Logger) *WebSocketHandler {
	handler := &WebSocketHandler{
		Log:            log,
		Validate:       validate,
		GroupUsecase:   groupUsecase,
		MessageUsecase: messageUsecase,
		UserUsecase:    userUsecase,
		clients:        make(map[*websocket.Conn]*sync.Mutex),
		rooms:          make(map[string]map[*websocket.Conn]bool),
		Broadcast:      make(chan dto.OutboundEvent),
	}
	go handler.runBroadcast()
	return handler
}

func (handler *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	userID := c.Query("userId")
	if userID == "" {
		handler.Log.Warn("Invalid connection request: missing userId")
		c.Close()
		return
	}

	handler.registerClient(c)
	defer func() {
		handler.removeClient(c)
		c.Close()
	}()

	for {
		var envelope dto.EventEnvelope
		if err := c.ReadJSON(&envelope); err != nil {
			handler.Log.Warnf("Read error for user %s: %v", userID, err)
			break
		}
		handler.dispatch(c, userID, envelope)
	}
}

func (handler *WebSocketHandler) dispatch(c *websocket.Conn, userID string, envelope dto.EventEnvelope) {
	ctx := context.Background()

	switch envelope.Event {
	case EventJoinChat:
		var payload req.JoinChatRequest
		if !handler.decode(c, envelope, &payload) {
			return
		}
		handler.joinRoom(payload.ChatID, c)
		handler.reply(c, EventJoinedChat, payload)

	case EventLeaveChat:
		var payload req.JoinChatRequest
		if !handler.decode(c, envelope, &payload) {
			return
		}
		handler.leaveRoom(payload.ChatID, c)
		handler.reply(c, EventLeftChat, payload)

	case EventCreateChatGroup:
		var payload req.CreateChatGroupRequest
		if !handler.decode(c, envelope, &payload) {
			return
		}
		group, err := handler.GroupUsecase.CreateGroup(ctx, payload.GroupName, payload.Users)
		if err != nil {
			handler.emitError(c, envelope.Event, err)
			return
		}
		handler.Broadcast <- dto.OutboundEvent{Event: EventChatGroupCreated, Data: group}

	case EventUpdateChatGroupName:
		var payload req.UpdateChatGroupNameRequest
		if !handler.decode(c, envelope, &payload) {
			return
		}
		group, err := handler.GroupUsecase.RenameGroup(ctx, payload.ChatID, payload.NewGroupName)
		if err != nil {
			handler.emitError(c, envelope.Event, err)
			return
		}
		handler.Broadcast <- dto.OutboundEvent{Event: EventChatGroupNameUpdated, ChatID: payload.ChatID, Data: group}

	case EventDeleteChatGroup:
		var payload req.DeleteChatGroupRequest
		if !handler.decode(c, envelope, &payload) {
			return
		}
		deleted, err := handler.GroupUsecase.DeleteGroup(ctx, payload.ChatID)
		if err != nil {
			handler.emitError(c, envelope.Event, err)
			return
		}
		handler.Broadcast <- dto.OutboundEvent{Event: EventChatGroupDeleted, Data: map[string]any{
			"chatId":  payload.ChatID,
			"deleted": deleted,
		}}

	case EventAddUsers:
		var payload req.ChatGroupUsersRequest
		if !handler.decode(c, envelope, &payload) {
			return
		}
		added, err := handler.GroupUsecase.AddMembers(ctx, payload.ChatID, payload.UserIDs, true)
		if err != nil {
			handler.emitError(c, envelope.Event, err)
			return
		}
		handler.Broadcast <- dto.OutboundEvent{Event: EventUsersAdded, ChatID: payload.ChatID, Data: map[string]any{
			"chatId":  payload.ChatID,
			"userIds": added,
		}}

	case EventRemoveUsers:
		var payload req.ChatGroupUsersRequest
		if !handler.decode(c, envelope, &payload) {
			return
		}
		removed, err := handler.GroupUsecase.RemoveMembers(ctx, payload.ChatID, payload.UserIDs, true)
		if err != nil {
			handler.emitError(c, envelope.Event, err)
			return
		}
		handler.Broadcast <- dto.OutboundEvent{Event: EventUsersRemoved, ChatID: payload.ChatID, Data: map[string]any{
			"chatId":  payload.ChatID,
			"userIds": removed,
		}}

	case EventGetChatUsers:
		var payload req.GetChatUsersRequest
		if !handler.decode(c, envelope, &payload) {
			return
		}
		users, err := handler.GroupUsecase.GetChatUsers(ctx, payload.ChatID)
		if err != nil {
			handler.emitError(c, envelope.Event, err)
			return
		}
		handler.reply(c, EventChatUsers, map[string]any{
			"chatId": payload.ChatID,
			"users":  users,
		})

	case EventSendMessage:
		var payload req.SendMessageRequest
		if !handler.decode(c, envelope, &payload) {
			return
		}
		message, err := handler.MessageUsecase.SendMessage(ctx, payload.ChatID, payload.SenderID, payload.Content)
		if err != nil {
			handler.emitError(c, envelope.Event, err)
			return
		}
		handler.Broadcast <- dto.OutboundEvent{Event: EventReceiveMessage, ChatID: payload.ChatID, Data: message}

	case EventEditMessage:
		var payload req.EditMessageRequest
		if !handler.decode(c, envelope, &payload) {
			return
		}
		message, err := handler.MessageUsecase.EditMessage(ctx, payload.ChatID, payload.MessageID, payload.NewContent)
		if err != nil {
			handler.emitError(c, envelope.Event, err)
			return
		}
		handler.Broadcast <- dto.OutboundEvent{Event: EventMessageEdited, ChatID: payload.ChatID, Data: message}

	case EventDeleteMessage:
		var payload req.DeleteMessageRequest
		if !handler.decode(c, envelope, &payload) {
			return
		}
		deleted, err := handler.MessageUsecase.DeleteMessage(ctx, payload.ChatID, payload.MessageID)
		if err != nil {
			handler.emitError(c, envelope.Event, err)
			return
		}
		handler.Broadcast <- dto.OutboundEvent{Event: EventMessageDeleted, ChatID: payload.ChatID, Data: map[string]any{
			"chatId":    payload.ChatID,
			"messageId": payload.MessageID,
			"deleted":   deleted,
		}}

	case EventMessageHistory:
		var payload req.MessageHistoryRequest
		if !handler.decode(c, envelope, &payload) {
			return
		}
		history, err := handler.MessageUsecase.ListMessages(ctx, payload.ChatID, payload.Page, payload.Limit)
		if err != nil {
			handler.emitError(c, envelope.Event, err)
			return
		}
		handler.reply(c, EventReceiveHistory, history)

	case EventGetChatList:
		var payload req.ChatListRequest
		if !handler.decode(c, envelope, &payload) {
			return
		}
		chatList, err := handler.UserUsecase.GetChatList(ctx, payload.UserID, payload.Page, payload.Limit)
		if err != nil {
			handler.emitError(c, envelope.Event, err)
			return
		}
		handler.reply(c, EventChatList, chatList)

	default:
		handler.emitError(c, envelope.Event, errors.NewValidation("unknown event %q", envelope.Event))
	}
}

// decode unmarshals the envelope payload and checks its shape. Emits an
// error event and returns false on failure.
func (handler *WebSocketHandler) decode(c *websocket.Conn, envelope dto.EventEnvelope, payload any) bool {
	if err := json.Unmarshal(envelope.Data, payload); err != nil {
		handler.emitError(c, envelope.Event, errors.NewValidation("invalid payload for %s", envelope.Event))
		return false
	}
	if err := handler.Validate.Struct(payload); err != nil {
		handler.emitError(c, envelope.Event, errors.NewValidation("invalid payload for %s: %v", envelope.Event, err))
		return false
	}
	return true
}

func (handler *WebSocketHandler) reply(c *websocket.Conn, event string, data any) {
	if err := handler.writeJSON(c, dto.OutboundEvent{Event: event, Data: data}); err != nil {
		handler.Log.Warnf("Error replying %s: %v", event, err)
	}
}

func (handler *WebSocketHandler) emitError(c *websocket.Conn, event string, err error) {
	if errors.IsConsistency(err) || errors.IsExternalService(err) {
		handler.Log.WithError(err).Errorf("Event %s failed", event)
	}
	writeErr := handler.writeJSON(c, dto.ErrorEvent{Event: EventError, Kind: errors.Kind(err), Error: err.Error()})
	if writeErr != nil {
		handler.Log.Warnf("Error emitting error event: %v", writeErr)
	}
}

// writeJSON is the single write path for a connection. Every write, reply or
// broadcast, serializes on the conn's own lock. Writes to a conn that has
// already been removed are dropped.
func (handler *WebSocketHandler) writeJSON(c *websocket.Conn, data any) error {
	lock := handler.connLock(c)
	if lock == nil {
		return nil
	}
	lock.Lock()
	defer lock.Unlock()
	return c.WriteJSON(data)
}

func (handler *WebSocketHandler) connLock(c *websocket.Conn) *sync.Mutex {
	handler.mu.Lock()
	defer handler.mu.Unlock()
	return handler.clients[c]
}

func (handler *WebSocketHandler) registerClient(c *websocket.Conn) {
	handler.mu.Lock()
	defer handler.mu.Unlock()
	handler.clients[c] = &sync.Mutex{}
	handler.Log.Infof("Client connected (total: %d)", len(handler.clients))
}

func (handler *WebSocketHandler) removeClient(c *websocket.Conn) {
	handler.mu.Lock()
	defer handler.mu.Unlock()
	delete(handler.clients, c)
	for chatID, conns := range handler.rooms {
		delete(conns, c)
		if len(conns) == 0 {
			delete(handler.rooms, chatID)
		}
	}
	handler.Log.Infof("Client disconnected (total: %d)", len(handler.clients))
}

func (handler *WebSocketHandler) joinRoom(chatID string, c *websocket.Conn) {
	handler.mu.Lock()
	defer handler.mu.Unlock()
	if handler.rooms[chatID] == nil {
		handler.rooms[chatID] = make(map[*websocket.Conn]bool)
	}
	handler.rooms[chatID][c] = true
	handler.Log.Infof("Client joined chat room %s (total: %d)", chatID, len(handler.rooms[chatID]))
}

func (handler *WebSocketHandler) leaveRoom(chatID string, c *websocket.Conn) {
	handler.mu.Lock()
	defer handler.mu.Unlock()
	if conns, ok := handler.rooms[chatID]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(handler.rooms, chatID)
		}
	}
	handler.Log.Infof("Client left chat room %s", chatID)
}

func (handler *WebSocketHandler) runBroadcast() {
	for event := range handler.Broadcast {
		for _, conn := range handler.broadcastTargets(event.ChatID) {
			if err := handler.writeJSON(conn, event); err != nil {
				handler.Log.Warnf("Error broadcasting %s: %v", event.Event, err)
				conn.Close()
				handler.removeClient(conn)
			}
		}
	}
}

// broadcastTargets snapshots the recipient set under the membership lock so
// the writes themselves happen outside it. ChatID "" means every client.
func (handler *WebSocketHandler) broadcastTargets(chatID string) []*websocket.Conn {
	handler.mu.Lock()
	defer handler.mu.Unlock()

	var conns []*websocket.Conn
	if chatID != "" {
		for conn := range handler.rooms[chatID] {
			conns = append(conns, conn)
		}
		return conns
	}
	for conn := range handler.clients {
		conns = append(conns, conn)
	}
	return conns
}
