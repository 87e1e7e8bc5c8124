package handler

import (
	"io"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/contrib/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler() *WebSocketHandler {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewWebSocketHandler(validator.New(), nil, nil, nil, log)
}

// Direct replies and broadcast fan-out run on different goroutines but must
// serialize their writes to a conn on one and the same lock.
func TestConnWritesShareOneLock(t *testing.T) {
	handler := newTestHandler()
	c1 := &websocket.Conn{}
	c2 := &websocket.Conn{}

	handler.registerClient(c1)
	handler.registerClient(c2)

	lock := handler.connLock(c1)
	require.NotNil(t, lock)
	assert.Same(t, lock, handler.connLock(c1))
	assert.NotSame(t, lock, handler.connLock(c2))

	handler.removeClient(c1)
	assert.Nil(t, handler.connLock(c1))
	assert.NotNil(t, handler.connLock(c2))
}

// A write to a conn that was already removed is dropped instead of touching
// the dead connection.
func TestWriteToRemovedConnIsDropped(t *testing.T) {
	handler := newTestHandler()
	c := &websocket.Conn{}

	handler.registerClient(c)
	handler.removeClient(c)

	assert.NoError(t, handler.writeJSON(c, "late reply"))
}

func TestBroadcastTargets(t *testing.T) {
	handler := newTestHandler()
	c1 := &websocket.Conn{}
	c2 := &websocket.Conn{}
	c3 := &websocket.Conn{}

	handler.registerClient(c1)
	handler.registerClient(c2)
	handler.registerClient(c3)
	handler.joinRoom("room-1", c1)
	handler.joinRoom("room-1", c2)

	assert.Len(t, handler.broadcastTargets(""), 3)
	assert.ElementsMatch(t, []*websocket.Conn{c1, c2}, handler.broadcastTargets("room-1"))
	assert.Empty(t, handler.broadcastTargets("room-2"))

	handler.leaveRoom("room-1", c1)
	assert.ElementsMatch(t, []*websocket.Conn{c2}, handler.broadcastTargets("room-1"))

	// Dropping the last member prunes the room entirely.
	handler.removeClient(c2)
	assert.Empty(t, handler.broadcastTargets("room-1"))
	assert.Len(t, handler.broadcastTargets(""), 2)
}
