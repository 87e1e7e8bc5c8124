package routes

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"chat-group-service/handler"
	"chat-group-service/middleware"
)

type ConfigRoute struct {
	*fiber.App
	*middleware.Middleware
	*handler.ChatHandler
}

func (rc *ConfigRoute) GetRoute() {
	app := rc.App.Group("/api/v1")
	app.Use(rc.Middleware.JWTProtected)

	app.Get("/chats", rc.Middleware.ExtractUserID, rc.ChatHandler.GetChatList)
	app.Get("/chats/:chatId/messages", rc.ChatHandler.GetMessages)
	app.Get("/chats/:chatId/users", rc.ChatHandler.GetChatUsers)
	app.Get("/users/:userId/groups", rc.ChatHandler.GetGroupsForUser)
}

func (rc *ConfigRoute) GetWebSocketRoute(wsHandler *handler.WebSocketHandler) {
	rc.App.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	rc.App.Get("/ws", websocket.New(wsHandler.HandleWebSocket))
}
