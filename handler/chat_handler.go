package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"chat-group-service/dto/res"
	"chat-group-service/errors"
	"chat-group-service/usecase"
)

// ChatHandler serves the REST read surface. Mutations go through the
// websocket event channel.
type ChatHandler struct {
	GroupUsecase   usecase.ChatGroupUsecase
	MessageUsecase usecase.ChatMessageUsecase
	UserUsecase    usecase.UserUsecase
	Log            *logrus.Logger
}

func NewChatHandler(groupUsecase usecase.ChatGroupUsecase, messageUsecase usecase.ChatMessageUsecase, userUsecase usecase.UserUsecase, log *logrus.Logger) *ChatHandler {
	return &ChatHandler{
		GroupUsecase:   groupUsecase,
		MessageUsecase: messageUsecase,
		UserUsecase:    userUsecase,
		Log:            log,
	}
}

// GetChatList returns the caller's chat groups, membership sourced from the
// room directory.
func (handler *ChatHandler) GetChatList(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	chatList, err := handler.UserUsecase.GetChatList(c.Context(), userID, page, limit)
	if err != nil {
		return handler.errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(res.CommonResponse[*res.ChatListResponse]{
		Message:    "Successfully retrieved chat list",
		StatusCode: fiber.StatusOK,
		Data:       chatList,
	})
}

func (handler *ChatHandler) GetMessages(c *fiber.Ctx) error {
	chatID := c.Params("chatId")
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	history, err := handler.MessageUsecase.ListMessages(c.Context(), chatID, page, limit)
	if err != nil {
		return handler.errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(res.CommonResponse[*res.MessageHistoryResponse]{
		Message:    "Successfully retrieved messages",
		StatusCode: fiber.StatusOK,
		Data:       history,
	})
}

// GetChatUsers returns the room's affiliated users, the authoritative
// membership set.
func (handler *ChatHandler) GetChatUsers(c *fiber.Ctx) error {
	chatID := c.Params("chatId")

	users, err := handler.GroupUsecase.GetChatUsers(c.Context(), chatID)
	if err != nil {
		return handler.errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(res.CommonResponse[[]string]{
		Message:    "Successfully retrieved chat users",
		StatusCode: fiber.StatusOK,
		Data:       users,
	})
}

// GetGroupsForUser lists groups from the metadata member cache; cheaper than
// the chat list but only eventually consistent with the rooms.
func (handler *ChatHandler) GetGroupsForUser(c *fiber.Ctx) error {
	userID := c.Params("userId")
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 5)

	groups, err := handler.GroupUsecase.GetChatGroupsForUser(c.Context(), userID, page, limit)
	if err != nil {
		return handler.errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(res.CommonResponse[[]res.GroupResponse]{
		Message:    "Successfully retrieved chat groups",
		StatusCode: fiber.StatusOK,
		Data:       groups,
	})
}

func (handler *ChatHandler) errorResponse(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.IsValidation(err):
		status = fiber.StatusBadRequest
	case errors.IsNotFound(err):
		status = fiber.StatusNotFound
	case errors.IsExternalService(err):
		status = fiber.StatusBadGateway
	case errors.IsConsistency(err):
		status = fiber.StatusConflict
	}

	if status >= fiber.StatusInternalServerError || status == fiber.StatusConflict || status == fiber.StatusBadGateway {
		handler.Log.WithError(err).Error("Chat operation failed")
	}

	return c.Status(status).JSON(res.ErrorResponse{
		Status:     fiber.NewError(status).Message,
		StatusCode: status,
		Kind:       errors.Kind(err),
		Error:      err.Error(),
	})
}
