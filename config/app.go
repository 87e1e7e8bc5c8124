package config

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirupsen/logrus"

	"chat-group-service/config/common"
	"chat-group-service/config/logger"
	"chat-group-service/handler"
	"chat-group-service/middleware"
	"chat-group-service/repository"
	"chat-group-service/routes"
	"chat-group-service/security"
	"chat-group-service/usecase"
	"chat-group-service/xmpp"
)

type AppConfig struct {
	*fiber.App
	*validator.Validate
	*logrus.Logger
	*DBConfig
	*common.Config
	*security.JWT
	*middleware.Middleware
}

func RunServer() {
	newConfig := common.NewViper()
	app := NewFiber(newConfig)
	log := NewAppLog()
	newDB := NewDB(newConfig, log)
	newValidator := validator.New()
	newJWT := security.NewJWT(newConfig)
	newMiddleware := middleware.NewMiddleware(newConfig, newJWT, log)

	app.Use(cors.New(cors.Config{
		AllowOrigins: "http://localhost:8080",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	fileLog := logger.NewLogger()
	app.Use(fileLog.AccessMiddleware())
	app.Use("/ws", fileLog.WSAccessMiddleware())

	App(&AppConfig{
		App:        app,
		Validate:   newValidator,
		Logger:     log,
		DBConfig:   newDB,
		Config:     newConfig,
		JWT:        newJWT,
		Middleware: newMiddleware,
	})

	_, port := newConfig.GetAppConfig()
	if err := app.Listen(":" + port); err != nil {
		log.WithError(err).Errorf("Failed to start server: %v", err)
	}
}

func App(aC *AppConfig) {
	apiURL, adminUser, adminPassword, vhost, mucService := aC.Config.GetEjabberdConfig()
	xmppClient := xmpp.NewClient(xmpp.ClientConfig{
		APIURL:             apiURL,
		AdminUser:          adminUser,
		AdminPassword:      adminPassword,
		VHost:              vhost,
		MUCService:         mucService,
		Timeout:            aC.Config.GetEjabberdTimeout(),
		InsecureSkipVerify: aC.Config.GetEjabberdInsecureSkipVerify(),
	}, aC.Logger)

	newRoomDirectory := xmpp.NewRoomDirectory(xmppClient)
	newRegistrar := xmpp.NewRegistrar(xmppClient)

	newGroupRepository := repository.NewGroupRepository(aC.GetDB(), aC.Logger)
	newMessageRepository := repository.NewMessageRepository(aC.GetDB(), aC.Logger)

	newGroupUsecase := usecase.NewChatGroupUsecase(newGroupRepository, newRoomDirectory, newRegistrar, aC.Logger)
	newMessageUsecase := usecase.NewChatMessageUsecase(newMessageRepository, newRoomDirectory, aC.Logger)
	newUserUsecase := usecase.NewUserUsecase(newGroupRepository, newRoomDirectory, aC.Logger)

	newChatHandler := handler.NewChatHandler(newGroupUsecase, newMessageUsecase, newUserUsecase, aC.Logger)
	wsHandler := handler.NewWebSocketHandler(aC.Validate, newGroupUsecase, newMessageUsecase, newUserUsecase, aC.Logger)

	route := routes.ConfigRoute{
		App:         aC.App,
		Middleware:  aC.Middleware,
		ChatHandler: newChatHandler,
	}
	route.GetRoute()
	route.GetWebSocketRoute(wsHandler)
}

// NewAppLog is the service-wide structured logger. Rotating file logs are
// handled separately by config/logger.
func NewAppLog() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	log.SetLevel(logrus.InfoLevel)
	return log
}
