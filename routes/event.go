package routes

import (
	"organize.it/configs"
	event_handlers "organize.it/handlers/event"
	"organize.it/middlewares"
	"organize.it/services"

	"github.com/gofiber/fiber/v2"
)

func registerEventRoutes(app *fiber.App, cfg *configs.AppConfig, svc *services.Services) {
	eventHandler := event_handlers.NewEventHandler(svc, cfg)
	activityHandler := event_handlers.NewActivityHandler(svc)

	// Davet sayfası anonim kullanıcıyı kendisi kayıt sayfasına yönlendirir
	app.Get("/invitation/:id", eventHandler.ShowInvitation)
	app.Post("/invitation/:id", eventHandler.RespondInvitation)

	auth := middlewares.AuthMiddleware
	app.Get("/create-event", auth, eventHandler.ShowCreate)
	app.Post("/create-event", auth, eventHandler.Create)
	app.Get("/edit-event/:id", auth, eventHandler.ShowEdit)
	app.Post("/edit-event/:id", auth, eventHandler.Update)
	app.Post("/delete-event/:id", auth, eventHandler.Delete)
	app.Get("/event/:id", auth, eventHandler.Detail)
	app.Post("/event/:id/invite", auth, eventHandler.Invite)
	app.Post("/event/:id/comment", auth, activityHandler.AddComment)
	app.Post("/event/:id/add-task", auth, activityHandler.AddTask)
	app.Post("/task/:id/toggle", auth, activityHandler.ToggleTask)
	app.Post("/task/:id/delete", auth, activityHandler.DeleteTask)
}
