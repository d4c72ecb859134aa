package routes

import (
	home_handlers "organize.it/handlers/home"
	"organize.it/middlewares"
	"organize.it/services"

	"github.com/gofiber/fiber/v2"
)

func registerHomeRoutes(app *fiber.App, svc *services.Services) {
	homeHandler := home_handlers.NewHomeHandler(svc)

	app.Get("/", homeHandler.Index)
	app.Get("/home", middlewares.AuthMiddleware, homeHandler.Home)
	app.Post("/notification/:id/silence", middlewares.AuthMiddleware, homeHandler.SilenceNotification)
}
