package routes

import (
	auth_handlers "organize.it/handlers/auth"
	"organize.it/middlewares"
	"organize.it/services"

	"github.com/gofiber/fiber/v2"
)

func registerAuthRoutes(app *fiber.App, svc *services.Services) {
	authHandler := auth_handlers.NewAuthHandler(svc)

	// Prefix'siz Group middleware'i tüm uygulamaya bağlar, guest kontrolü rota bazında
	guest := middlewares.GuestMiddleware
	app.Get("/login", guest, authHandler.ShowLogin)
	app.Post("/login", guest, authHandler.Login)
	app.Get("/register", guest, authHandler.ShowRegister)
	app.Post("/register", guest, authHandler.Register)

	app.Get("/logout", middlewares.AuthMiddleware, authHandler.Logout)
	app.Post("/logout", middlewares.AuthMiddleware, authHandler.Logout)
}
