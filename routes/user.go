package routes

import (
	user_handlers "organize.it/handlers/user"
	"organize.it/middlewares"
	"organize.it/services"

	"github.com/gofiber/fiber/v2"
)

func registerUserRoutes(app *fiber.App, svc *services.Services) {
	userHandler := user_handlers.NewUserHandler(svc)

	app.Get("/profile_pictures/:name", userHandler.ProfilePicture)

	auth := middlewares.AuthMiddleware
	app.Get("/user/:id", auth, userHandler.Profile)
	app.Get("/edit_profile/:id", auth, userHandler.ShowEdit)
	app.Post("/edit_profile/:id", auth, userHandler.Edit)
	app.Post("/delete_account", auth, userHandler.DeleteAccount)
	app.Post("/send_friend_request/:id", auth, userHandler.SendFriendRequest)
	app.Post("/respond_friend_request/:id/:action", auth, userHandler.RespondFriendRequest)
	app.Post("/remove_friend/:id", auth, userHandler.RemoveFriend)
	app.Get("/search_friend", auth, userHandler.SearchFriend)
}
