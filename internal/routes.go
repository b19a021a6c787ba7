package internal

import (
	"net/http"
	"signin/internal/controllers"
	"signin/internal/providers"
)

func InitRoutes(signInController *controllers.SignInController, profileController *controllers.ProfileController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/sign-in", http.HandlerFunc(signInController.SignIn))
	routers.Get("/records", http.HandlerFunc(signInController.ListRecords))
	routers.Delete("/records", http.HandlerFunc(signInController.ClearRecords))
	routers.Get("/profile", http.HandlerFunc(profileController.GetProfile))
	routers.Post("/profile", http.HandlerFunc(profileController.SaveProfile))
	routers.Get("/settings", http.HandlerFunc(profileController.Settings))
	routers.Get("/courses", http.HandlerFunc(profileController.Courses))
	return routers
}
