package routes

import (
	"github.com/Dosada05/club-system/handlers"
	"github.com/Dosada05/club-system/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes mounts the whole API surface under /api. Authenticated routes
// require a Bearer token; admin routes additionally require the admin role.
func SetupRoutes(
	router *chi.Mux,
	auth *middleware.AuthMiddleware,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	practiceHandler *handlers.PracticeHandler,
	participationHandler *handlers.ParticipationHandler,
	ballBagHandler *handlers.BallBagHandler,
	courtFeeHandler *handlers.CourtFeeHandler,
	settingHandler *handlers.SettingHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Route("/api", func(api chi.Router) {
		// Публичные маршруты
		api.Post("/auth/register", authHandler.Register)
		api.Post("/auth/login", authHandler.Login)

		// Маршруты для аутентифицированных участников
		api.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)

			r.Post("/auth/change-password", authHandler.ChangePassword)

			r.Get("/users", userHandler.ListUsers)
			r.Get("/users/{id}", userHandler.GetUserByID)
			r.Put("/users/{id}", userHandler.UpdateUserByID)
			r.Post("/users/{id}/avatar", userHandler.UploadAvatar)

			r.Get("/practices", practiceHandler.ListPractices)
			r.Get("/practices/{id}", practiceHandler.GetPractice)

			r.Post("/practices/{id}/participations", participationHandler.Signup)
			r.Get("/practices/{id}/participations", participationHandler.ListByPractice)
			r.Get("/practices/{id}/participations/stats", participationHandler.StatsByPractice)
			r.Get("/participations/me", participationHandler.ListMine)
			r.Delete("/participations/{id}", participationHandler.Delete)

			r.Get("/ball-bags", ballBagHandler.ListBags)
			r.Get("/ball-bags/{id}/history", ballBagHandler.History)
			r.Get("/ball-bags/stats", ballBagHandler.Stats)
			r.Get("/practices/{id}/ball-bag-holders", ballBagHandler.HoldersByPractice)

			r.Get("/practices/{id}/court-fee", courtFeeHandler.GetFeeByPractice)
			r.Get("/users/{id}/court-fees", courtFeeHandler.GetUserStats)

			r.Get("/settings", settingHandler.ListSettings)
			r.Get("/settings/{key}", settingHandler.GetSetting)

			// Маршруты только для администраторов
			r.Group(func(admin chi.Router) {
				admin.Use(auth.RequireAdmin)

				admin.Post("/users", userHandler.CreateUser)
				admin.Put("/users/{id}/approve", userHandler.ApproveUser)
				admin.Delete("/users/{id}", userHandler.DeleteUser)
				admin.Post("/users/import", userHandler.ImportUsers)

				admin.Post("/practices", practiceHandler.CreatePractice)
				admin.Put("/practices/{id}", practiceHandler.UpdatePractice)
				admin.Delete("/practices/{id}", practiceHandler.DeletePractice)
				admin.Post("/practices/import", practiceHandler.ImportPractices)

				admin.Post("/ball-bags", ballBagHandler.CreateBag)
				admin.Post("/ball-bags/{id}/takeaways", ballBagHandler.RecordTakeaway)
				admin.Post("/ball-bags/auto-assign", ballBagHandler.AutoAssign)

				admin.Post("/practices/{id}/court-fee", courtFeeHandler.RecordFee)
				admin.Get("/court-fees/stats", courtFeeHandler.GetAllStats)

				admin.Put("/settings/{key}", settingHandler.UpdateSetting)
			})
		})
	})
}
