package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kinderkitchen/kinderkitchen-backend/api/controllers"
	"github.com/kinderkitchen/kinderkitchen-backend/api/middleware"
	alertsvc "github.com/kinderkitchen/kinderkitchen-backend/internal/alerts"
	ingredientsvc "github.com/kinderkitchen/kinderkitchen-backend/internal/ingredients"
	mealsvc "github.com/kinderkitchen/kinderkitchen-backend/internal/meals"
	reportsvc "github.com/kinderkitchen/kinderkitchen-backend/internal/reports"
	servingsvc "github.com/kinderkitchen/kinderkitchen-backend/internal/serving"
	usersvc "github.com/kinderkitchen/kinderkitchen-backend/internal/users"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/config"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/db"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/enums"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/logger"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	userService usersvc.Service,
	ingredientService ingredientsvc.Service,
	mealService mealsvc.Service,
	servingService servingsvc.Service,
	alertService alertsvc.Service,
	reportService reportsvc.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	manageRoles := []string{
		enums.UserRoleAdmin.String(),
		enums.UserRoleManager.String(),
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	// The login screen lists users before any identity exists, so user
	// lookup stays outside the Identity gate.
	r.Route("/api/v1/users", func(r chi.Router) {
		r.Get("/", controllers.UserList(userService, logg))
		r.Get("/{userId}", controllers.UserDetail(userService, logg))
		r.Group(func(r chi.Router) {
			r.Use(middleware.Identity(userService, logg))
			r.Use(middleware.RequireRole(logg, enums.UserRoleAdmin.String()))
			r.Post("/", controllers.UserCreate(userService, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Identity(userService, logg))

		r.Route("/ingredients", func(r chi.Router) {
			r.Get("/", controllers.IngredientList(ingredientService, logg))
			r.Get("/low-stock", controllers.IngredientLowStock(ingredientService, logg))
			r.Get("/{ingredientId}", controllers.IngredientDetail(ingredientService, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, manageRoles...))
				r.Post("/", controllers.IngredientCreate(ingredientService, logg))
				r.Put("/{ingredientId}", controllers.IngredientUpdate(ingredientService, logg))
				r.Delete("/{ingredientId}", controllers.IngredientDelete(ingredientService, logg))
			})
		})

		r.Route("/meals", func(r chi.Router) {
			r.Get("/", controllers.MealList(mealService, logg))
			r.Get("/{mealId}", controllers.MealDetail(mealService, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, manageRoles...))
				r.Post("/", controllers.MealCreate(mealService, logg))
				r.Put("/{mealId}", controllers.MealUpdate(mealService, logg))
				r.Delete("/{mealId}", controllers.MealDelete(mealService, logg))
			})
		})

		r.Route("/servings", func(r chi.Router) {
			r.Post("/", controllers.ServeMeal(servingService, logg))
			r.Get("/", controllers.ServingList(servingService, logg))
		})

		r.Route("/alerts", func(r chi.Router) {
			r.Get("/", controllers.AlertList(alertService, logg))
			r.Post("/{alertId}/read", controllers.AlertMarkRead(alertService, logg))
			r.Post("/read-all", controllers.AlertMarkAllRead(alertService, logg))
		})

		r.Route("/reports", func(r chi.Router) {
			r.With(middleware.RequireRole(logg, manageRoles...)).
				Get("/monthly", controllers.MonthlyReport(reportService, logg))
		})
	})

	return r
}
