package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-sync/internal/application/auth"
	"github.com/jhoicas/inventario-sync/internal/application/inventory"
	"github.com/jhoicas/inventario-sync/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Stores      *inventory.Manager
	IngestUC    *usecase.IngestUseCase
	DashboardUC *usecase.DashboardUseCase
	AuthUC      *auth.AuthUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Items (protegido)
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.Stores)
	items.Get("/", itemHandler.List)
	items.Post("/", itemHandler.Create)
	items.Put("/:id", itemHandler.Update)
	items.Delete("/:id", itemHandler.Delete)
	items.Post("/:id/adjust", itemHandler.Adjust)

	// Categorías de sesión (protegido)
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.Stores)
	categories.Get("/", categoryHandler.List)
	categories.Post("/", categoryHandler.Add)
	categories.Delete("/:label", categoryHandler.Remove)

	// Ingesta por IA (protegido)
	aiHandler := NewAIHandler(deps.IngestUC)
	protected.Post("/ai/ingest", aiHandler.Ingest)

	// Notificación de sesión (protegido)
	notificationHandler := NewNotificationHandler(deps.Stores)
	protected.Get("/notifications", notificationHandler.Pending)
	protected.Delete("/notifications", notificationHandler.Clear)

	// Resumen (protegido)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard", dashboardHandler.Summary)

	// Stream en vivo (protegido, websocket)
	protected.Get("/stream", StreamUpgrade(), NewStreamHandler(deps.Stores))
}
