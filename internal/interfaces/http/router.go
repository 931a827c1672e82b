package http

import (
	"github.com/gofiber/fiber/v2"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthHandler        *AuthHandler
	AppointmentHandler *AppointmentHandler
	ScheduleHandler    *ScheduleHandler
	InvoiceHandler     *InvoiceHandler
	InventoryHandler   *InventoryHandler
	ClientHandler      *ClientHandler
	CatalogHandler     *CatalogHandler
	JWTSecret          string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", deps.AuthHandler.Register)
	authGroup.Post("/login", deps.AuthHandler.Login)

	// Público: catálogo de lectura, resolución de calendario, consulta DNI y
	// solicitud de cita (el formulario de reserva no exige cuenta).
	api.Get("/services", deps.CatalogHandler.ListServices)
	api.Get("/services/:id", deps.CatalogHandler.GetService)
	api.Get("/products", deps.CatalogHandler.ListProducts)
	api.Get("/products/:id", deps.CatalogHandler.GetProduct)
	api.Get("/schedule/resolve/:date", deps.ScheduleHandler.ResolveDay)
	api.Get("/clients/lookup/:dni", deps.ClientHandler.LookupDNI)
	api.Post("/appointments", deps.AppointmentHandler.Book)

	// Rutas autenticadas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Citas: el dueño o el personal
	protected.Get("/appointments/mine", deps.AppointmentHandler.ListMine)
	protected.Get("/appointments/:id", deps.AppointmentHandler.GetByID)
	protected.Post("/appointments/:id/cancel", deps.AppointmentHandler.Cancel)

	// Rutas de personal (admin o staff)
	staff := protected.Group("/", RequireStaff())

	staff.Get("/appointments", deps.AppointmentHandler.List)
	staff.Put("/appointments/:id", deps.AppointmentHandler.Reschedule)
	staff.Post("/appointments/sweep", deps.AppointmentHandler.Sweep)

	staff.Get("/schedule/workdays", deps.ScheduleHandler.ListWorkDayRules)
	staff.Put("/schedule/workdays", deps.ScheduleHandler.UpsertWorkDayRule)
	staff.Put("/schedule/days", deps.ScheduleHandler.UpsertScheduledDay)
	staff.Delete("/schedule/days/:date", deps.ScheduleHandler.DeleteScheduledDay)

	staff.Post("/invoices", deps.InvoiceHandler.Create)
	staff.Get("/invoices", deps.InvoiceHandler.List)
	staff.Get("/invoices/:id", deps.InvoiceHandler.GetByID)
	staff.Post("/invoices/:id/items", deps.InvoiceHandler.AddItem)
	staff.Post("/invoices/:id/payments", deps.InvoiceHandler.RegisterPayment)
	staff.Post("/invoices/:id/issue", deps.InvoiceHandler.Issue)
	staff.Post("/invoices/:id/void", deps.InvoiceHandler.Void)

	staff.Get("/inventory/movements", deps.InventoryHandler.ListMovements)
	staff.Post("/inventory/movements", deps.InventoryHandler.RegisterMovement)
	staff.Post("/inventory/movements/toggle-draft", deps.InventoryHandler.ToggleDraft)
	staff.Delete("/inventory/movements/:id", deps.InventoryHandler.DeleteMovement)
	staff.Get("/inventory/status", deps.InventoryHandler.ListStatus)
	staff.Get("/inventory/status/:product_id", deps.InventoryHandler.GetStatus)
	staff.Post("/inventory/status/:product_id/recompute", deps.InventoryHandler.RecomputeStock)

	staff.Get("/clients", deps.ClientHandler.List)
	staff.Post("/clients", deps.ClientHandler.Create)
	staff.Get("/clients/:id", deps.ClientHandler.GetByID)
	staff.Put("/clients/:id", deps.ClientHandler.Update)

	staff.Post("/services", deps.CatalogHandler.CreateService)
	staff.Post("/services/:id/components", deps.CatalogHandler.AddComponent)
	staff.Post("/products", deps.CatalogHandler.CreateProduct)
}
