package FiberConfig

import (
	"log"
	"os"

	"Glacier/Controllers"
	"Glacier/Models"
	"Glacier/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/gorm"
)

// SetupRoutes wires the full API surface onto the app.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	customerController := Controllers.NewCustomerController(db)
	jobController := Controllers.NewJobController(db)

	// Public auth
	app.Post("/api/register", Controllers.Register)
	app.Post("/api/login", Controllers.Login)
	app.Post("/api/logout", Controllers.Logout)
	app.Get("/api/user", middleware.Verify(""), Controllers.User)
	app.Get("/api/validate-token", middleware.Verify(""), Controllers.ValidateToken)

	// User management (admin only)
	app.Post("/api/users", middleware.Verify(Models.RoleAdmin), Controllers.CreateStaffUser)
	app.Get("/api/users", middleware.Verify(Models.RoleAdmin), Controllers.FetchUsers)
	app.Get("/api/users/pending", middleware.Verify(Models.RoleAdmin), Controllers.GetPendingUsers)
	app.Patch("/api/users/:id/approve", middleware.Verify(Models.RoleAdmin), Controllers.ApproveUser)
	app.Delete("/api/users/:id", middleware.Verify(Models.RoleAdmin), Controllers.RejectUser)

	// Customer routes
	customers := app.Group("/api/customers", middleware.Verify(""))
	customers.Get("/", customerController.GetCustomers)
	customers.Post("/", customerController.CreateCustomer)
	customers.Get("/:id", customerController.GetCustomer)
	customers.Patch("/:id", customerController.UpdateCustomer)
	customers.Delete("/:id", customerController.DeleteCustomer)

	// Job routes
	jobs := app.Group("/api/jobs", middleware.Verify(""))
	jobs.Get("/", jobController.GetJobs)
	jobs.Post("/", jobController.CreateJob)
	jobs.Get("/:id", jobController.GetJob)
	jobs.Patch("/:id", jobController.UpdateJob)
	jobs.Delete("/:id", jobController.DeleteJob)

	// Vehicle inspection routes
	app.Post("/api/inspections", middleware.Verify(""), Controllers.CreateInspection)
	app.Get("/api/inspections", middleware.Verify(""), Controllers.GetAllInspections)
	app.Get("/api/inspections/:id", middleware.Verify(""), Controllers.GetInspection)
	app.Put("/api/inspections/:id", middleware.Verify(""), Controllers.UpdateInspection)
	app.Delete("/api/inspections/:id", middleware.Verify(""), Controllers.DeleteInspection)

	// Invoice routes
	app.Post("/api/invoices", middleware.Verify(""), Controllers.CreateInvoice)
	app.Get("/api/invoices/export", middleware.Verify(""), Controllers.ExportInvoices)
	app.Get("/api/invoices/:id", middleware.Verify(""), Controllers.GetInvoice)
	app.Get("/api/invoices", middleware.Verify(""), Controllers.GetAllInvoices)
	app.Put("/api/invoices/:id", middleware.Verify(""), Controllers.UpdateInvoice)
	app.Delete("/api/invoices/:id", middleware.Verify(""), Controllers.DeleteInvoice)

	// Settings
	app.Get("/api/settings/company", middleware.Verify(""), Controllers.GetCompanyProfile)
	app.Put("/api/settings/company", middleware.Verify(Models.RoleAdmin), Controllers.UpdateCompanyProfile)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}

// NewApp builds the Fiber application with its middleware stack. Tests use
// this directly; FiberConfig attaches it to a listener.
func NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal server error",
			})
		},
	})

	app.Use(middleware.RequestLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestCompression,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins(),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           300,
	}))

	SetupRoutes(app, Models.DB)
	return app
}

func corsOrigins() string {
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		return origins
	}
	return "http://localhost:5173"
}

// FiberConfig starts the HTTP server.
func FiberConfig() {
	log.Println("Server Up...")
	app := NewApp()

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "3001"
	}
	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
