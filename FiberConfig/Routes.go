package FiberConfig

import (
	"fmt"
	"log"
	"os"
	"time"

	"Fixit/Constants"
	"Fixit/Controllers"
	"Fixit/CronJobs"
	"Fixit/Models"
	"Fixit/Notifications"
	"Fixit/Repairs"
	"Fixit/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/template/html"
)

func SetupRoutes(app *fiber.App, repairController *Controllers.RepairController) {
	// Public customer-facing routes
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/repair-form")
	})
	app.Get("/repair-form", repairController.RenderForm)
	app.Post("/repair-request", repairController.SubmitRepair)
	app.Get("/login", repairController.RenderLogin)
	app.Post("/api/login", Controllers.Login)
	app.Post("/login", Controllers.Login)
	app.Get("/api/validate-token", Controllers.ValidateToken)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	// Operator routes, behind the session gate
	app.Get("/dashboard", middleware.Verify(), repairController.RenderDashboard)
	app.Get("/logout", Controllers.Logout)
	app.Post("/api/logout", Controllers.Logout)

	api := app.Group("/api", middleware.Verify())
	api.Get("/repairs", repairController.GetRepairs)
	api.Get("/repairs/export", repairController.ExportRepairs)
	api.Post("/repairs/:id/complete", repairController.CompleteRepair)
	api.Post("/repairs/:id/quote", repairController.SetQuote)
	api.Post("/repairs/:id/delete", repairController.DeleteRepair)
}

// BuildApp assembles the Fiber application around the given workflow
// service. Split out from FiberConfig so tests can drive it in-process.
func BuildApp(repairService *Repairs.Service) *fiber.App {
	engine := html.New("./Templates", ".html")
	app := fiber.New(fiber.Config{
		Views: engine,
	})
	app.Use(middleware.RequestLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestCompression,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           300,
	}))

	repairController := Controllers.NewRepairController(repairService)
	SetupRoutes(app, repairController)

	// Serve uploaded photos statically
	app.Static("/uploads", Constants.UploadsDir, fiber.Static{Compress: true, CacheDuration: time.Second * 10})

	return app
}

func FiberConfig() {
	fmt.Println("Server Up...")

	if err := os.MkdirAll(Constants.UploadsDir, 0755); err != nil {
		log.Fatalf("Failed to create uploads directory: %v", err)
	}

	store := Models.NewRepairStore(Constants.RepairsFile)
	dispatcher := Notifications.DispatcherFromEnv()
	repairService := Repairs.NewService(store, dispatcher, Constants.UploadsDir)

	reminder := CronJobs.NewPendingReminder(repairService, dispatcher, Constants.ReminderAfterDays)
	if err := reminder.Start(); err != nil {
		log.Printf("Failed to start pending-repair reminder: %v", err)
	}

	app := BuildApp(repairService)
	app.Listen(Constants.ListenAddress)
}
