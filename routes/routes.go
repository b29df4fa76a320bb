// path: routes/routes.go
package routes

import (
	"github.com/gofiber/fiber/v2"

	"cidadeperfeita/controllers"
)

// Register attaches all API endpoints to the app.
func Register(app *fiber.App, api *controllers.API) {
	app.Post("/reports", api.HandlePostReport)
	app.Get("/reports", api.HandleListReports)
	app.Delete("/reports/:id", api.HandleDeleteReport)

	// Optional: quick echo to verify requests reach the API
	app.Get("/api/debug/echo", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"method": c.Method(),
			"ct":     c.Get("Content-Type"),
			"len":    len(c.Body()),
		})
	})
}
