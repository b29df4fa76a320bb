// path: controllers/reports_list.go
package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"cidadeperfeita/models"
)

// HandleListReports returns reports newest first as a bare JSON array, the
// shape the browser client iterates over. ownerId narrows the list to one
// submitting device; limit caps the row count.
func (a *API) HandleListReports(c *fiber.Ctx) error {
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return badReq(c, "invalid limit")
		}
		limit = n
	}

	reports, err := a.Store.ListByOwner(c.Context(), c.Query("ownerId"), limit)
	if err != nil {
		a.Log.Errorw("list failed", "err", err)
		return serverErr(c, err)
	}

	items := make([]models.ReportItem, 0, len(reports))
	for i := range reports {
		items = append(items, toItem(&reports[i]))
	}
	return c.Status(fiber.StatusOK).JSON(items)
}
