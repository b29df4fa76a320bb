// path: controllers/report_delete.go
package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"cidadeperfeita/database"
	"cidadeperfeita/models"
)

// HandleDeleteReport removes one report if it belongs to the calling device.
// The row delete is authoritative; the photo removal afterwards is
// best-effort and a failure there only gets logged.
func (a *API) HandleDeleteReport(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return badReq(c, "invalid id")
	}
	ownerID := c.Query("ownerId")
	if ownerID == "" {
		return badReq(c, "ownerId is required")
	}

	deleted, err := a.Store.DeleteOwned(c.Context(), id, ownerID)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrNotFound):
			return notFound(c, "report not found")
		case errors.Is(err, database.ErrForbidden):
			return forbidden(c, "not your report")
		default:
			a.Log.Errorw("delete failed", "id", id, "err", err)
			return serverErr(c, err)
		}
	}

	if err := a.Files.Remove(deleted.PhotoPath); err != nil {
		a.Log.Warnw("photo not removed", "file", deleted.PhotoPath, "err", err)
	}
	return c.Status(fiber.StatusOK).JSON(models.DeleteReportResp{OK: true})
}
