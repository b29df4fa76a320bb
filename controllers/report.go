// path: controllers/report.go
package controllers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"cidadeperfeita/database"
	"cidadeperfeita/models"
)

// HandlePostReport accepts one multipart submission: text fields plus exactly
// one photo part. The photo lands in the file store first so the inserted row
// always references a file that existed at write time; when the insert is
// rejected as a duplicate the orphaned file is dropped again.
func (a *API) HandlePostReport(c *fiber.Ctx) error {
	ct := c.Get("Content-Type")
	if !strings.HasPrefix(ct, "multipart/form-data") {
		return c.Status(fiber.StatusUnsupportedMediaType).
			JSON(ErrorResp{OK: false, Error: "unsupported content type"})
	}

	fh, err := c.FormFile("photo")
	if err != nil || fh == nil {
		return badReq(c, "envie uma foto")
	}
	if fh.Size > a.Upload.MaxBytes {
		return badReq(c, "foto muito grande")
	}
	ext, ok := a.Upload.AcceptedTypes[fh.Header.Get("Content-Type")]
	if !ok {
		return badReq(c, "apenas imagens (png/jpg/webp)")
	}

	r := models.Report{
		Description: strings.TrimSpace(c.FormValue("description")),
		Type:        strings.TrimSpace(c.FormValue("type")),
		Reporter:    strings.TrimSpace(c.FormValue("reporter")),
	}
	if v := strings.TrimSpace(c.FormValue("reporterId")); v != "" {
		r.ReporterID = &v
	}

	// A client may carry its own original id (retries, offline entries).
	// It is only a dedup key: a collision is answered with 409 and never
	// touches the row already stored under that id.
	if v := strings.TrimSpace(c.FormValue("originalId")); v != "" {
		oid, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return badReq(c, "invalid originalId")
		}
		r.OriginalID = oid
	}

	lat, lng, err := parseCoords(c.FormValue("lat"), c.FormValue("lng"))
	if err != nil {
		return badReq(c, err.Error())
	}
	r.SetLocation(lat, lng)

	src, err := fh.Open()
	if err != nil {
		return serverErr(c, err)
	}
	defer src.Close()

	photoPath, err := a.Files.Save(src, ext)
	if err != nil {
		return serverErr(c, err)
	}
	r.PhotoPath = photoPath

	if err := a.Store.Insert(c.Context(), &r); err != nil {
		// The row was never written; the file just saved has no owner.
		if rmErr := a.Files.Remove(photoPath); rmErr != nil {
			a.Log.Warnw("orphan photo not removed", "file", photoPath, "err", rmErr)
		}
		if errors.Is(err, database.ErrDuplicateOriginalID) {
			return conflict(c, "report already exists")
		}
		a.Log.Errorw("insert failed", "err", err)
		return serverErr(c, err)
	}

	item := toItem(&r)
	return c.Status(fiber.StatusOK).JSON(models.CreateReportResp{OK: true, Report: &item})
}

// parseCoords applies the atomic-pair rule: both fields absent means no
// location, both present must parse, and a half-filled pair degrades to none.
func parseCoords(latStr, lngStr string) (*float64, *float64, error) {
	latStr, lngStr = strings.TrimSpace(latStr), strings.TrimSpace(lngStr)
	if latStr == "" || lngStr == "" {
		return nil, nil, nil
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, nil, errors.New("invalid lat")
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return nil, nil, errors.New("invalid lng")
	}
	return &lat, &lng, nil
}
