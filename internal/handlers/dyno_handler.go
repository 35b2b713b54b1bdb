package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dynotest/internal/apperr"
	"dynotest/internal/middleware"
	"dynotest/internal/service"
)

// maxPartSize bounds each multipart part read into memory. A full
// recording compresses to a few MB; 64 MB leaves generous headroom.
const maxPartSize = 64 << 20

type DynoHandler struct {
	service service.DynoService
}

func NewDynoHandler(service service.DynoService) *DynoHandler {
	return &DynoHandler{service: service}
}

// Upload accepts the two-part multipart body of a recording: `info`
// (compressed metadata) and `data` (raw telemetry bytes). Both parts
// are required; unrecognized parts are ignored.
func (h *DynoHandler) Upload(c *gin.Context) {
	reader, err := c.Request.MultipartReader()
	if err != nil {
		apperr.Abort(c, apperr.BadRequest("multipart body required"))
		return
	}

	var infoPart, dataPart []byte
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Includes the client hanging up mid-upload; nothing has
			// been persisted at this point.
			apperr.Abort(c, apperr.BadRequest("malformed multipart body"))
			return
		}

		switch part.FormName() {
		case "info":
			infoPart, err = readPart(part)
		case "data":
			dataPart, err = readPart(part)
		default:
			_, err = io.Copy(io.Discard, part)
		}
		if err != nil {
			apperr.Abort(c, apperr.BadRequest(err.Error()))
			return
		}
	}

	if infoPart == nil || dataPart == nil {
		apperr.Abort(c, apperr.BadRequest("multipart body must contain both info and data parts"))
		return
	}

	session := middleware.Session(c)
	dyno, err := h.service.Upload(c.Request.Context(), session, infoPart, dataPart)
	if err != nil {
		apperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, apperr.Success(dyno))
}

func readPart(part io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(part, maxPartSize+1))
	if err != nil {
		return nil, errors.New("failed to read multipart part")
	}
	if len(data) > maxPartSize {
		return nil, errors.New("multipart part exceeds size limit")
	}
	return data, nil
}

// List handles GET /api/dyno?id=&max=&all=&admin=.
func (h *DynoHandler) List(c *gin.Context) {
	query := service.ListQuery{
		All:   c.Query("all") == "true",
		Admin: c.Query("admin") == "true",
	}
	if raw := c.Query("id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			apperr.Abort(c, apperr.BadRequest("invalid id parameter"))
			return
		}
		query.ID = &id
	}
	if raw := c.Query("max"); raw != "" {
		max, err := strconv.Atoi(raw)
		if err != nil {
			apperr.Abort(c, apperr.BadRequest("invalid max parameter"))
			return
		}
		query.Max = max
	}

	session := middleware.Session(c)
	dynos, err := h.service.List(c.Request.Context(), session, query)
	if err != nil {
		apperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, apperr.Success(dynos))
}

// Export handles GET /api/dyno/:owner/:file?tp=bin|csv|excel|json.
func (h *DynoHandler) Export(c *gin.Context) {
	session := middleware.Session(c)
	format := service.ExportFormat(c.DefaultQuery("tp", "bin"))

	export, err := h.service.Export(
		c.Request.Context(),
		session,
		c.Param("owner"),
		c.Param("file"),
		format,
	)
	if err != nil {
		apperr.Abort(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	c.Data(http.StatusOK, export.ContentType, export.Data)
}

// Verify handles PATCH /api/dyno/:id/verify, the admin action marking
// a recording as reviewed.
func (h *DynoHandler) Verify(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		apperr.Abort(c, apperr.BadRequest("invalid id parameter"))
		return
	}

	var body struct {
		Verified bool `json:"verified"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apperr.Abort(c, apperr.BadRequest("invalid verify payload"))
		return
	}

	if err := h.service.SetVerified(c.Request.Context(), id, body.Verified); err != nil {
		apperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, apperr.Success(gin.H{"id": id, "verified": body.Verified}))
}
