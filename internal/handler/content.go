package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"buildnchill-server/internal/dto"
	"buildnchill-server/internal/helpers"
	"buildnchill-server/internal/service"
	"buildnchill-server/internal/storage"
)

// ContentHandler serves news, contacts, carousel, settings and uploads.
type ContentHandler struct {
	contentService service.ContentService
	contactService service.ContactService
	statusService  service.StatusService
	uploads        *storage.Store
}

func NewContentHandler(
	contentService service.ContentService,
	contactService service.ContactService,
	statusService service.StatusService,
	uploads *storage.Store,
) *ContentHandler {
	return &ContentHandler{
		contentService: contentService,
		contactService: contactService,
		statusService:  statusService,
		uploads:        uploads,
	}
}

// -------- news --------

func (h *ContentHandler) ListNews(c echo.Context) error {
	news, err := h.contentService.ListNews(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, news)
}

func (h *ContentHandler) GetNews(c echo.Context) error {
	news, err := h.contentService.GetNewsBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, news)
}

func (h *ContentHandler) AddNews(c echo.Context) error {
	var req dto.NewsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	news, err := h.contentService.AddNews(c.Request().Context(), &req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, news)
}

func (h *ContentHandler) UpdateNews(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid news id")
	}
	var req dto.NewsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.contentService.UpdateNews(c.Request().Context(), uint(id), &req); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ContentHandler) DeleteNews(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid news id")
	}
	if err := h.contentService.DeleteNews(c.Request().Context(), uint(id)); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// -------- contacts --------

func (h *ContentHandler) SubmitContact(c echo.Context) error {
	var req dto.SubmitContactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	contact, err := h.contactService.Submit(c.Request().Context(), &req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, dto.ContactResponse{
		Contact: *contact,
		Code:    helpers.ContactCode(contact.ID),
	})
}

func (h *ContentHandler) ListContacts(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	contacts, err := h.contactService.List(c.Request().Context(), limit)
	if err != nil {
		return httpError(err)
	}
	out := make([]dto.ContactResponse, 0, len(contacts))
	for _, contact := range contacts {
		out = append(out, dto.ContactResponse{
			Contact: contact,
			Code:    helpers.ContactCode(contact.ID),
		})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ContentHandler) MarkContactRead(c echo.Context) error {
	if err := h.contactService.MarkRead(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ContentHandler) SetContactStatus(c echo.Context) error {
	var req dto.ContactStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.contactService.SetStatus(c.Request().Context(), c.Param("id"), req.Status); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ContentHandler) DeleteContact(c echo.Context) error {
	if err := h.contactService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// -------- carousel --------

func (h *ContentHandler) ListCarousel(c echo.Context) error {
	images, err := h.contentService.ListCarousel(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, images)
}

func (h *ContentHandler) AddCarouselImage(c echo.Context) error {
	var req dto.CarouselImageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	image, err := h.contentService.AddCarouselImage(c.Request().Context(), &req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, image)
}

func (h *ContentHandler) UpdateCarouselImage(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid image id")
	}
	var req dto.CarouselImageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.contentService.UpdateCarouselImage(c.Request().Context(), uint(id), &req); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ContentHandler) DeleteCarouselImage(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid image id")
	}
	if err := h.contentService.DeleteCarouselImage(c.Request().Context(), uint(id)); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// -------- settings / server status --------

func (h *ContentHandler) GetSettings(c echo.Context) error {
	settings, err := h.statusService.Settings(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, settings)
}

func (h *ContentHandler) UpdateSettings(c echo.Context) error {
	var req dto.SiteSettingsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.statusService.UpdateSettings(c.Request().Context(), &req); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ContentHandler) GetServerStatus(c echo.Context) error {
	status, err := h.statusService.ServerStatus(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, status)
}

func (h *ContentHandler) UpdateServerStatus(c echo.Context) error {
	var req dto.ServerStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.statusService.UpdateServerStatus(c.Request().Context(), &req); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ContentHandler) RefreshServerStatus(c echo.Context) error {
	if err := h.statusService.Refresh(c.Request().Context()); err != nil {
		return httpError(err)
	}
	return h.GetServerStatus(c)
}

// -------- uploads --------

// Upload accepts one multipart image and stores it in the bucket named in
// the route, e.g. POST /api/admin/uploads/news.
func (h *ContentHandler) Upload(c echo.Context) error {
	return h.saveUpload(c, c.Param("bucket"))
}

// UploadRechargeProof stores a signed-in user's transfer screenshot so the
// recharge request can reference it.
func (h *ContentHandler) UploadRechargeProof(c echo.Context) error {
	return h.saveUpload(c, "recharge-proofs")
}

// UploadContactImage stores the optional screenshot attached to a public
// contact message.
func (h *ContentHandler) UploadContactImage(c echo.Context) error {
	return h.saveUpload(c, "contact-images")
}

func (h *ContentHandler) saveUpload(c echo.Context, bucket string) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing file field")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable upload")
	}
	defer src.Close()

	url, err := h.uploads.Save(bucket, fileHeader.Filename, fileHeader.Size, src)
	if err != nil {
		switch err {
		case storage.ErrNotImage, storage.ErrTooLarge:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusCreated, dto.UploadResponse{URL: url})
}
