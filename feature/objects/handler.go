package objects

import (
	"bytes"
	"errors"
	"net/url"
	"strconv"

	"s3-manager/core/logger"
	"s3-manager/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for buckets and objects.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the bucket, object and history routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	buckets := app.Group("/buckets")
	buckets.Get("/", h.HandleListBuckets)
	buckets.Post("/:bucket", h.HandleCreateBucket)
	buckets.Delete("/:bucket", h.HandleDeleteBucket)
	buckets.Get("/:bucket/objects", h.HandleListObjects)
	buckets.Put("/:bucket/objects/*", h.HandleUpload)
	buckets.Get("/:bucket/objects/*", h.HandleDownload)
	buckets.Delete("/:bucket/objects/*", h.HandleDeleteObject)
	buckets.Get("/:bucket/metadata/*", h.HandleGetMetadata)

	app.Get("/history", h.HandleHistory)
}

// HandleListBuckets lists all buckets.
// @Summary List Buckets
// @Tags buckets
// @Produce json
// @Success 200 {array} storage.BucketInfo
// @Failure 502 {object} map[string]string "Storage unreachable"
// @Router /buckets [get]
func (h *Handler) HandleListBuckets(c *fiber.Ctx) error {
	buckets, err := h.service.ListBuckets(c.UserContext())
	if err != nil {
		return h.fail(c, "List buckets failed", err)
	}
	return c.JSON(buckets)
}

// HandleCreateBucket creates a bucket and returns the effective name.
// @Summary Create Bucket
// @Description Creates a bucket. With rename=true a taken name gets a -YYYYMMDD suffix.
// @Tags buckets
// @Produce json
// @Param bucket path string true "Bucket name"
// @Param rename query bool false "Rename on collision (defaults to configuration)"
// @Success 201 {object} map[string]string "Created bucket"
// @Failure 409 {object} map[string]string "Bucket already exists"
// @Router /buckets/{bucket} [post]
func (h *Handler) HandleCreateBucket(c *fiber.Ctx) error {
	opts := h.service.DefaultBucketOptions()
	if raw := c.Query("rename"); raw != "" {
		rename, err := strconv.ParseBool(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid rename parameter"})
		}
		opts.RenameOnCollision = rename
	}

	name, err := h.service.CreateBucket(c.UserContext(), c.Params("bucket"), opts)
	if err != nil {
		return h.fail(c, "Create bucket failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"bucket": name})
}

// HandleDeleteBucket deletes an empty bucket.
// @Summary Delete Bucket
// @Tags buckets
// @Param bucket path string true "Bucket name"
// @Success 204
// @Failure 409 {object} map[string]string "Bucket not empty"
// @Router /buckets/{bucket} [delete]
func (h *Handler) HandleDeleteBucket(c *fiber.Ctx) error {
	if err := h.service.DeleteBucket(c.UserContext(), c.Params("bucket")); err != nil {
		return h.fail(c, "Delete bucket failed", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleListObjects returns one page of object keys.
// @Summary List Objects
// @Tags objects
// @Produce json
// @Param bucket path string true "Bucket name"
// @Param prefix query string false "Key prefix"
// @Success 200 {object} storage.ObjectPage
// @Failure 404 {object} map[string]string "Bucket not found"
// @Router /buckets/{bucket}/objects [get]
func (h *Handler) HandleListObjects(c *fiber.Ctx) error {
	page, err := h.service.List(c.UserContext(), c.Params("bucket"), c.Query("prefix"))
	if err != nil {
		return h.fail(c, "List objects failed", err)
	}
	return c.JSON(page)
}

// HandleUpload stores the request body as an object.
// @Summary Upload Object
// @Tags objects
// @Accept octet-stream
// @Produce json
// @Param bucket path string true "Bucket name"
// @Param key path string true "Object key"
// @Param compress query bool false "Store gzip-compressed"
// @Success 201 {object} storage.UploadInfo
// @Router /buckets/{bucket}/objects/{key} [put]
func (h *Handler) HandleUpload(c *fiber.Ctx) error {
	key, err := objectKey(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid object key"})
	}

	opts := UploadOptions{Compress: c.QueryBool("compress", false)}
	if ct := c.Get(fiber.HeaderContentType); ct != "" && ct != fiber.MIMEOctetStream {
		opts.ContentType = ct
	}

	body := c.Body()
	info, err := h.service.UploadReader(c.UserContext(), c.Params("bucket"), key, bytes.NewReader(body), int64(len(body)), opts)
	if err != nil {
		return h.fail(c, "Upload failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(info)
}

// HandleDownload streams an object as stored.
// @Summary Download Object
// @Tags objects
// @Produce octet-stream
// @Param bucket path string true "Bucket name"
// @Param key path string true "Object key"
// @Success 200 {file} file
// @Failure 404 {object} map[string]string "Object not found"
// @Router /buckets/{bucket}/objects/{key} [get]
func (h *Handler) HandleDownload(c *fiber.Ctx) error {
	key, err := objectKey(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid object key"})
	}

	obj, err := h.service.Open(c.UserContext(), c.Params("bucket"), key)
	if err != nil {
		return h.fail(c, "Download failed", err)
	}

	info := obj.Info()
	if info.ContentType != "" {
		c.Set(fiber.HeaderContentType, info.ContentType)
	}
	if info.ContentEncoding != "" {
		c.Set(fiber.HeaderContentEncoding, info.ContentEncoding)
	}
	if info.ETag != "" {
		c.Set(fiber.HeaderETag, `"`+info.ETag+`"`)
	}
	// The response body stream closes obj once written.
	return c.SendStream(obj, int(info.Size))
}

// HandleDeleteObject deletes an object. Missing objects are not an error.
// @Summary Delete Object
// @Tags objects
// @Param bucket path string true "Bucket name"
// @Param key path string true "Object key"
// @Success 204
// @Router /buckets/{bucket}/objects/{key} [delete]
func (h *Handler) HandleDeleteObject(c *fiber.Ctx) error {
	key, err := objectKey(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid object key"})
	}

	if err := h.service.Delete(c.UserContext(), c.Params("bucket"), key); err != nil {
		return h.fail(c, "Delete object failed", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleGetMetadata returns the metadata fields of an object.
// @Summary Get Object Metadata
// @Tags objects
// @Produce json
// @Param bucket path string true "Bucket name"
// @Param key path string true "Object key"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "Object not found"
// @Router /buckets/{bucket}/metadata/{key} [get]
func (h *Handler) HandleGetMetadata(c *fiber.Ctx) error {
	key, err := objectKey(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid object key"})
	}

	info, err := h.service.GetObjectMetadata(c.UserContext(), c.Params("bucket"), key)
	if err != nil {
		return h.fail(c, "Get metadata failed", err)
	}
	return c.JSON(info.Fields())
}

// HandleHistory lists the newest transfer journal entries.
// @Summary Transfer History
// @Tags history
// @Produce json
// @Param limit query int false "Maximum entries (default 50)"
// @Success 200 {array} journal.Entry
// @Failure 503 {object} map[string]string "Journal disabled"
// @Router /history [get]
func (h *Handler) HandleHistory(c *fiber.Ctx) error {
	entries, err := h.service.History(c.UserContext(), c.QueryInt("limit", 0))
	if errors.Is(err, ErrJournalDisabled) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		return h.fail(c, "History query failed", err)
	}
	return c.JSON(entries)
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	status := StatusFor(err)
	l := logger.WithRayID(h.service.logger, c)
	if status >= fiber.StatusInternalServerError {
		l.Error(msg, zap.Error(err))
	} else {
		l.Warn(msg, zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
		"kind":  storage.KindOf(err).String(),
	})
}

// StatusFor maps a storage error kind to an HTTP status code.
func StatusFor(err error) int {
	switch storage.KindOf(err) {
	case storage.KindNotFound:
		return fiber.StatusNotFound
	case storage.KindConflict:
		return fiber.StatusConflict
	case storage.KindCredentials:
		return fiber.StatusUnauthorized
	case storage.KindPermissionDenied:
		return fiber.StatusForbidden
	case storage.KindInvalidInput:
		return fiber.StatusBadRequest
	case storage.KindTimeout:
		return fiber.StatusGatewayTimeout
	case storage.KindConnectionFailed:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func objectKey(c *fiber.Ctx) (string, error) {
	return url.PathUnescape(c.Params("*"))
}
