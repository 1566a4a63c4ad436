package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"washhub/internal/pkg/response"
)

// uploadPolicy is the per-endpoint content policy: which MIME types a category
// accepts and how large the payload may be. The storage service itself assumes
// no defaults — these are the surrounding-layer choices.
type uploadPolicy struct {
	allowedTypes []string
	maxSizeBytes int64
}

var (
	imageMimeTypes  = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
	reportMimeTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp", "application/pdf"}
)

var uploadPolicies = map[FileCategory]uploadPolicy{
	CategoryProfilePhoto: {imageMimeTypes, 5 * 1024 * 1024},
	CategoryTenantLogo:   {imageMimeTypes, 2 * 1024 * 1024},
	CategoryVehiclePhoto: {imageMimeTypes, 10 * 1024 * 1024},
	CategoryWashBefore:   {imageMimeTypes, 10 * 1024 * 1024},
	CategoryWashAfter:    {imageMimeTypes, 10 * 1024 * 1024},
	CategoryDamageReport: {reportMimeTypes, 15 * 1024 * 1024},
	CategoryInvoice:      {DocumentMimeTypes, 25 * 1024 * 1024},
	CategoryDocument:     {DocumentMimeTypes, 25 * 1024 * 1024},
	// "other" skips type validation entirely; only the size ceiling applies.
	CategoryOther: {nil, 50 * 1024 * 1024},
}

// Handler exposes the file domain over HTTP. Tenant and user identity come
// from the auth middleware; the handler never resolves them itself.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Upload handles POST /files: multipart form with "file", "category",
// optional "is_public" and a "metadata" JSON object of scalar values.
func (h *Handler) Upload(c *gin.Context) {
	tenantID, userID, ok := identity(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "NO_FILE", "no file provided")
		return
	}

	category := ParseCategory(c.PostForm("category"))
	isPublic := c.PostForm("is_public") == "true"

	var metadata map[string]interface{}
	if raw := c.PostForm("metadata"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_METADATA", "metadata must be a JSON object")
			return
		}
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "UNREADABLE_FILE", "could not read uploaded file")
		return
	}
	defer src.Close()

	mimeType := fileHeader.Header.Get("Content-Type")
	policy := uploadPolicies[category]

	rec, err := h.service.Upload(c.Request.Context(), UploadInput{
		Reader:           src,
		Size:             fileHeader.Size,
		Filename:         fileHeader.Filename,
		MimeType:         mimeType,
		TenantID:         tenantID,
		UserID:           userID,
		Category:         category,
		IsPublic:         isPublic,
		Metadata:         metadata,
		AllowedMimeTypes: policy.allowedTypes,
		MaxSizeBytes:     policy.maxSizeBytes,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, rec)
}

// Get handles GET /files/:id.
func (h *Handler) Get(c *gin.Context) {
	tenantID, _, ok := identity(c)
	if !ok {
		return
	}
	rec, err := h.service.Get(c.Request.Context(), c.Param("id"), tenantID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rec)
}

// List handles GET /files. Metadata equality filters are passed as
// "meta.<key>=<value>" query parameters.
func (h *Handler) List(c *gin.Context) {
	tenantID, _, ok := identity(c)
	if !ok {
		return
	}

	q := ListQuery{
		TenantID:       c.Query("tenant_id"), // explicit cross-tenant override
		Search:         c.Query("search"),
		UploaderUserID: c.Query("uploader_id"),
		SortBy:         c.Query("sort_by"),
		SortAsc:        c.Query("order") == "asc",
	}
	if v := c.Query("category"); v != "" {
		q.Category = ParseCategory(v)
	}
	if v := c.Query("type"); v != "" {
		q.Type = TypeCategory(v)
	}
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_DATE", "from must be RFC3339")
			return
		}
		q.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_DATE", "to must be RFC3339")
			return
		}
		q.To = &t
	}
	q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	q.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	for key, values := range c.Request.URL.Query() {
		if rest, ok := strings.CutPrefix(key, "meta."); ok && len(values) > 0 {
			if q.Metadata == nil {
				q.Metadata = map[string]interface{}{}
			}
			q.Metadata[rest] = metadataQueryValue(values[0])
		}
	}

	res, err := h.service.List(c.Request.Context(), q, tenantID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// metadataQueryValue maps a meta.<key> query param onto the JSON type it was
// stored as. Metadata values are JSON scalars, but query params are always
// strings; numeric and boolean forms are matched as numbers and booleans.
// A string value that itself looks numeric cannot be matched over HTTP.
func metadataQueryValue(raw string) interface{} {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(raw); err == nil && (raw == "true" || raw == "false") {
		return b
	}
	return raw
}

// Download handles GET /files/:id/download, proxying the object bytes.
func (h *Handler) Download(c *gin.Context) {
	tenantID, _, ok := identity(c)
	if !ok {
		return
	}
	stream, rec, err := h.service.Stream(c.Request.Context(), c.Param("id"), tenantID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	defer stream.Close()

	c.DataFromReader(http.StatusOK, rec.SizeBytes, rec.MimeType, stream, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", rec.OriginalFilename),
	})
}

// PresignedURL handles GET /files/:id/url?ttl=<seconds>.
func (h *Handler) PresignedURL(c *gin.Context) {
	tenantID, _, ok := identity(c)
	if !ok {
		return
	}
	var ttl time.Duration
	if v := c.Query("ttl"); v != "" {
		seconds, err := strconv.ParseInt(v, 10, 64)
		if err != nil || seconds <= 0 {
			response.Error(c, http.StatusBadRequest, "INVALID_TTL", "ttl must be a positive number of seconds")
			return
		}
		ttl = time.Duration(seconds) * time.Second
	}
	url, err := h.service.PresignedURL(c.Request.Context(), c.Param("id"), tenantID, ttl)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"url": url})
}

type copyRequest struct {
	Metadata map[string]interface{} `json:"metadata"`
}

// Copy handles POST /files/:id/copy. The copy is owned by the requesting user.
func (h *Handler) Copy(c *gin.Context) {
	tenantID, userID, ok := identity(c)
	if !ok {
		return
	}
	var req copyRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_BODY", "body must be a JSON object")
			return
		}
	}
	rec, err := h.service.Copy(c.Request.Context(), c.Param("id"), tenantID, userID, req.Metadata)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, rec)
}

// Delete handles DELETE /files/:id. Only the uploader may delete.
func (h *Handler) Delete(c *gin.Context) {
	tenantID, userID, ok := identity(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), tenantID, userID); err != nil {
		respondDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// Stats handles GET /files/stats.
func (h *Handler) Stats(c *gin.Context) {
	tenantID, _, ok := identity(c)
	if !ok {
		return
	}
	stats, err := h.service.Stats(c.Request.Context(), tenantID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

// identity pulls the tenant and user ids the auth middleware resolved.
func identity(c *gin.Context) (tenantID, userID string, ok bool) {
	tenantID = c.GetString("tenant_id")
	userID = c.GetString("user_id")
	if tenantID == "" || userID == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing tenant or user identity")
		return "", "", false
	}
	return tenantID, userID, true
}

// respondDomainError maps the domain error taxonomy onto HTTP statuses.
func respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrContentRejected):
		response.Error(c, http.StatusBadRequest, "CONTENT_REJECTED", err.Error())
	case errors.Is(err, ErrFileNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "file not found")
	case errors.Is(err, ErrAccessDenied):
		response.Error(c, http.StatusForbidden, "ACCESS_DENIED", err.Error())
	case errors.Is(err, ErrStorageBackend):
		response.Error(c, http.StatusBadGateway, "STORAGE_UNAVAILABLE", "object storage is unavailable")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}
