package file

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ListQuery carries the filters for a catalog listing. TenantID is filled by
// the service from the caller's scope unless an explicit override is set.
type ListQuery struct {
	TenantID       string
	Search         string // case-insensitive substring on original_filename
	UploaderUserID string
	Category       FileCategory
	Type           TypeCategory // coarse filter mapped onto MIME predicates
	Metadata       map[string]interface{}
	From           *time.Time // inclusive bounds on created_at
	To             *time.Time
	SortBy         string // created_at | filename | size | mime_type
	SortAsc        bool   // descending by default
	Page           int
	Limit          int
}

// ListResult is one page of catalog rows plus the unpaginated total.
type ListResult struct {
	Records []FileRecord `json:"records"`
	Total   int64        `json:"total"`
	Page    int          `json:"page"`
	Limit   int          `json:"limit"`
}

// TenantStats aggregates a tenant's catalog. Absent aggregates normalize to
// zero, never null.
type TenantStats struct {
	TotalFiles      int64                  `json:"total_files"`
	TotalSizeBytes  int64                  `json:"total_size_bytes"`
	TotalSizeMB     float64                `json:"total_size_mb"`
	FilesByCategory map[FileCategory]int64 `json:"files_by_category"`
}

type Repository interface {
	Create(ctx context.Context, rec *FileRecord) error
	GetByID(ctx context.Context, id string) (*FileRecord, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q ListQuery) (*ListResult, error)
	Stats(ctx context.Context, tenantID string) (*TenantStats, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rec *FileRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *repository) GetByID(ctx context.Context, id string) (*FileRecord, error) {
	var rec FileRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&FileRecord{}).Error
}

// sortColumns whitelists the sortable fields; anything else falls back to
// created_at.
var sortColumns = map[string]string{
	"created_at": "created_at",
	"filename":   "original_filename",
	"size":       "size_bytes",
	"mime_type":  "mime_type",
}

func (r *repository) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = 20
	}

	tx := r.db.WithContext(ctx).Model(&FileRecord{}).Where("tenant_id = ?", q.TenantID)

	if q.Search != "" {
		tx = tx.Where("LOWER(original_filename) LIKE ?", "%"+strings.ToLower(q.Search)+"%")
	}
	if q.UploaderUserID != "" {
		tx = tx.Where("uploader_user_id = ?", q.UploaderUserID)
	}
	if q.Category != "" {
		tx = tx.Where("category = ?", q.Category)
	}
	if q.Type != "" {
		tx = applyTypeFilter(tx, q.Type)
	}
	if q.From != nil {
		tx = tx.Where("created_at >= ?", *q.From)
	}
	if q.To != nil {
		tx = tx.Where("created_at <= ?", *q.To)
	}
	for key, value := range q.Metadata {
		tx = tx.Where(datatypes.JSONQuery("metadata").Equals(value, key))
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	column, ok := sortColumns[q.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if q.SortAsc {
		direction = "ASC"
	}

	records := make([]FileRecord, 0, limit)
	err := tx.Order(column + " " + direction).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return &ListResult{Records: records, Total: total, Page: page, Limit: limit}, nil
}

// applyTypeFilter translates a coarse category into the same MIME predicates
// ClassifyMimeType uses: prefix match for media, allow-lists for documents and
// archives. "other" is everything none of those match.
func applyTypeFilter(tx *gorm.DB, t TypeCategory) *gorm.DB {
	switch t {
	case TypeImages:
		return tx.Where("mime_type LIKE ?", "image/%")
	case TypeVideos:
		return tx.Where("mime_type LIKE ?", "video/%")
	case TypeAudio:
		return tx.Where("mime_type LIKE ?", "audio/%")
	case TypeDocuments:
		return tx.Where("mime_type IN ?", DocumentMimeTypes)
	case TypeArchives:
		return tx.Where("mime_type IN ?", ArchiveMimeTypes)
	case TypeOther:
		return tx.
			Where("mime_type NOT LIKE ?", "image/%").
			Where("mime_type NOT LIKE ?", "video/%").
			Where("mime_type NOT LIKE ?", "audio/%").
			Where("mime_type NOT IN ?", DocumentMimeTypes).
			Where("mime_type NOT IN ?", ArchiveMimeTypes)
	}
	return tx
}

func (r *repository) Stats(ctx context.Context, tenantID string) (*TenantStats, error) {
	var totals struct {
		Count int64
		Size  int64
	}
	err := r.db.WithContext(ctx).Model(&FileRecord{}).
		Where("tenant_id = ?", tenantID).
		Select("COUNT(*) AS count, COALESCE(SUM(size_bytes), 0) AS size").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Category FileCategory
		Count    int64
	}
	err = r.db.WithContext(ctx).Model(&FileRecord{}).
		Where("tenant_id = ?", tenantID).
		Select("category, COUNT(*) AS count").
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	byCategory := make(map[FileCategory]int64, len(rows))
	for _, row := range rows {
		byCategory[row.Category] = row.Count
	}

	return &TenantStats{
		TotalFiles:      totals.Count,
		TotalSizeBytes:  totals.Size,
		TotalSizeMB:     float64(totals.Size) / (1024 * 1024),
		FilesByCategory: byCategory,
	}, nil
}
