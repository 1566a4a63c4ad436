package file

import (
	"time"

	"gorm.io/datatypes"
)

// FileCategory is the closed set of upload kinds the garage backend produces.
// The category drives the storage path and default visibility, not access control.
type FileCategory string

const (
	CategoryProfilePhoto FileCategory = "profile_photo"
	CategoryTenantLogo   FileCategory = "tenant_logo"
	CategoryVehiclePhoto FileCategory = "vehicle_photo"
	CategoryWashBefore   FileCategory = "wash_before"
	CategoryWashAfter    FileCategory = "wash_after"
	CategoryDamageReport FileCategory = "damage_report"
	CategoryInvoice      FileCategory = "invoice"
	CategoryDocument     FileCategory = "document"
	CategoryOther        FileCategory = "other"
)

// ParseCategory maps a raw string onto the enum, falling back to "other".
func ParseCategory(s string) FileCategory {
	switch FileCategory(s) {
	case CategoryProfilePhoto, CategoryTenantLogo, CategoryVehiclePhoto,
		CategoryWashBefore, CategoryWashAfter, CategoryDamageReport,
		CategoryInvoice, CategoryDocument, CategoryOther:
		return FileCategory(s)
	}
	return CategoryOther
}

// FileRecord is the catalog row for one stored object — exactly one object in
// exactly one bucket per record. TenantID, BucketName and ObjectKey are set at
// upload and never mutated; copy/replace create new records instead.
type FileRecord struct {
	ID               string            `gorm:"column:id;primaryKey" json:"id"`
	TenantID         string            `gorm:"column:tenant_id;index:idx_files_tenant_created;index:idx_files_tenant_category" json:"tenant_id"`
	UploaderUserID   string            `gorm:"column:uploader_user_id;index" json:"uploader_user_id"`
	Category         FileCategory      `gorm:"column:category;index:idx_files_tenant_category" json:"category"`
	OriginalFilename string            `gorm:"column:original_filename" json:"original_filename"`
	StoredFilename   string            `gorm:"column:stored_filename" json:"stored_filename"`
	MimeType         string            `gorm:"column:mime_type" json:"mime_type"`
	SizeBytes        int64             `gorm:"column:size_bytes" json:"size_bytes"`
	BucketName       string            `gorm:"column:bucket_name" json:"bucket_name"`
	ObjectKey        string            `gorm:"column:object_key" json:"object_key"`
	IsPublic         bool              `gorm:"column:is_public" json:"is_public"`
	Metadata         datatypes.JSONMap `gorm:"column:metadata" json:"metadata"`
	CreatedAt        time.Time         `gorm:"column:created_at;index:idx_files_tenant_created" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"column:updated_at" json:"updated_at"`
}

func (FileRecord) TableName() string { return "file_records" }
