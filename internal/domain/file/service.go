package file

import (
	"context"
	"fmt"
	"io"
	"log"
	"regexp"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// metadataKeyPattern constrains caller-supplied metadata keys. Keys are
// interpolated into JSON query expressions on listing, so anything outside
// this set is rejected at the boundary.
var metadataKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Service orchestrates uploads: validation, bucket derivation, object writes
// and the catalog record. Stateless — one instance serves all requests.
type Service struct {
	repo         Repository
	gateway      ObjectGateway
	bucketPrefix string
	presignTTL   time.Duration
}

// NewService wires the catalog and the object gateway. presignTTL is the
// default presigned-URL lifetime; zero means DefaultPresignTTL.
func NewService(repo Repository, gateway ObjectGateway, bucketPrefix string, presignTTL time.Duration) *Service {
	if presignTTL <= 0 {
		presignTTL = DefaultPresignTTL
	}
	return &Service{repo: repo, gateway: gateway, bucketPrefix: bucketPrefix, presignTTL: presignTTL}
}

// UploadInput is one raw upload: payload, declared metadata and the caller's
// resolved identity. AllowedMimeTypes and MaxSizeBytes are chosen per endpoint
// by the caller; the service assumes no system-wide default.
type UploadInput struct {
	Reader           io.Reader
	Size             int64
	Filename         string
	MimeType         string
	TenantID         string
	UserID           string
	Category         FileCategory
	IsPublic         bool
	Metadata         map[string]interface{}
	AllowedMimeTypes []string
	MaxSizeBytes     int64
}

// Upload validates the payload, writes the object into the tenant's bucket and
// persists the catalog record. No catalog row is created unless the object
// write succeeded; if the catalog write fails the object is removed best-effort.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*FileRecord, error) {
	if len(in.AllowedMimeTypes) > 0 {
		if err := ValidateFileType(in.MimeType, in.AllowedMimeTypes); err != nil {
			return nil, err
		}
	}
	if err := ValidateFileSize(in.Size, in.MaxSizeBytes); err != nil {
		return nil, err
	}
	if err := validateMetadata(in.Metadata); err != nil {
		return nil, err
	}

	key, stored := StoragePath(in.Category, in.Filename)
	bucket := BucketName(s.bucketPrefix, in.TenantID)

	if err := s.gateway.EnsureBucket(ctx, bucket); err != nil {
		return nil, err
	}

	err := s.gateway.PutObject(ctx, bucket, key, in.Reader, in.Size, PutOptions{
		ContentType: in.MimeType,
		UserMetadata: map[string]string{
			"tenant-id":         in.TenantID,
			"uploader-id":       in.UserID,
			"original-filename": in.Filename,
		},
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	metadata := make(datatypes.JSONMap, len(in.Metadata)+2)
	for k, v := range in.Metadata {
		metadata[k] = v
	}
	metadata["upload_timestamp"] = now.Format(time.RFC3339)
	metadata["type_category"] = string(ClassifyMimeType(in.MimeType))

	rec := &FileRecord{
		ID:               uuid.New().String(),
		TenantID:         in.TenantID,
		UploaderUserID:   in.UserID,
		Category:         in.Category,
		OriginalFilename: in.Filename,
		StoredFilename:   stored,
		MimeType:         in.MimeType,
		SizeBytes:        in.Size,
		BucketName:       bucket,
		ObjectKey:        key,
		IsPublic:         in.IsPublic,
		Metadata:         metadata,
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		// The object is already written; remove it so the failed upload does
		// not leave an orphan behind.
		if delErr := s.gateway.RemoveObject(ctx, bucket, key); delErr != nil {
			log.Printf("file: orphan cleanup failed for %s/%s: %v", bucket, key, delErr)
		}
		return nil, fmt.Errorf("create file record: %w", err)
	}

	if in.Category == CategoryTenantLogo {
		s.removePreviousLogos(ctx, rec)
	}

	return rec, nil
}

// removePreviousLogos implements logo-replace semantics: once a new tenant
// logo is stored, older ones are deleted best-effort.
func (s *Service) removePreviousLogos(ctx context.Context, current *FileRecord) {
	// Normally there is at most one previous logo, but earlier best-effort
	// failures can leave several behind. Re-list after each pass until a page
	// comes back with nothing left to delete.
	for {
		res, err := s.repo.List(ctx, ListQuery{
			TenantID: current.TenantID,
			Category: CategoryTenantLogo,
			Limit:    50,
		})
		if err != nil {
			log.Printf("file: listing previous logos for tenant %s: %v", current.TenantID, err)
			return
		}
		removed := 0
		for _, old := range res.Records {
			if old.ID == current.ID {
				continue
			}
			if err := s.gateway.RemoveObject(ctx, old.BucketName, old.ObjectKey); err != nil {
				log.Printf("file: removing replaced logo object %s: %v", old.ObjectKey, err)
				continue
			}
			if err := s.repo.Delete(ctx, old.ID); err != nil {
				log.Printf("file: removing replaced logo record %s: %v", old.ID, err)
				continue
			}
			removed++
		}
		if removed == 0 {
			return
		}
	}
}

// Get fetches a record by id, enforcing the tenant boundary. The tenant check
// is unconditional — there is no privilege concept below this line.
func (s *Service) Get(ctx context.Context, id, tenantID string) (*FileRecord, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.TenantID != tenantID {
		return nil, fmt.Errorf("%w: file belongs to another tenant", ErrAccessDenied)
	}
	return rec, nil
}

// PresignedURL returns a time-limited download URL for the object. ttl <= 0
// means the 7-day default.
func (s *Service) PresignedURL(ctx context.Context, id, tenantID string, ttl time.Duration) (string, error) {
	rec, err := s.Get(ctx, id, tenantID)
	if err != nil {
		return "", err
	}
	if ttl <= 0 {
		ttl = s.presignTTL
	}
	return s.gateway.PresignedGetURL(ctx, rec.BucketName, rec.ObjectKey, ttl)
}

// Stream returns the object bytes plus the record describing them.
func (s *Service) Stream(ctx context.Context, id, tenantID string) (io.ReadCloser, *FileRecord, error) {
	rec, err := s.Get(ctx, id, tenantID)
	if err != nil {
		return nil, nil, err
	}
	stream, err := s.gateway.GetObject(ctx, rec.BucketName, rec.ObjectKey)
	if err != nil {
		return nil, nil, err
	}
	return stream, rec, nil
}

// Delete removes the object and then the catalog record. Only the uploader may
// delete; the catalog row is never removed before the object removal succeeded.
func (s *Service) Delete(ctx context.Context, id, tenantID, userID string) error {
	rec, err := s.Get(ctx, id, tenantID)
	if err != nil {
		return err
	}
	if rec.UploaderUserID != userID {
		return fmt.Errorf("%w: only the uploader may delete a file", ErrAccessDenied)
	}
	if err := s.gateway.RemoveObject(ctx, rec.BucketName, rec.ObjectKey); err != nil {
		return err
	}
	return s.repo.Delete(ctx, rec.ID)
}

// List returns one page of the tenant's catalog. An explicit q.TenantID
// overrides the caller scope — authorizing cross-tenant listing is the
// caller's responsibility.
func (s *Service) List(ctx context.Context, q ListQuery, tenantID string) (*ListResult, error) {
	if q.TenantID == "" {
		q.TenantID = tenantID
	}
	for key := range q.Metadata {
		if !metadataKeyPattern.MatchString(key) {
			return nil, fmt.Errorf("%w: invalid metadata filter key %q", ErrContentRejected, key)
		}
	}
	return s.repo.List(ctx, q)
}

// Copy duplicates the object under a fresh key and creates a new record owned
// by newUserID. Identity fields change; content fields carry over; metadata
// gains provenance.
func (s *Service) Copy(ctx context.Context, id, tenantID, newUserID string, overrides map[string]interface{}) (*FileRecord, error) {
	src, err := s.Get(ctx, id, tenantID)
	if err != nil {
		return nil, err
	}
	if err := validateMetadata(overrides); err != nil {
		return nil, err
	}

	key, stored := StoragePath(src.Category, src.OriginalFilename)
	if err := s.gateway.CopyObject(ctx, src.BucketName, src.ObjectKey, src.BucketName, key); err != nil {
		return nil, err
	}

	metadata := make(datatypes.JSONMap, len(src.Metadata)+len(overrides)+2)
	for k, v := range src.Metadata {
		metadata[k] = v
	}
	for k, v := range overrides {
		metadata[k] = v
	}
	metadata["copied_from"] = src.ID
	metadata["copy_timestamp"] = time.Now().UTC().Format(time.RFC3339)

	rec := &FileRecord{
		ID:               uuid.New().String(),
		TenantID:         src.TenantID,
		UploaderUserID:   newUserID,
		Category:         src.Category,
		OriginalFilename: src.OriginalFilename,
		StoredFilename:   stored,
		MimeType:         src.MimeType,
		SizeBytes:        src.SizeBytes,
		BucketName:       src.BucketName,
		ObjectKey:        key,
		IsPublic:         src.IsPublic,
		Metadata:         metadata,
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		if delErr := s.gateway.RemoveObject(ctx, rec.BucketName, key); delErr != nil {
			log.Printf("file: orphan cleanup failed for %s/%s: %v", rec.BucketName, key, delErr)
		}
		return nil, fmt.Errorf("create copied file record: %w", err)
	}
	return rec, nil
}

// Stats aggregates the tenant's files: totals plus a per-category breakdown.
func (s *Service) Stats(ctx context.Context, tenantID string) (*TenantStats, error) {
	return s.repo.Stats(ctx, tenantID)
}

// validateMetadata checks keys against the safe charset and restricts values
// to JSON scalars so the catalog stays queryable.
func validateMetadata(md map[string]interface{}) error {
	for key, value := range md {
		if !metadataKeyPattern.MatchString(key) {
			return fmt.Errorf("%w: invalid metadata key %q", ErrContentRejected, key)
		}
		switch value.(type) {
		case nil, string, bool,
			int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64,
			float32, float64:
		default:
			return fmt.Errorf("%w: metadata value for %q must be a scalar", ErrContentRejected, key)
		}
	}
	return nil
}
