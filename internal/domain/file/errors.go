package file

import "errors"

var (
	// ErrContentRejected covers type/size validation failures and malformed
	// caller input (bad metadata keys). Caller-correctable, reported before
	// any write happens.
	ErrContentRejected = errors.New("file content rejected")
	// ErrFileNotFound means the id does not exist in the catalog.
	ErrFileNotFound = errors.New("file not found")
	// ErrAccessDenied means tenant mismatch on read, or uploader mismatch on delete.
	ErrAccessDenied = errors.New("access denied")
	// ErrStorageBackend wraps object-store failures (network, bucket creation,
	// put/remove/copy). Not caller-correctable.
	ErrStorageBackend = errors.New("storage backend error")
)
