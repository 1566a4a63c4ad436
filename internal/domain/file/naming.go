package file

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SanitizeFilename makes a client-supplied filename safe to use as part of an
// object key. The stem is lowercased and restricted to [a-z0-9_-]; the
// extension is reattached unchanged, case intact.
func SanitizeFilename(name string) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	var b strings.Builder
	lastHyphen := false
	for _, r := range stem {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_':
			b.WriteRune(r)
			lastHyphen = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
			}
			lastHyphen = true
		}
	}

	out := strings.Trim(b.String(), "-")
	if out == "" {
		out = "file"
	}
	return out + ext
}

// UniqueFilename prefixes the sanitized filename with a random 128-bit token
// so two uploads of the same name never share an object key.
func UniqueFilename(name string) string {
	return uuid.New().String() + "-" + SanitizeFilename(name)
}

// StoragePath builds the object key for an upload: {category}/{year}/{month}/{unique}.
// The tenant never appears in the path — isolation is enforced at the bucket
// level so the path layout is uniform across tenants. Returns the full key and
// the unique trailing component (the stored filename).
func StoragePath(category FileCategory, name string) (key, stored string) {
	now := time.Now().UTC()
	stored = UniqueFilename(name)
	key = fmt.Sprintf("%s/%d/%02d/%s", category, now.Year(), int(now.Month()), stored)
	return key, stored
}

// BucketName derives the tenant's bucket from its id: prefix + lowercased id
// restricted to [a-z0-9-]. Deterministic — the bucket is a pure function of
// the tenant id and is never stored independently of this derivation.
func BucketName(prefix, tenantID string) string {
	var b strings.Builder
	lastHyphen := false
	for _, r := range strings.ToLower(tenantID) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
			}
			lastHyphen = true
		}
	}
	return prefix + strings.Trim(b.String(), "-")
}
