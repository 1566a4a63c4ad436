package file

import (
	"fmt"
	"strings"
)

// TypeCategory is the coarse classification derived from a MIME type, used for
// list filtering and per-tenant statistics.
type TypeCategory string

const (
	TypeImages    TypeCategory = "images"
	TypeVideos    TypeCategory = "videos"
	TypeAudio     TypeCategory = "audio"
	TypeDocuments TypeCategory = "documents"
	TypeArchives  TypeCategory = "archives"
	TypeOther     TypeCategory = "other"
)

// DocumentMimeTypes and ArchiveMimeTypes are the exact allow-lists behind the
// "documents" and "archives" classifications. Matching is case-sensitive.
var (
	DocumentMimeTypes = []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.ms-excel",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"text/plain",
		"text/csv",
	}
	ArchiveMimeTypes = []string{
		"application/zip",
		"application/x-zip-compressed",
		"application/x-rar-compressed",
		"application/vnd.rar",
		"application/x-7z-compressed",
		"application/x-tar",
		"application/gzip",
	}
)

// classifyRule is one predicate → category pair. Rules are evaluated in order;
// the first match wins.
type classifyRule struct {
	match    func(mime string) bool
	category TypeCategory
}

func prefixRule(prefix string, cat TypeCategory) classifyRule {
	return classifyRule{
		match:    func(m string) bool { return strings.HasPrefix(m, prefix) },
		category: cat,
	}
}

func listRule(allowed []string, cat TypeCategory) classifyRule {
	set := make(map[string]struct{}, len(allowed))
	for _, m := range allowed {
		set[m] = struct{}{}
	}
	return classifyRule{
		match:    func(m string) bool { _, ok := set[m]; return ok },
		category: cat,
	}
}

var classifyRules = []classifyRule{
	prefixRule("image/", TypeImages),
	prefixRule("video/", TypeVideos),
	prefixRule("audio/", TypeAudio),
	listRule(DocumentMimeTypes, TypeDocuments),
	listRule(ArchiveMimeTypes, TypeArchives),
}

// ClassifyMimeType maps a MIME type onto its coarse category. Matching is
// case-sensitive and exact: "IMAGE/JPEG" or values with stray whitespace fall
// through to "other". Callers must not pass an empty string.
func ClassifyMimeType(mime string) TypeCategory {
	for _, rule := range classifyRules {
		if rule.match(mime) {
			return rule.category
		}
	}
	return TypeOther
}

// ValidateFileType checks exact, case-sensitive membership of mime in the
// allow-list. An empty allow-list admits nothing.
func ValidateFileType(mime string, allowed []string) error {
	for _, a := range allowed {
		if mime == a {
			return nil
		}
	}
	return fmt.Errorf("%w: type %s is not allowed, allowed types: %s",
		ErrContentRejected, mime, strings.Join(allowed, ", "))
}

// ValidateFileSize checks size <= max (the boundary itself is valid). No lower
// bound is enforced, so negative sizes pass — kept as documented behavior of
// the original service.
func ValidateFileSize(size, max int64) error {
	if size <= max {
		return nil
	}
	return fmt.Errorf("%w: file size %.2f MB exceeds the maximum of %.2f MB",
		ErrContentRejected, float64(size)/(1024*1024), float64(max)/(1024*1024))
}
