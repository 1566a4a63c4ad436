package file

import (
	"errors"
	"strings"
	"testing"
)

func TestClassifyMimeType(t *testing.T) {
	cases := []struct {
		mime string
		want TypeCategory
	}{
		{"image/png", TypeImages},
		{"image/jpeg", TypeImages},
		{"video/mp4", TypeVideos},
		{"audio/mpeg", TypeAudio},
		{"application/pdf", TypeDocuments},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", TypeDocuments},
		{"text/csv", TypeDocuments},
		{"application/zip", TypeArchives},
		{"application/x-7z-compressed", TypeArchives},
		{"application/octet-stream", TypeOther},
		// matching is case-sensitive and exact
		{"IMAGE/JPEG", TypeOther},
		{" image/png", TypeOther},
		{"application/pdf ", TypeOther},
	}
	for _, tc := range cases {
		if got := ClassifyMimeType(tc.mime); got != tc.want {
			t.Errorf("ClassifyMimeType(%q) = %q, want %q", tc.mime, got, tc.want)
		}
	}
}

func TestValidateFileType(t *testing.T) {
	allowed := []string{"image/png", "application/pdf"}

	if err := ValidateFileType("image/png", allowed); err != nil {
		t.Errorf("expected image/png to pass: %v", err)
	}
	err := ValidateFileType("image/gif", allowed)
	if !errors.Is(err, ErrContentRejected) {
		t.Fatalf("expected ErrContentRejected, got %v", err)
	}
	if !strings.Contains(err.Error(), "image/png") || !strings.Contains(err.Error(), "application/pdf") {
		t.Errorf("error should enumerate the allowed list, got %q", err.Error())
	}

	// exact match only, no wildcards
	if err := ValidateFileType("image/png", []string{"image/*"}); err == nil {
		t.Error("wildcards must not match")
	}
	// empty allow-list admits nothing
	if err := ValidateFileType("image/png", nil); err == nil {
		t.Error("empty allow-list should reject")
	}
}

func TestValidateFileSize(t *testing.T) {
	const max = 10 * 1024 * 1024

	if err := ValidateFileSize(max, max); err != nil {
		t.Errorf("boundary must be valid: %v", err)
	}
	err := ValidateFileSize(max+1, max)
	if !errors.Is(err, ErrContentRejected) {
		t.Fatalf("expected ErrContentRejected, got %v", err)
	}
	if !strings.Contains(err.Error(), "10.00 MB") {
		t.Errorf("error should report sizes in MB, got %q", err.Error())
	}

	// no lower bound is enforced
	if err := ValidateFileSize(-1, max); err != nil {
		t.Errorf("negative sizes pass by design: %v", err)
	}
}
