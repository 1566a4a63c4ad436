package file

import (
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report.pdf"},
		{"My Report (final).PDF", "my-report-final.PDF"},
		{"Фото двигателя.jpg", "file.jpg"},
		{"a  b--c__d.txt", "a-b-c__d.txt"},
		{"---.png", "file.png"},
		{"...", "file."},
		{"", "file"},
		{"noext", "noext"},
		{"UPPER.TAR.GZ", "upper-tar.GZ"},
	}
	for _, tc := range cases {
		if got := SanitizeFilename(tc.in); got != tc.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeFilenameIdempotent(t *testing.T) {
	inputs := []string{
		"report.pdf", "My Report (final).PDF", "Фото.jpg", "a  b--c.txt", "", "weird---name...doc",
	}
	for _, in := range inputs {
		once := SanitizeFilename(in)
		twice := SanitizeFilename(once)
		if once != twice {
			t.Errorf("not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestUniqueFilenameNeverRepeats(t *testing.T) {
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		name := UniqueFilename("wash-before.jpg")
		if _, dup := seen[name]; dup {
			t.Fatalf("duplicate unique filename after %d calls: %s", i, name)
		}
		seen[name] = struct{}{}
	}
}

func TestStoragePathLayout(t *testing.T) {
	key1, stored1 := StoragePath(CategoryInvoice, "invoice.pdf")
	key2, stored2 := StoragePath(CategoryInvoice, "invoice.pdf")

	parts1 := strings.Split(key1, "/")
	parts2 := strings.Split(key2, "/")
	if len(parts1) != 4 {
		t.Fatalf("expected 4 path segments, got %d in %q", len(parts1), key1)
	}
	if parts1[0] != "invoice" {
		t.Errorf("expected category segment, got %q", parts1[0])
	}
	if len(parts1[2]) != 2 {
		t.Errorf("expected 2-digit month, got %q", parts1[2])
	}
	// Same clock window: category/year/month agree, unique segment differs.
	if parts1[0] != parts2[0] || parts1[1] != parts2[1] || parts1[2] != parts2[2] {
		t.Errorf("date segments differ: %q vs %q", key1, key2)
	}
	if parts1[3] == parts2[3] {
		t.Errorf("unique segments collide: %q", parts1[3])
	}
	if stored1 != parts1[3] || stored2 != parts2[3] {
		t.Errorf("stored filename should equal the trailing segment")
	}
	if strings.Contains(key1, "tenant") {
		t.Errorf("tenant must not appear in the object key: %q", key1)
	}
}

func TestStoragePathEmptyCategory(t *testing.T) {
	key, _ := StoragePath("", "x.png")
	if !strings.HasPrefix(key, "/") {
		t.Errorf("empty category should yield an empty leading segment, got %q", key)
	}
}

func TestBucketName(t *testing.T) {
	cases := []struct {
		tenant string
		want   string
	}{
		{"Acme-Garage", "wash-tenant-acme-garage"},
		{"t_1!x", "wash-tenant-t-1-x"},
		{"--A--", "wash-tenant-a"},
	}
	for _, tc := range cases {
		if got := BucketName("wash-tenant-", tc.tenant); got != tc.want {
			t.Errorf("BucketName(%q) = %q, want %q", tc.tenant, got, tc.want)
		}
	}
}
