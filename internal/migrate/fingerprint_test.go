package migrate

import (
	"testing"

	"github.com/inful/mdfp"

	"github.com/siteporter/siteporter/pkg/site"
)

func TestStampAndVerifyFingerprint(t *testing.T) {
	p := &site.Page{
		FrontMatter: map[string]any{"title": "Post"},
		Content:     []byte("body text\n"),
	}

	if err := StampFingerprint(p); err != nil {
		t.Fatalf("StampFingerprint: %v", err)
	}
	stamp, ok := p.FrontMatter[mdfp.FingerprintField].(string)
	if !ok || stamp == "" {
		t.Fatal("fingerprint not stamped")
	}

	if !VerifyFingerprint(p.FrontMatter, p.Content) {
		t.Error("freshly stamped page must verify")
	}

	// A hand edit to the body invalidates the stamp.
	if VerifyFingerprint(p.FrontMatter, []byte("edited body\n")) {
		t.Error("edited body must not verify")
	}

	// A frontmatter edit invalidates it too.
	p.FrontMatter["title"] = "Renamed"
	if VerifyFingerprint(p.FrontMatter, p.Content) {
		t.Error("edited frontmatter must not verify")
	}
}

func TestVerifyFingerprintUnstamped(t *testing.T) {
	if VerifyFingerprint(map[string]any{"title": "x"}, []byte("body")) {
		t.Error("unstamped document must count as modified")
	}
}

func TestStampFingerprintStable(t *testing.T) {
	mk := func() *site.Page {
		return &site.Page{
			FrontMatter: map[string]any{"b": 2, "a": 1, "title": "Post"},
			Content:     []byte("body\n"),
		}
	}
	p1, p2 := mk(), mk()
	if err := StampFingerprint(p1); err != nil {
		t.Fatal(err)
	}
	if err := StampFingerprint(p2); err != nil {
		t.Fatal(err)
	}
	if p1.FrontMatter[mdfp.FingerprintField] != p2.FrontMatter[mdfp.FingerprintField] {
		t.Error("fingerprint must be deterministic across map iteration orders")
	}
}
