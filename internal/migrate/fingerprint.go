package migrate

import (
	"github.com/inful/mdfp"

	"github.com/siteporter/siteporter/internal/frontmatter"
	"github.com/siteporter/siteporter/pkg/site"
)

// StampFingerprint computes a content fingerprint over the page's converted
// frontmatter and body and records it in the frontmatter. The write stage
// uses it to tell hand-edited output from stale generated output.
func StampFingerprint(p *site.Page) error {
	fields := make(map[string]any, len(p.FrontMatter))
	for k, v := range p.FrontMatter {
		if k == mdfp.FingerprintField {
			continue
		}
		fields[k] = v
	}

	serialized := ""
	if len(fields) > 0 {
		raw, err := frontmatter.SerializeYAML(fields, frontmatter.Style{Newline: "\n"})
		if err != nil {
			return err
		}
		serialized = trimSingleTrailingNewline(string(raw))
	}

	p.SetMeta(mdfp.FingerprintField, mdfp.CalculateFingerprintFromParts(serialized, string(p.Content)))
	return nil
}

// VerifyFingerprint reports whether a previously written document still
// matches its stamped fingerprint. Documents without a stamp verify as
// modified, which keeps the overwrite guard conservative.
func VerifyFingerprint(fields map[string]any, body []byte) bool {
	stamp, ok := fields[mdfp.FingerprintField].(string)
	if !ok || stamp == "" {
		return false
	}

	check := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == mdfp.FingerprintField {
			continue
		}
		check[k] = v
	}

	serialized := ""
	if len(check) > 0 {
		raw, err := frontmatter.SerializeYAML(check, frontmatter.Style{Newline: "\n"})
		if err != nil {
			return false
		}
		serialized = trimSingleTrailingNewline(string(raw))
	}
	return stamp == mdfp.CalculateFingerprintFromParts(serialized, string(body))
}

func trimSingleTrailingNewline(s string) string {
	if len(s) > 0 && s[len(s)-1] == '\n' {
		return s[:len(s)-1]
	}
	return s
}
