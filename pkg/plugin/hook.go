package plugin

import "strings"

// Hook identifies a dispatch point in the build lifecycle. The value is the
// snake_case dispatch key itself, so two hooks are the same hook exactly when
// their names are equal. Names outside the built-in set are custom hooks and
// dispatch through the same machinery.
type Hook string

const (
	// HookPreInit fires before workspace and output preparation.
	HookPreInit Hook = "pre_init"
	// HookPostInit fires after workspace and output preparation.
	HookPostInit Hook = "post_init"

	// HookPreRead fires before source content is discovered and parsed.
	HookPreRead Hook = "pre_read"
	// HookPostRead fires after all pages have been read.
	HookPostRead Hook = "post_read"

	// HookPreGenerate fires before pages are converted to the target layout.
	HookPreGenerate Hook = "pre_generate"
	// HookPostGenerate fires after conversion.
	HookPostGenerate Hook = "post_generate"

	// HookPreRender fires before a page body is rendered to HTML.
	HookPreRender Hook = "pre_render"
	// HookPostRender fires after a page body has been rendered.
	HookPostRender Hook = "post_render"

	// HookPreWrite fires before the output tree is written.
	HookPreWrite Hook = "pre_write"
	// HookPostWrite fires after the output tree has been written.
	HookPostWrite Hook = "post_write"

	// HookPreClean fires before stale output is removed.
	HookPreClean Hook = "pre_clean"
	// HookPostClean fires after cleanup.
	HookPostClean Hook = "post_clean"
)

// FromName maps a dispatch key to its Hook. Unrecognized names are returned
// unchanged as custom hooks; the mapping is total and FromName(h.String()) == h
// holds for every hook.
func FromName(name string) Hook {
	return Hook(name)
}

// String returns the dispatch key.
func (h Hook) String() string {
	return string(h)
}

// IsBuiltin reports whether the hook is one of the twelve lifecycle points the
// pipeline dispatches itself.
func (h Hook) IsBuiltin() bool {
	switch h {
	case HookPreInit, HookPostInit,
		HookPreRead, HookPostRead,
		HookPreGenerate, HookPostGenerate,
		HookPreRender, HookPostRender,
		HookPreWrite, HookPostWrite,
		HookPreClean, HookPostClean:
		return true
	default:
		return false
	}
}

// IsPre reports whether the hook fires before its stage.
func (h Hook) IsPre() bool {
	return h.IsBuiltin() && strings.HasPrefix(string(h), "pre_")
}

// IsPost reports whether the hook fires after its stage.
func (h Hook) IsPost() bool {
	return h.IsBuiltin() && strings.HasPrefix(string(h), "post_")
}

// BuiltinHooks returns the twelve built-in hooks in pipeline order.
func BuiltinHooks() []Hook {
	return []Hook{
		HookPreInit, HookPostInit,
		HookPreRead, HookPostRead,
		HookPreGenerate, HookPostGenerate,
		HookPreRender, HookPostRender,
		HookPreWrite, HookPostWrite,
		HookPreClean, HookPostClean,
	}
}
