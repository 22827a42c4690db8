package logfields

import (
	"errors"
	"testing"
)

func TestErrorNil(t *testing.T) {
	attr := Error(nil)
	if attr.Key != KeyError {
		t.Errorf("key = %s", attr.Key)
	}
	if attr.Value.String() != "" {
		t.Errorf("nil error should render empty, got %q", attr.Value.String())
	}
}

func TestErrorNonNil(t *testing.T) {
	attr := Error(errors.New("boom"))
	if attr.Value.String() != "boom" {
		t.Errorf("value = %q", attr.Value.String())
	}
}

func TestAttrKeys(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{Stage("read").Key, KeyStage},
		{Hook("pre_write").Key, KeyHook},
		{Plugin("seo").Key, KeyPlugin},
		{Path("/tmp/x").Key, KeyPath},
		{Count(3).Key, KeyCount},
	}
	for _, tt := range tests {
		if tt.name != tt.key {
			t.Errorf("attr key = %s, want %s", tt.name, tt.key)
		}
	}
}
