package plugin

import (
	"errors"
	"testing"
)

func TestHookResultZeroValueContinues(t *testing.T) {
	var r HookResult
	if r.Stopped() || r.Failed() {
		t.Error("zero value should neither stop nor fail")
	}
}

func TestFailCarriesErrorVerbatim(t *testing.T) {
	sentinel := errors.New("boom")
	r := Fail(sentinel)
	if !r.Failed() {
		t.Fatal("Fail result should report Failed")
	}
	if !errors.Is(r.Err, sentinel) {
		t.Errorf("Err = %v, want the original error", r.Err)
	}
}

func TestFailNilError(t *testing.T) {
	r := Fail(nil)
	if !r.Failed() {
		t.Fatal("Fail(nil) should still fail")
	}
	if r.Err == nil {
		t.Error("Fail(nil) must synthesize an error so action and error agree")
	}
}

func TestFailf(t *testing.T) {
	r := Failf("stage %s broke", "render")
	if !r.Failed() {
		t.Fatal("Failf result should report Failed")
	}
	if got := r.Err.Error(); got != "stage render broke" {
		t.Errorf("Err = %q", got)
	}
}

func TestStop(t *testing.T) {
	r := Stop()
	if !r.Stopped() || r.Failed() {
		t.Error("Stop should report Stopped only")
	}
}
