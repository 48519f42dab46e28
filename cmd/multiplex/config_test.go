package main

import (
	"errors"
	"testing"
)

func TestParseIntRange(t *testing.T) {
	min, max, err := parseIntRange("2:4", 1, 20)
	if err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
	if min != 2 || max != 4 {
		t.Errorf("expected (2,4), got (%d,%d)", min, max)
	}

	min, max, err = parseIntRange("", 1, 20)
	if err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
	if min != 1 || max != 20 {
		t.Errorf("expected (1,20), got (%d,%d)", min, max)
	}

	min, max, err = parseIntRange(":6", 1, 20)
	if err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
	if min != 1 || max != 6 {
		t.Errorf("expected (1,6), got (%d,%d)", min, max)
	}

	min, max, err = parseIntRange("3:", 1, 20)
	if err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
	if min != 3 || max != 20 {
		t.Errorf("expected (3,20), got (%d,%d)", min, max)
	}

	min, max, err = parseIntRange("6:3", 1, 20)
	if !errors.Is(err, ErrRangeSpec) {
		t.Errorf("expected ErrRangeSpec, got: %v", err)
	}
	if min != 3 || max != 3 {
		t.Errorf("expected min clamped down to max (3,3), got (%d,%d)", min, max)
	}
}
