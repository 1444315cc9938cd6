package util

import (
	"testing"
)

func TestEnumSet(t *testing.T) {
	e := NewEnumSet(2)
	if id, isNew := e.Add("B/POS=名詞"); id != 0 || !isNew {
		t.Errorf("Expected new id 0, got %d %v", id, isNew)
	}
	e.Add("ROOT")
	if id, isNew := e.Add("B/POS=名詞"); id != 0 || isNew {
		t.Errorf("Expected existing id 0, got %d %v", id, isNew)
	}
	if id, exists := e.IndexOf("ROOT"); id != 1 || !exists {
		t.Errorf("Expected ROOT at 1, got %d %v", id, exists)
	}
	if _, exists := e.IndexOf("DIST:1"); exists {
		t.Error("Unknown value reported as existing")
	}
	if e.ValueOf(1) != "ROOT" || e.Len() != 2 {
		t.Errorf("Unexpected set %v", e.Index)
	}
}

func TestEnumSetFrozen(t *testing.T) {
	e := NewEnumSet(0)
	e.Freeze()
	defer func() {
		if recover() == nil {
			t.Error("Expected panic adding to frozen set")
		}
	}()
	e.Add("x")
}
