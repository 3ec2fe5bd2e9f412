package server

import "testing"

func TestSessionManager_GetOrCreate(t *testing.T) {
	sm := NewSessionManager()

	// First call should create
	as1 := sm.GetOrCreate("test-session-1")
	if as1 == nil {
		t.Fatal("expected non-nil ActiveSession")
	}

	// Second call should return same instance
	as2 := sm.GetOrCreate("test-session-1")
	if as1 != as2 {
		t.Error("expected same ActiveSession instance on second call")
	}
}

func TestSessionManager_Remove(t *testing.T) {
	sm := NewSessionManager()

	sm.GetOrCreate("test-session-2")
	if _, ok := sm.Get("test-session-2"); !ok {
		t.Error("expected session to exist")
	}

	sm.Remove("test-session-2")
	if _, ok := sm.Get("test-session-2"); ok {
		t.Error("expected session to be removed")
	}
}
