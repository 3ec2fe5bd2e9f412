package cvtools

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRegistryDefs(t *testing.T) {
	r := NewRegistry()
	defs := r.Defs()

	want := []string{"analyze_cv", "compare_cv_jd", "extract_jd_requirements", "suggest_cv_improvements"}
	if len(defs) != len(want) {
		t.Fatalf("got %d tool defs, want %d", len(defs), len(want))
	}
	for i, name := range want {
		if defs[i].Name != name {
			t.Errorf("defs[%d].Name = %q, want %q", i, defs[i].Name, name)
		}
	}
}

func TestRegistryUnknownFunction(t *testing.T) {
	r := NewRegistry()

	_, err := r.Call("delete_everything", json.RawMessage(`{}`))
	if err == nil {
		t.Fatal("expected error for unknown function")
	}
	if !strings.Contains(err.Error(), "unknown function: delete_everything") {
		t.Errorf("error = %q, want unknown function text", err)
	}
}

func TestRegistryMalformedArguments(t *testing.T) {
	r := NewRegistry()

	_, err := r.Call("analyze_cv", json.RawMessage(`{not json`))
	if err == nil {
		t.Fatal("expected error for malformed arguments")
	}
}

func TestRegistryMissingRequiredField(t *testing.T) {
	tests := []struct {
		name string
		args string
	}{
		{"analyze_cv", `{}`},
		{"compare_cv_jd", `{"cv_text": "my cv"}`},
		{"extract_jd_requirements", `{}`},
		{"suggest_cv_improvements", `{}`},
	}

	r := NewRegistry()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Call(tt.name, json.RawMessage(tt.args))
			if err == nil {
				t.Errorf("Call(%s, %s) succeeded, want required-field error", tt.name, tt.args)
			}
		})
	}
}

func TestRegistryPanicRecovered(t *testing.T) {
	r := NewRegistry()
	r.register(analyzeCVDef, func(json.RawMessage) (string, error) {
		panic("boom")
	})

	_, err := r.Call("analyze_cv", json.RawMessage(`{"cv_text":"x"}`))
	if err == nil {
		t.Fatal("expected error from panicking handler")
	}
	if !strings.Contains(err.Error(), "panicked") {
		t.Errorf("error = %q, want panic text", err)
	}
}
