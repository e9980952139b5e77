package llexamples

import "testing"

func TestListIncludesAllEmbeddedExamples(t *testing.T) {
	names := map[string]bool{}
	for _, e := range List() {
		names[e.Name] = true
	}
	for _, want := range []string{"minimal-readonly", "workspace-write", "network-client"} {
		if !names[want] {
			t.Errorf("List() missing example %q", want)
		}
	}
}

func TestLoadKnownExample(t *testing.T) {
	p, err := Load("minimal-readonly")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.HandledFS().IsEmpty() {
		t.Error("minimal-readonly should handle at least one accessFs right")
	}
}

func TestLoadUnknownExample(t *testing.T) {
	_, err := Load("does-not-exist")
	if err == nil {
		t.Fatal("expected an error for an unknown example name")
	}
}
