package llconfig

import "testing"

func TestCollectVariables(t *testing.T) {
	vars, err := collectVariables([]tomlVariable{
		{Name: "rw", Literal: []string{"/tmp", "/var/tmp"}},
	})
	if err != nil {
		t.Fatalf("collectVariables: %v", err)
	}
	if len(vars["rw"]) != 2 {
		t.Fatalf("vars[rw] = %v, want 2 entries", vars["rw"])
	}
}

func TestCollectVariablesEmpty(t *testing.T) {
	vars, err := collectVariables(nil)
	if err != nil || vars != nil {
		t.Fatalf("collectVariables(nil) = %v, %v, want nil, nil", vars, err)
	}
}

func TestCollectVariablesInvalidName(t *testing.T) {
	_, err := collectVariables([]tomlVariable{{Name: "2bad", Literal: []string{"x"}}})
	if err == nil {
		t.Fatal("expected an error for an invalid variable name")
	}
}

func TestCollectVariablesNoLiterals(t *testing.T) {
	_, err := collectVariables([]tomlVariable{{Name: "empty", Literal: nil}})
	if err == nil {
		t.Fatal("expected an error for a variable with no literal values")
	}
}

func TestCollectVariablesNestedReferenceRejected(t *testing.T) {
	_, err := collectVariables([]tomlVariable{
		{Name: "a", Literal: []string{"${b}"}},
	})
	if err == nil {
		t.Fatal("expected an error for a nested variable reference")
	}
}

func TestExpandVariableStringNoReference(t *testing.T) {
	out, err := expandVariableString("/usr/bin", nil)
	if err != nil {
		t.Fatalf("expandVariableString: %v", err)
	}
	if len(out) != 1 || out[0] != "/usr/bin" {
		t.Fatalf("out = %v, want [/usr/bin]", out)
	}
}

func TestExpandVariableStringWholeReference(t *testing.T) {
	vars := map[string][]string{"rw": {"/tmp", "/var/tmp"}}
	out, err := expandVariableString("${rw}", vars)
	if err != nil {
		t.Fatalf("expandVariableString: %v", err)
	}
	if len(out) != 2 || out[0] != "/tmp" || out[1] != "/var/tmp" {
		t.Fatalf("out = %v, want [/tmp /var/tmp]", out)
	}
}

func TestExpandVariableStringEmbeddedReference(t *testing.T) {
	vars := map[string][]string{"base": {"usr", "opt"}}
	out, err := expandVariableString("/${base}/lib", vars)
	if err != nil {
		t.Fatalf("expandVariableString: %v", err)
	}
	if len(out) != 2 || out[0] != "/usr/lib" || out[1] != "/opt/lib" {
		t.Fatalf("out = %v, want [/usr/lib /opt/lib]", out)
	}
}

func TestExpandVariableStringRepeatedSameName(t *testing.T) {
	vars := map[string][]string{"x": {"a"}}
	out, err := expandVariableString("${x}/${x}", vars)
	if err != nil {
		t.Fatalf("expandVariableString: %v", err)
	}
	if len(out) != 1 || out[0] != "a/a" {
		t.Fatalf("out = %v, want [a/a]", out)
	}
}

func TestExpandVariableStringMultipleDistinctNamesRejected(t *testing.T) {
	vars := map[string][]string{"a": {"1"}, "b": {"2"}}
	_, err := expandVariableString("${a}-${b}", vars)
	if err == nil {
		t.Fatal("expected an error for multiple distinct variable references in one string")
	}
}

func TestExpandVariableStringUndefinedRejected(t *testing.T) {
	_, err := expandVariableString("${missing}", nil)
	if err == nil {
		t.Fatal("expected an error for an undefined variable")
	}
}

func TestExpandParentsFDPassesThrough(t *testing.T) {
	raw := []tomlRawParent{{IsInt: true, Int: 5}}
	out, err := expandParents(raw, nil)
	if err != nil {
		t.Fatalf("expandParents: %v", err)
	}
	if len(out) != 1 || !out[0].IsFD || out[0].FD != 5 {
		t.Fatalf("out = %+v, want one fd entry for fd 5", out)
	}
}
