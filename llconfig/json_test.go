package llconfig

import (
	"strings"
	"testing"

	"github.com/landlock-lsm/landlockconfig/llerr"
)

func TestParseJSONExplicitRuleset(t *testing.T) {
	// Scenario 2 of spec §8.
	src := `{"ruleset":[{"handledAccessFs":["execute"]}],"pathBeneath":[{"allowedAccess":["execute"],"parent":["/bin"]}]}`
	p, err := parseJSONBytes([]byte(src))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if p.HandledFS() != AccessFSExecute {
		t.Errorf("HandledFS() = %v, want %v", p.HandledFS(), AccessFSExecute)
	}
	if len(p.PathBeneath) != 1 || p.PathBeneath[0].AllowedAccess != AccessFSExecute {
		t.Fatalf("unexpected path_beneath rules: %+v", p.PathBeneath)
	}
	if p.PathBeneath[0].Parent[0].Path != "/bin" {
		t.Errorf("parent = %q, want /bin", p.PathBeneath[0].Parent[0].Path)
	}
}

func TestParseJSONUnknownKeyword(t *testing.T) {
	src := `{"ruleset":[{"handledAccessFs":["frobnicate"]}]}`
	_, err := parseJSONBytes([]byte(src))
	if err == nil {
		t.Fatal("expected an error for an unknown keyword")
	}
	var e *llerr.Error
	if !asLLErr(err, &e) || e.Kind != llerr.Vocabulary {
		t.Errorf("got %v, want a Vocabulary error", err)
	}
}

func TestParseJSONUnknownField(t *testing.T) {
	src := `{"rulesett":[{"handledAccessFs":["execute"]}]}`
	_, err := parseJSONBytes([]byte(src))
	if err == nil {
		t.Fatal("expected an error for an unknown field")
	}
}

func TestParseJSONEmptyHandledAccessIsSchemaError(t *testing.T) {
	// Scenario 6 of spec §8.
	src := `{"ruleset":[{}]}`
	_, err := parseJSONBytes([]byte(src))
	if err == nil {
		t.Fatal("expected an error")
	}
	var e *llerr.Error
	if !asLLErr(err, &e) || e.Kind != llerr.Schema {
		t.Errorf("got %v, want a Schema error", err)
	}
}

func TestParseJSONEmptyDocumentRejected(t *testing.T) {
	_, err := parseJSONBytes([]byte(`{}`))
	if err == nil {
		t.Fatal("expected an error for an empty document")
	}
}

func TestParseJSONRawIntegerKeyword(t *testing.T) {
	src := `{"ruleset":[{"handledAccessFs":[1]}],"pathBeneath":[{"allowedAccess":[1],"parent":["/tmp"]}]}`
	p, err := parseJSONBytes([]byte(src))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if p.HandledFS() != AccessFSExecute {
		t.Errorf("HandledFS() = %v, want %v", p.HandledFS(), AccessFSExecute)
	}
}

func TestParseJSONPortOutOfRangeRejected(t *testing.T) {
	src := `{"ruleset":[{"handledAccessNet":["bind_tcp"]}],"netPort":[{"allowedAccess":["bind_tcp"],"port":[70000]}]}`
	_, err := parseJSONBytes([]byte(src))
	if err == nil {
		t.Fatal("expected an error for an out-of-range port")
	}
}

func TestParseJSONFDParent(t *testing.T) {
	src := `{"ruleset":[{"handledAccessFs":["read_file"]}],"pathBeneath":[{"allowedAccess":["read_file"],"parent":[3]}]}`
	p, err := parseJSONBytes([]byte(src))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if !p.PathBeneath[0].Parent[0].IsFD || p.PathBeneath[0].Parent[0].FD != 3 {
		t.Errorf("parent entry = %+v, want fd 3", p.PathBeneath[0].Parent[0])
	}
}

func TestParseJSONDuplicateKeywordsDeduped(t *testing.T) {
	src := `{"ruleset":[{"handledAccessFs":["execute","execute"]}],"pathBeneath":[{"allowedAccess":["execute"],"parent":["/bin"]}]}`
	p, err := parseJSONBytes([]byte(src))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if p.HandledFS() != AccessFSExecute {
		t.Errorf("HandledFS() = %v, want %v", p.HandledFS(), AccessFSExecute)
	}
}

func TestParseJSONWhitespaceOnlyIsEmpty(t *testing.T) {
	_, err := parseJSONBytes([]byte("   \n\t  "))
	if err == nil || !strings.Contains(err.Error(), "empty") {
		t.Fatalf("got %v, want an empty-document error", err)
	}
}

func asLLErr(err error, target **llerr.Error) bool {
	e, ok := err.(*llerr.Error)
	if ok {
		*target = e
	}
	return ok
}
