package llconfig

import (
	"testing"

	"github.com/landlock-lsm/landlockconfig/llerr"
)

func TestResolveFSRawBitBypassesMembership(t *testing.T) {
	bits, err := resolveFS([]Token{{IsBit: true, Bit: 1 << 20}})
	if err != nil {
		t.Fatalf("resolveFS: %v", err)
	}
	if bits != AccessFSSet(1<<20) {
		t.Errorf("bits = %v, want raw bit 1<<20", bits)
	}
}

func TestResolveFSUnknownKeyword(t *testing.T) {
	_, err := resolveFS([]Token{{Word: "not_a_real_keyword"}})
	if err == nil {
		t.Fatal("expected a Vocabulary error for an unknown keyword")
	}
}

func TestResolveFSAggregateOutOfRangeVersion(t *testing.T) {
	_, err := resolveFS([]Token{{Word: "v99.all"}})
	if err == nil {
		t.Fatal("expected an error for an out-of-range ABI version in an aggregate")
	}
}

func TestAutoCompleteHandledAccessSynthesizesRulesetEntry(t *testing.T) {
	p := &Policy{
		PathBeneath: []PathBeneathRule{{AllowedAccess: AccessFSReadFile, Parent: []ParentEntry{{Path: "/tmp"}}}},
	}
	autoCompleteHandledAccess(p)
	if len(p.Ruleset) != 1 {
		t.Fatalf("len(Ruleset) = %d, want 1 synthesized entry", len(p.Ruleset))
	}
	if p.HandledFS() != AccessFSReadFile {
		t.Errorf("HandledFS() = %v, want %v", p.HandledFS(), AccessFSReadFile)
	}
}

func TestAutoCompleteHandledAccessExtendsFirstEntry(t *testing.T) {
	p := &Policy{
		Ruleset:     []HandledAccess{{HandledAccessFS: AccessFSExecute}},
		PathBeneath: []PathBeneathRule{{AllowedAccess: AccessFSExecute | AccessFSReadFile, Parent: []ParentEntry{{Path: "/usr"}}}},
	}
	autoCompleteHandledAccess(p)
	if len(p.Ruleset) != 1 {
		t.Fatalf("len(Ruleset) = %d, want no new entries", len(p.Ruleset))
	}
	if p.HandledFS() != (AccessFSExecute | AccessFSReadFile) {
		t.Errorf("HandledFS() = %v, want execute|read_file", p.HandledFS())
	}
}

func TestCheckConsistencyRejectsEmptyPolicy(t *testing.T) {
	if err := checkConsistency(&Policy{}); err == nil {
		t.Fatal("expected an error for a completely empty policy")
	}
}

func TestCheckConsistencyRejectsOutOfCategoryRights(t *testing.T) {
	p := &Policy{
		Ruleset:     []HandledAccess{{HandledAccessFS: AccessFSReadFile}},
		PathBeneath: []PathBeneathRule{{AllowedAccess: AccessFSReadFile | AccessFSWriteFile, Parent: []ParentEntry{{Path: "/tmp"}}}},
	}
	if err := checkConsistency(p); err == nil {
		t.Fatal("expected an error: allowedAccess exceeds the handled union")
	}
}

func TestCheckConsistencyRejectsNetPortRuleOutsideHandledNet(t *testing.T) {
	p := &Policy{
		Ruleset: []HandledAccess{{HandledAccessNet: AccessNetBindTCP}},
		NetPort: []NetPortRule{{AllowedAccess: AccessNetConnectTCP, Port: []uint16{80}}},
	}
	if err := checkConsistency(p); err == nil {
		t.Fatal("expected an error: connect_tcp not in handled accessNet")
	}
}

func TestValidateAbiAliasWithoutDeclaredAbiIsVocabularyError(t *testing.T) {
	doc := &preDocument{
		Ruleset: []preHandledAccess{{FS: []Token{{Word: "abi.all"}}}},
	}
	_, err := validate(doc)
	if err == nil {
		t.Fatal("expected an error for abi.* used without a declared abi")
	}
	var e *llerr.Error
	if !asLLErr(err, &e) || e.Kind != llerr.Vocabulary {
		t.Errorf("got %v, want a Vocabulary error", err)
	}
}
