package llconfig

import "github.com/landlock-lsm/landlockconfig/llerr"

// preDocument is the common intermediate form both surface parsers
// produce: keywords are not yet resolved to concrete bitsets, "abi.*"
// and "vN.*" aliases have not yet been expanded, and handled-access
// auto-completion has not run. The composer (§4.4) operates on
// preDocuments; validate() turns one into a Policy.
type preDocument struct {
	ABI *int

	Ruleset     []preHandledAccess
	PathBeneath []prePathBeneath
	NetPort     []preNetPort

	// Variables holds TOML `[[variable]]` entries by name. Always nil
	// for documents parsed from JSON.
	Variables map[string][]string
}

type preHandledAccess struct {
	FS    []Token
	Net   []Token
	Scope []Token
}

func (h preHandledAccess) isEmpty() bool {
	return len(h.FS) == 0 && len(h.Net) == 0 && len(h.Scope) == 0
}

type prePathBeneath struct {
	AllowedAccess []Token
	Parent        []ParentToken
}

type preNetPort struct {
	AllowedAccess []Token
	Port          []uint16
}

func (d *preDocument) isEmpty() bool {
	return len(d.Ruleset) == 0 && len(d.PathBeneath) == 0 && len(d.NetPort) == 0
}

// checkSchema enforces the structural (non-semantic) rules of spec
// §3.2/§4.1 that don't depend on keyword resolution: required fields
// present and non-empty, and the document as a whole non-empty.
func checkSchema(doc *preDocument) error {
	if doc.isEmpty() {
		return llerr.New(llerr.Schema, "document is empty: at least one of ruleset, pathBeneath, or netPort must be non-empty")
	}
	for i, h := range doc.Ruleset {
		if h.isEmpty() {
			return llerr.Newf(llerr.Schema, "ruleset[%d] has no handled access rights: at least one of handledAccessFs, handledAccessNet, scoped must be non-empty", i)
		}
	}
	for i, r := range doc.PathBeneath {
		if len(r.AllowedAccess) == 0 {
			return llerr.Newf(llerr.Schema, "pathBeneath[%d].allowedAccess must be non-empty", i)
		}
		if len(r.Parent) == 0 {
			return llerr.Newf(llerr.Schema, "pathBeneath[%d].parent must be non-empty", i)
		}
	}
	for i, r := range doc.NetPort {
		if len(r.AllowedAccess) == 0 {
			return llerr.Newf(llerr.Schema, "netPort[%d].allowedAccess must be non-empty", i)
		}
		if len(r.Port) == 0 {
			return llerr.Newf(llerr.Schema, "netPort[%d].port must be non-empty", i)
		}
	}
	return nil
}
