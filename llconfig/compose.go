package llconfig

// compose implements spec §4.4's merge rules over an ordered sequence
// of per-file preDocuments (each already past its own abi.* alias
// resolution, per Open Question (c)):
//
//   - abi: the minimum of all declared abi values; nil if none declared.
//   - variable: literal sequences for variables sharing a name are
//     concatenated; distinct names are merged by name. Variable
//     expansion has already happened per-document, so nothing
//     downstream reads the merged Variables map; validate does not
//     carry it into the Policy.
//   - ruleset/pathBeneath/netPort: concatenation preserving input order.
func compose(docs []*preDocument) *preDocument {
	merged := &preDocument{}

	var minABI *int
	vars := map[string][]string{}

	for _, d := range docs {
		if d.ABI != nil {
			if minABI == nil || *d.ABI < *minABI {
				v := *d.ABI
				minABI = &v
			}
		}
		for name, lits := range d.Variables {
			vars[name] = append(vars[name], lits...)
		}
		merged.Ruleset = append(merged.Ruleset, d.Ruleset...)
		merged.PathBeneath = append(merged.PathBeneath, d.PathBeneath...)
		merged.NetPort = append(merged.NetPort, d.NetPort...)
	}

	merged.ABI = minABI
	if len(vars) > 0 {
		merged.Variables = vars
	}
	return merged
}
