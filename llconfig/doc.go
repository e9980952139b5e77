// Package llconfig parses Landlock policy configurations from their
// two surface syntaxes -- strict JSON and ergonomic TOML -- into a
// validated, ABI-aware semantic model ready for the ruleset builder.
package llconfig
