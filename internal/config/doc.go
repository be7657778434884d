// Package config loads the run configuration.
//
// A configuration file may be written in YAML (.yaml, .yml), TOML (.toml) or
// JSON with comments (.json, .jsonc). Whatever the format, the decoded
// document is checked against the embedded config.schema.json before it is
// mapped onto Config, so every format reports the same validation errors.
//
// # Example
//
//	version: "1"
//	default_package: shop
//	external_prefixes: [java., google.protobuf.]
//	external_types: [UUID, Instant]
//	include: ["docs/**/*.md"]
//	exclude: ["docs/archive/**"]
//	diagram_languages: [mermaid]
//	jobs: 4
//	fail_on_unresolved: true
//
// Missing fields take the values of Default.
package config
