// Package config parses and validates generator options.
//
// # Plugin Parameter
//
// protoc passes everything after the colon of --rpcdoc_out as a single
// parameter string of comma separated key=value pairs:
//
//	protoc --rpcdoc_out=output=api.md,anchor_style=explicit:./docs greeter.proto
//
// Recognized keys:
//
//   - output: render every file into one document with this name. When
//     absent one document is written per input file.
//   - anchor_style: "plain" (default) or "explicit". Explicit headings carry
//     a {#anchor} identifier for documentation toolchains that need
//     addressable headings.
//
// Unknown keys, repeated keys and malformed values fail with an
// InvalidOptionError before any schema resolution starts.
//
// # Option Files
//
// The rpcdoc CLI reads the same options from YAML:
//
//	output: api.md
//	anchor_style: explicit
package config
