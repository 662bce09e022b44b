// Package configs embeds the default data files shipped with the binary.
package configs

import "embed"

// Modifiers is the built-in modifier pool used when a conversation card
// does not reference its own modifiers file.
//
//go:embed modifiers.yaml
var Modifiers []byte

// Examples is a ready-to-run starter set: a conversation card, two persona
// cards and a vignette, wired to each other by relative paths.
//
//go:embed examples
var Examples embed.FS
