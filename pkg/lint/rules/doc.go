// Package rules provides the built-in rules for mdfix.
//
// Every rule works on the raw lines of a document. Code blocks, fence
// delimiters, and front matter are identified with package mdlines; inline
// patterns are fixed regular expressions compiled once and never built from
// user input.
//
// # Rule Domains
//
//   - Whitespace: MD009, MD010, MD012, MD047
//   - Headings: MD001, MD003, MD018 to MD026, MD041
//   - Lists: MD004, MD029, MD030, MD032
//   - Blockquotes: MD027, MD028
//   - Line length: MD013
//   - Links and images: MD011, MD034, MD039, MD042, MD045
//   - Code: MD014, MD031, MD038, MD040, MD046, MD048
//   - Emphasis: MD036, MD037, MD049, MD050
//   - Horizontal rules: MD035
//   - HTML: MD033
//   - Tables: MD058
//   - Spelling: MD044
//
// # Fixers
//
// Rules that can repair their own violations implement lint.Fixer. A fixer
// returns a new slice and leaves lines it cannot change safely untouched, so
// that applying it twice gives the same result as applying it once.
//
// # Registration
//
// RegisterAll adds every rule to a registry; the package init populates
// lint.DefaultRegistry. Legacy names such as "single-title" are declared by
// the rules themselves.
package rules
