// Package formatter provides response wrapping and serialization for the
// CLI's render frames and inspection listings.
//
// This package is organized into:
// - wrapper.go: response envelopes built from viewer state
// - json.go, yaml.go: structured serialization
// - html.go: the inspection listing as an info-window fragment
package formatter
