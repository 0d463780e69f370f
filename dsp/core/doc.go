// Package core holds the small numeric, buffer and configuration helpers
// shared by the envelope packages.
package core
