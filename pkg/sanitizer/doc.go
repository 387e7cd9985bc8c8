// Package sanitizer normalizes free-text input before it is validated and
// persisted. Strategies compose into pipelines so each field type gets a
// single documented normal form.
package sanitizer
