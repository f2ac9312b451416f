// Package domain defines the core types for synthesized test trees.
package domain

// Language represents a source language of a collected test file.
type Language string

// Supported languages for static collection.
const (
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
	LanguageTSX        Language = "tsx"
)
