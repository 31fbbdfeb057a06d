// File: codes.go
// Title: Error Code Definitions
// Description: Error codes for classifying failures of the compiler stages.
//              Codes drive log levels and CLI exit reporting.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-09-28
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2026-09-28 v0.2.0: Codes for parse, render and output stages

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"

	// Compilation stages
	CodeSyntax         Code = "SYNTAX_ERROR"
	CodeResolution     Code = "RESOLUTION_ERROR"
	CodeInvalidCommand Code = "INVALID_COMMAND"
	CodeTemplate       Code = "TEMPLATE_ERROR"
	CodeHighlight      Code = "HIGHLIGHT_ERROR"

	// Output and environment
	CodeIO          Code = "IO_ERROR"
	CodeConfig      Code = "CONFIG_ERROR"
	CodeInvalidConf Code = "INVALID_CONFIG"
	CodeServe       Code = "SERVE_ERROR"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeNotFound, CodeInvalidInput,
		CodeSyntax, CodeResolution, CodeInvalidCommand, CodeTemplate, CodeHighlight,
		CodeIO, CodeConfig, CodeInvalidConf, CodeServe:
		return true
	default:
		return false
	}
}

// Category returns the compiler stage the code belongs to
func (c Code) Category() string {
	switch c {
	case CodeSyntax:
		return "parse"
	case CodeResolution, CodeInvalidCommand, CodeTemplate, CodeHighlight:
		return "render"
	case CodeIO, CodeServe:
		return "output"
	case CodeConfig, CodeInvalidConf:
		return "configuration"
	default:
		return "generic"
	}
}

// IsUserError reports whether the code describes a problem in the user's
// input rather than in the toolchain itself.
func (c Code) IsUserError() bool {
	switch c {
	case CodeSyntax, CodeResolution, CodeInvalidInput, CodeInvalidConf:
		return true
	default:
		return false
	}
}
