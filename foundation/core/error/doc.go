// Package error provides structured error handling for the PostText toolchain.
//
// Package: error
// Title: PostText Error Handling
// Description: Structured errors with codes, operations, details and a cause
//              chain. Used by every layer outside the parser and the printer
//              core (templating, highlighting, file output, configuration) so
//              that failures carry enough context to be logged and reported.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-09-28
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors and codes
// - 2026-09-28 v0.2.0: Reduced to the compiler's needs, codes for build stages
//
// Usage:
//
//	import mdwerror "github.com/msto63/posttext/foundation/core/error"
//
//	err := mdwerror.Wrap(cause, "cannot render template").
//		WithCode(mdwerror.CodeTemplate).
//		WithOperation("web.html").
//		WithDetail("template", name)
//
//	if mdwerror.HasCode(err, mdwerror.CodeTemplate) {
//		// ...
//	}
package error
