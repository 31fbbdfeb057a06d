// File: errors.go
// Title: PostText Printer Errors
// Description: Errors raised while rendering a document.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-29
// Modified: 2026-09-29
//
// Change History:
// - 2026-09-29 v0.1.0: Initial error types

package printer

import (
	"fmt"

	mdwerror "github.com/msto63/posttext/foundation/core/error"
	"github.com/msto63/posttext/foundation/posttext/ast"
)

// ErrNoTag is returned by tag-scoped commands yielded outside a resolver
var ErrNoTag = mdwerror.New("command requires a current tag").
	WithCode(mdwerror.CodeInvalidCommand)

// ResolutionError reports a tag name without a registered resolver
type ResolutionError struct {
	Tag string
	Pos ast.Position
}

// Error implements the error interface
func (e *ResolutionError) Error() string {
	return fmt.Sprintf(`unknown tag "\%s" at line %d, column %d`, e.Tag, e.Pos.Line, e.Pos.Column)
}

// Code returns the error code used when reporting the failure
func (e *ResolutionError) Code() mdwerror.Code {
	return mdwerror.CodeResolution
}

// invalidResult reports an interpreter result of an unexpected type
func invalidResult(cmd string, got any, want string) error {
	return mdwerror.Newf("command %s returned %T, expected %s", cmd, got, want).
		WithCode(mdwerror.CodeInvalidCommand).
		WithOperation(cmd)
}

// commandOf returns the serviced command as T
func commandOf[T Command](call *Call) (T, error) {
	cmd, ok := call.Command().(T)
	if !ok {
		var zero T
		return zero, mdwerror.Newf("interpreter %s cannot service %T", call.Command().CommandName(), call.Command()).
			WithCode(mdwerror.CodeInvalidCommand)
	}
	return cmd, nil
}
