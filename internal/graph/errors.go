package graph

import (
	"errors"

	"socialgraph/internal/models"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// fieldError converts err into a GraphQL error located at path.
func fieldError(err error, path ast.Path, pos *ast.Position) *gqlerror.Error {
	message := err.Error()
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	gqlErr := &gqlerror.Error{
		Err:        err,
		Message:    message,
		Path:       clonePath(path),
		Extensions: map[string]interface{}{"code": models.ErrorCode(err)},
	}
	if pos != nil {
		gqlErr.Locations = []gqlerror.Location{{Line: pos.Line, Column: pos.Column}}
	}
	return gqlErr
}

// requestErrors tags parse and validation errors with the validation code.
func requestErrors(list gqlerror.List) gqlerror.List {
	for _, err := range list {
		if err.Extensions == nil {
			err.Extensions = map[string]interface{}{}
		}
		if _, ok := err.Extensions["code"]; !ok {
			err.Extensions["code"] = models.CodeValidation
		}
	}
	return list
}

func requestError(err error) gqlerror.List {
	var gqlErr *gqlerror.Error
	if !errors.As(err, &gqlErr) {
		gqlErr = gqlerror.Wrap(err)
	}
	return requestErrors(gqlerror.List{gqlErr})
}

func clonePath(path ast.Path) ast.Path {
	if len(path) == 0 {
		return nil
	}
	out := make(ast.Path, len(path))
	copy(out, path)
	return out
}

func appendPath(path ast.Path, elem ast.PathElement) ast.Path {
	out := make(ast.Path, len(path), len(path)+1)
	copy(out, path)
	return append(out, elem)
}
