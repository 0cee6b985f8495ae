package middleware

import (
	"context"

	"milhouse/internal/app/commands"
)

type Validator interface {
	Validate(ctx context.Context, message any) error
}

type ValidatorFunc func(ctx context.Context, message any) error

func (f ValidatorFunc) Validate(ctx context.Context, message any) error { return f(ctx, message) }

// Validation rejects a command before dispatch when any of vs returns an error.
// Validators see every command and ignore the ones they do not know.
func Validation(vs ...Validator) CommandMiddleware {
	if len(vs) == 0 {
		panic("middleware: at least one validator required")
	}
	return func(next commands.Bus) commands.Bus {
		return DispatchFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			for _, v := range vs {
				if err := v.Validate(ctx, cmd); err != nil {
					return nil, err
				}
			}
			return next.Dispatch(ctx, cmd)
		})
	}
}
