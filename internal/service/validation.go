package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"golang.org/x/sync/errgroup"
)

// Validator checks a request and returns human-readable failure messages.
// An error is reserved for problems running the validator itself.
type Validator[Req Request] interface {
	Validate(ctx context.Context, req Req) ([]string, error)
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc[Req Request] func(ctx context.Context, req Req) ([]string, error)

func (f ValidatorFunc[Req]) Validate(ctx context.Context, req Req) ([]string, error) {
	return f(ctx, req)
}

// NewValidate returns a validator instance with the custom tags used by request structs.
func NewValidate() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

// StructValidator validates struct tags and maps each failure to a message
// keyed by "Field.tag". Unmapped failures get a generic message.
type StructValidator[Req Request] struct {
	validate *validator.Validate
	messages map[string]string
}

func NewStructValidator[Req Request](v *validator.Validate, messages map[string]string) *StructValidator[Req] {
	return &StructValidator[Req]{validate: v, messages: messages}
}

func (s *StructValidator[Req]) Validate(ctx context.Context, req Req) ([]string, error) {
	err := s.validate.StructCtx(ctx, req)
	if err == nil {
		return nil, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, fmt.Errorf("failed to validate %s: %w", req.RequestName(), err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if msg, ok := s.messages[fe.StructField()+"."+fe.Tag()]; ok {
			msgs = append(msgs, msg)
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
	}
	return msgs, nil
}

// ValidationBehavior runs all validators concurrently and short-circuits with
// a failed result when any of them reports a message. Messages keep
// registration order.
func ValidationBehavior[Req Request, Res any](vals ...Validator[Req]) Behavior[Req, Res] {
	return func(ctx context.Context, req Req, next HandlerFunc[Req, Res]) (Result[Res], error) {
		if len(vals) == 0 {
			return next(ctx, req)
		}

		results := make([][]string, len(vals))
		g, gctx := errgroup.WithContext(ctx)
		for i, v := range vals {
			g.Go(func() error {
				msgs, err := v.Validate(gctx, req)
				if err != nil {
					return err
				}
				results[i] = msgs
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return Result[Res]{}, err
		}

		var failures []string
		for _, msgs := range results {
			failures = append(failures, msgs...)
		}
		if len(failures) > 0 {
			return Failure[Res](MsgValidationFailed, failures...), nil
		}

		return next(ctx, req)
	}
}
