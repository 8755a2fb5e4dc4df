package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// LoggingBehavior logs the name, duration and outcome of every request.
func LoggingBehavior[Req Request, Res any](logger *zap.Logger) Behavior[Req, Res] {
	return func(ctx context.Context, req Req, next HandlerFunc[Req, Res]) (Result[Res], error) {
		start := time.Now()
		logger.Debug("Handling request", zap.String("request", req.RequestName()))

		res, err := next(ctx, req)

		fields := []zap.Field{
			zap.String("request", req.RequestName()),
			zap.Duration("duration", time.Since(start)),
		}
		switch {
		case err != nil:
			logger.Error("Request failed with error", append(fields, zap.Error(err))...)
		case !res.IsSuccess:
			logger.Info("Request completed with failure",
				append(fields, zap.String("message", res.Message), zap.Strings("errors", res.Errors))...)
		default:
			logger.Info("Request completed", fields...)
		}

		return res, err
	}
}
