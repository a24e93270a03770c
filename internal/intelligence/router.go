package intelligence

import (
	"context"

	"go.uber.org/zap"
)

// RoutingObserver is notified after every resolved query.
type RoutingObserver interface {
	OnRouted(ctx context.Context, query string, res RoutingResult) error
}

// Router is the single entry point of the conversation surface. It runs the
// configured strategy and fans the result out to observers.
type Router struct {
	strategy  AnswerStrategy
	log       *zap.Logger
	observers []RoutingObserver
}

func NewRouter(strategy AnswerStrategy, log *zap.Logger, observers ...RoutingObserver) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{strategy: strategy, log: log.Named("router"), observers: observers}
}

// Strategy reports which strategy the router uses.
func (r *Router) Strategy() StrategyName {
	return r.strategy.Name()
}

// Route returns the reply text for query.
func (r *Router) Route(ctx context.Context, query string) string {
	return r.Resolve(ctx, query).Text
}

// Resolve answers query and returns the full result. Observer failures are
// logged and otherwise ignored.
func (r *Router) Resolve(ctx context.Context, query string) RoutingResult {
	res := r.strategy.Answer(ctx, query)

	r.log.Debug("routed",
		zap.String("strategy", string(res.Strategy)),
		zap.String("topic", res.Topic),
		zap.String("outcome", string(res.Outcome)),
		zap.Duration("elapsed", res.Elapsed),
	)

	for _, o := range r.observers {
		if err := o.OnRouted(ctx, query, res); err != nil {
			r.log.Warn("routing observer failed", zap.Error(err))
		}
	}
	return res
}
