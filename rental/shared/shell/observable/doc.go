// Package observable provides wrappers which instrument command and query handlers
// with metrics, tracing, and logging while the handlers themselves stay free of observability code.
//
// The wrappers are applied explicitly at wiring time:
//
//	coreHandler := redeemcheckouttoken.NewCommandHandler(eventStore)
//
//	handler, err := observable.NewCommandWrapper[redeemcheckouttoken.Command](
//		coreHandler,
//		observable.WithCommandMetrics[redeemcheckouttoken.Command](metricsCollector),
//		observable.WithCommandTracing[redeemcheckouttoken.Command](tracingCollector),
//		observable.WithCommandContextualLogging[redeemcheckouttoken.Command](contextualLogger),
//	)
//
// Tests of business rules use the core handlers directly.
package observable
