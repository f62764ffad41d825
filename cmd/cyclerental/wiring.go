package main

import (
	"errors"

	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/changecyclestatus"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/imposefine"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/issuecheckintoken"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/issuecheckouttoken"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/ratecycle"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/redeemcheckintoken"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/redeemcheckouttoken"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/registercycle"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/settlefine"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/query/cycleregistry"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/query/fineledger"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/query/rentalledger"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/httpapi"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/shell"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/shell/config"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/shell/observable"
)

// observability bundles the adapters every layer is instrumented with.
// The zap adapter serves as both the plain and the contextual logger.
type observability struct {
	logger interface {
		shell.Logger
		shell.ContextualLogger
	}
	metrics shell.MetricsCollector
	tracing shell.TracingCollector
}

// wrapper collects the errors of building observable wrappers, so that buildHandlers stays readable.
type wrapper struct {
	obs observability
	err error
}

func observeCommand[C shell.Command](w *wrapper, handler shell.CoreCommandHandler[C]) shell.CoreCommandHandler[C] {
	observed, err := observable.NewCommandWrapper(
		handler,
		observable.WithCommandMetrics[C](w.obs.metrics),
		observable.WithCommandTracing[C](w.obs.tracing),
		observable.WithCommandContextualLogging[C](w.obs.logger),
	)
	if err != nil {
		w.err = errors.Join(w.err, err)
		return handler
	}

	return observed
}

func observeQuery[Q shell.Query, R shell.QueryResult](w *wrapper, handler shell.CoreQueryHandler[Q, R]) shell.CoreQueryHandler[Q, R] {
	observed, err := observable.NewQueryWrapper(
		handler,
		observable.WithQueryMetrics[Q, R](w.obs.metrics),
		observable.WithQueryTracing[Q, R](w.obs.tracing),
		observable.WithQueryContextualLogging[Q, R](w.obs.logger),
	)
	if err != nil {
		w.err = errors.Join(w.err, err)
		return handler
	}

	return observed
}

func buildHandlers(
	eventStore shell.EventStore,
	identityProvider shell.IdentityProvider,
	cfg config.Config,
	obs observability,
) (httpapi.Handlers, error) {

	retry := cfg.RetryOptions()
	w := &wrapper{obs: obs}

	handlers := httpapi.Handlers{
		IssueCheckoutToken: observeCommand(w, shell.CoreCommandHandler[issuecheckouttoken.Command](
			issuecheckouttoken.NewCommandHandler(eventStore, identityProvider, issuecheckouttoken.WithRetryOptions(retry...)),
		)),
		RedeemCheckoutToken: observeCommand(w, shell.CoreCommandHandler[redeemcheckouttoken.Command](
			redeemcheckouttoken.NewCommandHandler(eventStore, redeemcheckouttoken.WithRetryOptions(retry...)),
		)),
		IssueCheckinToken: observeCommand(w, shell.CoreCommandHandler[issuecheckintoken.Command](
			issuecheckintoken.NewCommandHandler(eventStore, issuecheckintoken.WithRetryOptions(retry...)),
		)),
		RedeemCheckinToken: observeCommand(w, shell.CoreCommandHandler[redeemcheckintoken.Command](
			redeemcheckintoken.NewCommandHandler(
				eventStore,
				identityProvider,
				redeemcheckintoken.WithRetryOptions(retry...),
				redeemcheckintoken.WithFinePolicy(cfg.FinePolicy),
			),
		)),
		RateCycle: observeCommand(w, shell.CoreCommandHandler[ratecycle.Command](
			ratecycle.NewCommandHandler(eventStore, ratecycle.WithRetryOptions(retry...)),
		)),
		RegisterCycle: observeCommand(w, shell.CoreCommandHandler[registercycle.Command](
			registercycle.NewCommandHandler(eventStore, registercycle.WithRetryOptions(retry...)),
		)),
		ChangeCycleStatus: observeCommand(w, shell.CoreCommandHandler[changecyclestatus.Command](
			changecyclestatus.NewCommandHandler(eventStore, changecyclestatus.WithRetryOptions(retry...)),
		)),
		ImposeFine: observeCommand(w, shell.CoreCommandHandler[imposefine.Command](
			imposefine.NewCommandHandler(eventStore, imposefine.WithRetryOptions(retry...)),
		)),
		SettleFine: observeCommand(w, shell.CoreCommandHandler[settlefine.Command](
			settlefine.NewCommandHandler(eventStore, settlefine.WithRetryOptions(retry...)),
		)),

		GetCycle: observeQuery(w, shell.CoreQueryHandler[cycleregistry.Query, cycleregistry.Cycle](
			cycleregistry.NewQueryHandler(eventStore),
		)),
		GetRentals: observeQuery(w, shell.CoreQueryHandler[rentalledger.Query, rentalledger.Rentals](
			rentalledger.NewQueryHandler(eventStore),
		)),
		GetFineLedger: observeQuery(w, shell.CoreQueryHandler[fineledger.Query, fineledger.FineBalance](
			fineledger.NewQueryHandler(eventStore),
		)),
	}

	return handlers, w.err
}
