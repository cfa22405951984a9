// Package logging builds the process slog logger and carries request-scoped
// loggers through context.Context.
//
// LOG_LEVEL selects debug, info, warn or error. LOG_FORMAT=text switches the
// JSON handler for a human-readable one.
//
//	logger := logging.NewLogger()
//	slog.SetDefault(logger)
//
//	func (h *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
//	    logging.WithRequestID(r.Context(), h.Logger).Info("page requested")
//	}
package logging
