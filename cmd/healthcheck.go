package main

import (
	"context"
	"net/http"
	"time"
)

func (app *application) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, database := http.StatusOK, "available"
	if err := app.core.Ping(ctx); err != nil {
		app.logger.Error("Database ping failed", "error", err.Error())
		status, database = http.StatusServiceUnavailable, "unavailable"
	}

	data := map[string]any{
		"status":      http.StatusText(status),
		"environment": app.config.Environment,
		"database":    database,
	}
	if err := app.writeJSON(w, status, data, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}
