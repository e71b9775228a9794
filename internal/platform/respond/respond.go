// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond provides JSON response helpers for the infrastructure
// endpoints.
//
// # Architecture
//
// Site pages are rendered by the route pipeline. Only the probes that run
// outside it (/health, /ready) answer JSON, and they all use the same
// envelope so that orchestrators can parse them uniformly.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/taibuivan/yomira-cast/internal/platform/ctxutil"
)

// SuccessEnvelope is the JSON envelope for probe responses.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// JSON writes a JSON response with the given status code.
func JSON(writer http.ResponseWriter, request *http.Request, statusCode int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.Header().Set("Cache-Control", "no-store")
	writer.WriteHeader(statusCode)

	if err := json.NewEncoder(writer).Encode(payload); err != nil {
		ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "response_encode_failed", slog.Any("error", err))
	}
}

// OK writes a 200 OK response with data wrapped in the success envelope.
func OK(writer http.ResponseWriter, request *http.Request, data any) {
	Status(writer, request, http.StatusOK, data)
}

// Status writes data wrapped in the success envelope with an explicit status.
func Status(writer http.ResponseWriter, request *http.Request, statusCode int, data any) {
	JSON(writer, request, statusCode, SuccessEnvelope{Data: data})
}
