// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware holds the request logging, CORS and JSON helpers shared
by every handler.

Every API route is wrapped with WithLogging, which logs the client address
on entry and the status code and duration on exit. Responses with a 5xx
status are logged at error level:

	mux.HandleFunc("POST /groups/{id}/draw", middleware.WithLogging(h.PerformDraw))

The server wraps the whole mux in CORS so browser clients can send the
X-Admin-Key, X-Member-Token and X-Device-UUID headers:

	srv := &http.Server{Handler: middleware.CORS(mux)}

Handlers decode bodies with ParseJSONBody, which stops reading after
MaxBodyBytes, and answer with JSONResponse or ErrorResponse. Error bodies
always have the form {"error": "<status text>", "message": "..."}.
*/
package middleware
