// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and response helpers.

# Request Logging

Wrap the router with request logging:

	r.Use(middleware.WithLogging(logger))

Every request gets an X-Request-ID (kept if the client sent one). Start is
logged at debug level, completion (status, duration_ms) at info.

# Authentication

Authenticate resolves an API key from the X-API-Key header, the "key" query
parameter or the api_key cookie, and stores the user in the context:

	r.Use(middleware.Authenticate(store, cfg.APIKeySalt, logger))

Requests without a key continue anonymously. Wrap write handlers with
RequireUser to reject them with 401.

# Formats

RequestFormat returns "html", "json" or "xml" from the route's format
variable (".json" / ".xml"), the format query parameter, or Accept. From
Accept the highest weighted known type wins, so browsers sending
text/html,...,application/xml;q=0.9 get HTML:

	if middleware.IsAPI(r) {
		middleware.Respond(w, r, http.StatusOK, envelope)
		return
	}

ErrorResponse writes an <errors> document or {"error": ...} for API
requests and plain text for HTML.

# Flash Messages

HTML redirects carry a one-shot notice in a cookie:

	middleware.SetFlash(w, "notice", "Successful update")
	kind, msg := middleware.PopFlash(w, r)

# CORS Middleware

	handler := middleware.CORS(r)

Allows GET, POST, PATCH, PUT, DELETE, OPTIONS with headers
Content-Type, Authorization, X-API-Key.
*/
package middleware
