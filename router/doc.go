// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the scheduling poll service.

# Route Registration

NewRouter builds the store, the page renderer and every handler, and
returns the wrapped gorilla/mux router:

	handler, err := router.NewRouter(db, cfg, logger)

The chain is CORS → request logging → mux → API key authentication →
handler. Routes taking a format accept an optional ".json" or ".xml"
suffix.

# Endpoints

Health:

	GET /health

Users and issues:

	POST /users[.json|.xml]       - Register, returns the API key once
	POST /issues[.json|.xml]      - Create issue (acting user required)
	GET  /issues/{id}[.json|.xml] - Issue with journal

Polls:

	GET    /polls/new?issue={id}
	POST   /polls[.json|.xml]
	GET    /polls/by_issue/{issue_id}[.json|.xml]
	GET    /polls/{id}/edit
	GET    /polls/{id}[.json|.xml]
	PATCH  /polls/{id}[.json|.xml]  (also PUT, and POST from forms)
	DELETE /polls/{id}[.json|.xml]
	POST   /polls/{id}/vote[.json|.xml]

Writes answer 401 without an acting user.
*/
package router
