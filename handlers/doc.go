// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for scheduling polls.

# Handler Types

Each handler is a struct over the store, the page renderer and a logger:

  - PollHandler: poll lifecycle (new, create, edit, update, show, destroy)
  - VotingHandler: vote submission
  - IssueHandler: the issues polls are attached to
  - UserHandler: user registration and API keys

	pollHandler := handlers.NewPollHandler(st, renderer, logger)

# Formats

Every handler answers HTML by default and JSON or XML when the route's
format suffix (.json, .xml), the format parameter or Accept asks for it.
Browsers get 303 redirects with a flash notice after a write; API clients
get 201/200 bodies on create and 204 with an empty body on update, vote
and destroy. new and edit are forms and answer 406 to API requests.

# Poll Lifecycle

	GET    /polls/new?issue={id}     → New (redirects if the issue has a poll)
	POST   /polls                    → Create ("ok" 201, or "exist" 200)
	GET    /polls/{id}/edit          → Edit
	PATCH  /polls/{id}               → Update (POST from the HTML form)
	GET    /polls/{id}               → Show
	GET    /polls/by_issue/{issue}   → ShowByIssue
	DELETE /polls/{id}               → Destroy

Update applies item directives {id?, text?, position?, _destroy?} in one
transaction. Omitted fields keep the stored values. A target issue that already has a poll, or an item id from
another poll, rejects the whole update with 422.

# Voting

	POST /polls/{id}/vote → Vote

Form fields are scheduling_vote[<item id>] and vote_comment; JSON bodies
are {"votes": {"<item id>": value}, "comment": "..."} with numeric or
string values; XML bodies carry <vote item_id="N">value</vote> entries. Value 0 clears a
vote. A submission that changes nothing answers 422.

# Store Errors

Store sentinel errors map onto statuses: ErrNotFound → 404; ErrNoChanges,
ErrPollExists, ErrItemNotInPoll, ErrUserExists → 422. Anything else is
logged and answered with 500.
*/
package handlers
