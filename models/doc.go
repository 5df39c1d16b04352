// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

  - Issue: the tracker ticket a poll is attached to, with its journals
  - User: an acting user, identified by an API key
  - Poll: one scheduling poll per issue
  - Item: an ordered option inside a poll
  - Vote: one user's value and comment for one item
  - VoteValue: raw value plus its configured label

Items carry lookup helpers used by handlers and templates:

	vote := item.VoteByUser(user.ID)
	value, ok := item.VoteValueByUser(user.ID)
	counts := item.Tally()

# Vote Values

VoteValues maps each storable value to a label. It is built from
configuration and passed to handlers explicitly:

	vv, err := models.ParseVoteValues("1=×,2=△,3=○")
	vv.Label(3) // "○"

The value NoVote (0) is reserved: submitting it clears a vote.

# Request Types

  - PollRequest: issue_id plus item directives, for create and update
  - ItemDirective: id, text, position, _destroy; omitted fields are nil
  - VoteRequest: votes (item id -> value) and a shared comment; XML bodies
    fill Entries instead of Votes
  - CreateUserRequest, CreateIssueRequest

DestroyFlag accepts a scalar or a list and is true if any element is truthy.
VoteInput accepts a number or a numeric string; anything else is not Valid.

# Response Types

  - PollEnvelope: {"scheduling_poll": ...}
  - CreatePollResponse: {"status": "ok"|"exist", "poll": ...}
  - ErrorResponse: error, message

All response types also marshal to XML.
*/
package models
