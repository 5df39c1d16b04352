// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth identifies the acting user of a request.

# API Keys

API keys are random 24-byte (192-bit) secrets handed out once when a user
is created:

	key, err := auth.GenerateAPIKey()

Only an HMAC-SHA256 of the key is stored:

	hash := auth.HashAPIKey(key, salt)

# Presenting a Key

Clients send the key in one of three places, checked in order:

	X-API-Key: <key>
	?key=<key>
	Cookie: api_key=<key>

	key, err := auth.APIKeyFromRequest(r)

# Acting User

The authentication middleware resolves the key and stores the user in the
request context:

	ctx = auth.WithUser(ctx, user)
	user := auth.UserFromContext(r.Context()) // nil when anonymous
*/
package auth
