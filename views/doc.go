// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package views renders the HTML pages of the service.

Templates are embedded and parsed once at startup:

	renderer, err := views.New()
	err = renderer.Render(w, http.StatusOK, views.PageShow, views.ShowPage{...})

# Pages

  - show.html: vote table (one column per voter, one tally column per
    configured value) and, for a signed-in user, the voting form
  - form.html: new/edit form; item text inputs carry the
    scheduling_poll_item_text class and a value only for stored items
  - issue.html: an issue with its journal
  - error.html: status and message

Relative times ("3 minutes ago") come from go-humanize.
*/
package views
