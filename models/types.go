// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/xml"
	"time"
)

// Create response status markers
const (
	StatusOK    = "ok"
	StatusExist = "exist"
)

// NoVote is the submitted value that clears a user's vote on an item.
// It is never stored.
const NoVote = 0

// Request types

// ItemDirective is one entry of the item list sent on create/update.
// A directive without ID adds a new item; with ID it edits or removes one.
// Absent fields leave the stored values alone.
type ItemDirective struct {
	ID       *int64      `json:"id,omitempty" xml:"id"`
	Text     *string     `json:"text,omitempty" xml:"text"`
	Position *int        `json:"position,omitempty" xml:"position"`
	Destroy  DestroyFlag `json:"_destroy,omitempty" xml:"_destroy"`
}

// PositionOr returns the directive's position or fallback when none was sent
func (d ItemDirective) PositionOr(fallback int) int {
	if d.Position == nil {
		return fallback
	}
	return *d.Position
}

// PollRequest is the body of create and update. The XML root name is not
// checked.
type PollRequest struct {
	IssueID int64           `json:"issue_id" xml:"issue_id"`
	Items   []ItemDirective `json:"items" xml:"items>item"`
}

// item_id -> value. XML bodies carry <votes><vote item_id="N">value</vote></votes>.
type VoteRequest struct {
	Votes   map[string]VoteInput `json:"votes" xml:"-"`
	Entries []VoteEntry          `json:"-" xml:"votes>vote"`
	Comment string               `json:"comment" xml:"comment"`
}

type VoteEntry struct {
	ItemID string    `xml:"item_id,attr"`
	Value  VoteInput `xml:",chardata"`
}

type CreateUserRequest struct {
	Login     string `json:"login"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

type CreateIssueRequest struct {
	Subject string `json:"subject"`
	Project string `json:"project"`
}

// Response types

type CreatePollResponse struct {
	XMLName xml.Name `json:"-" xml:"result"`
	Status  string   `json:"status" xml:"status"`
	Poll    *Poll    `json:"poll" xml:"scheduling_poll"`
}

// PollEnvelope wraps a poll for JSON. In XML the poll itself is the root.
type PollEnvelope struct {
	Poll *Poll `json:"scheduling_poll"`
}

func (e PollEnvelope) MarshalXML(enc *xml.Encoder, start xml.StartElement) error {
	return enc.EncodeElement(e.Poll, xml.StartElement{Name: xml.Name{Local: "scheduling_poll"}})
}

type CreateUserResponse struct {
	XMLName xml.Name `json:"-" xml:"result"`
	User    *User    `json:"user" xml:"user"`
	APIKey  string   `json:"api_key" xml:"api_key"`
}

// IssueEnvelope wraps an issue for JSON. In XML the issue itself is the root.
type IssueEnvelope struct {
	Issue *Issue `json:"issue"`
}

func (e IssueEnvelope) MarshalXML(enc *xml.Encoder, start xml.StartElement) error {
	return enc.EncodeElement(e.Issue, xml.StartElement{Name: xml.Name{Local: "issue"}})
}

// Domain types

type User struct {
	XMLName   xml.Name  `json:"-" xml:"user"`
	ID        int64     `json:"id" xml:"id,attr"`
	Login     string    `json:"login,omitempty" xml:"login,attr,omitempty"`
	Firstname string    `json:"-" xml:"-"`
	Lastname  string    `json:"-" xml:"-"`
	Name      string    `json:"name" xml:"name,attr"`
	CreatedAt time.Time `json:"-" xml:"-"`
}

// DisplayName returns "Firstname Lastname", falling back to the login.
func (u *User) DisplayName() string {
	switch {
	case u.Firstname != "" && u.Lastname != "":
		return u.Firstname + " " + u.Lastname
	case u.Firstname != "":
		return u.Firstname
	case u.Lastname != "":
		return u.Lastname
	}
	return u.Login
}

type Journal struct {
	XMLName   xml.Name  `json:"-" xml:"journal"`
	ID        int64     `json:"id" xml:"id,attr"`
	User      *User     `json:"user" xml:"user"`
	Notes     string    `json:"notes" xml:"notes"`
	CreatedAt time.Time `json:"created_on" xml:"created_on"`
}

type Issue struct {
	XMLName   xml.Name  `json:"-" xml:"issue"`
	ID        int64     `json:"id" xml:"id,attr"`
	Subject   string    `json:"subject" xml:"subject,attr"`
	Project   string    `json:"project,omitempty" xml:"project,attr,omitempty"`
	CreatedAt time.Time `json:"-" xml:"-"`
	Journals  []Journal `json:"journals,omitempty" xml:"journals>journal,omitempty"`
}

type Poll struct {
	XMLName   xml.Name  `json:"-" xml:"scheduling_poll"`
	ID        int64     `json:"id" xml:"id"`
	IssueID   int64     `json:"-" xml:"-"`
	Issue     *Issue    `json:"issue" xml:"issue"`
	CreatedAt time.Time `json:"created_on" xml:"created_on"`
	UpdatedAt time.Time `json:"updated_on" xml:"updated_on"`
	Items     []Item    `json:"scheduling_poll_items" xml:"scheduling_poll_items>scheduling_poll_item"`
}

type Item struct {
	ID       int64  `json:"id" xml:"id"`
	PollID   int64  `json:"-" xml:"-"`
	Text     string `json:"text" xml:"text"`
	Position int    `json:"position" xml:"position"`
	Votes    []Vote `json:"scheduling_votes" xml:"scheduling_votes>scheduling_vote"`
}

type Vote struct {
	ID        int64     `json:"-" xml:"-"`
	ItemID    int64     `json:"-" xml:"-"`
	User      *User     `json:"user" xml:"user"`
	Value     VoteValue `json:"value" xml:"value"`
	Comment   string    `json:"comment,omitempty" xml:"comment,omitempty"`
	UpdatedAt time.Time `json:"-" xml:"-"`
}

// VoteValue pairs a raw vote value with its configured label.
type VoteValue struct {
	Value int    `json:"value" xml:"value"`
	Text  string `json:"text" xml:"text"`
}

// VoteByUser returns the user's vote on the item, or nil.
func (it *Item) VoteByUser(userID int64) *Vote {
	for i := range it.Votes {
		if it.Votes[i].User != nil && it.Votes[i].User.ID == userID {
			return &it.Votes[i]
		}
	}
	return nil
}

// VoteValueByUser returns the user's vote value on the item.
func (it *Item) VoteValueByUser(userID int64) (int, bool) {
	v := it.VoteByUser(userID)
	if v == nil {
		return NoVote, false
	}
	return v.Value.Value, true
}

// Tally counts the votes cast on the item per value.
func (it *Item) Tally() map[int]int {
	tally := make(map[int]int)
	for _, v := range it.Votes {
		tally[v.Value.Value]++
	}
	return tally
}

// Voters returns the distinct users that voted on any item of the poll,
// in order of first appearance.
func (p *Poll) Voters() []*User {
	seen := make(map[int64]bool)
	var users []*User
	for _, it := range p.Items {
		for _, v := range it.Votes {
			if v.User == nil || seen[v.User.ID] {
				continue
			}
			seen[v.User.ID] = true
			users = append(users, v.User)
		}
	}
	return users
}

// Error response

type ErrorResponse struct {
	XMLName xml.Name `json:"-" xml:"errors"`
	Error   string   `json:"error" xml:"error"`
	Message string   `json:"message,omitempty" xml:"message,omitempty"`
}
