// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store holds the persistence logic for polls, items and votes.

	s := store.New(conn, cfg.VoteValues)

# Polls

	poll, created, err := s.CreatePoll(ctx, issueID, items)
	err = s.UpdatePoll(ctx, pollID, issueID, items)
	poll, err = s.LoadPoll(ctx, pollID)
	pollID, err = s.PollIDByIssue(ctx, issueID)
	err = s.DeletePoll(ctx, pollID)

CreatePoll returns the existing poll with created == false when the issue
already has one. UpdatePoll runs the whole item reconciliation in one
transaction.

# Votes

	changes, err := s.SubmitVotes(ctx, pollID, userID, votes, comment)
	vote, err := s.VoteByUser(ctx, itemID, userID)

SubmitVotes returns ErrNoChanges when the submission matches what is
already stored.

# Errors

	ErrNotFound      issue, poll or user missing (wrapped with what was missing)
	ErrNoChanges     vote submission would not change anything
	ErrPollExists    the target issue already has a poll
	ErrItemNotInPoll an update directive names another poll's item
	ErrUserExists    duplicate login
*/
package store
