package repository

import "errors"

// Common repository errors
var (
	// ErrCardNotFound is returned when a card is not found
	ErrCardNotFound = errors.New("card not found")

	// ErrListNotFound is returned when a list is not found
	ErrListNotFound = errors.New("list not found")

	// ErrCommentNotFound is returned when a comment is not found
	ErrCommentNotFound = errors.New("comment not found")

	// ErrInvitationNotFound is returned when an invitation is not found
	ErrInvitationNotFound = errors.New("invitation not found")

	// ErrCardsNotInBoard aborts a batch move when any referenced card is
	// missing or belongs to a different board
	ErrCardsNotInBoard = errors.New("some cards were not found or do not belong to the specified board")

	// ErrListNotInBoard is returned when a card targets a list of a
	// different board
	ErrListNotInBoard = errors.New("list does not belong to the card's board")

	// ErrInvitationDecided is returned when responding to an invitation
	// that was already accepted or rejected
	ErrInvitationDecided = errors.New("invitation has already been responded to")
)
