// Package engine implements the exchange negotiation state machine:
//
//	PENDING --accept(owner)--> ACCEPTED --confirm both--> COMPLETED
//	PENDING --reject(owner)--> REJECTED
//	PENDING --cancel(party)--> CANCELLED
//	ACCEPTED --cancel(party)--> CANCELLED (items restored)
//	PENDING --cascade(system)--> REJECTED
//
// The engine owns no rows itself; it coordinates Item and Exchange writes
// inside one transaction per operation.
package engine

import "log"

// Roles a user can hold on an exchange when listing their negotiations
const (
	RoleRequester = "requester"
	RoleOwner     = "owner"
)

// Actions the item owner can take on a pending exchange
const (
	ActionAccept = "accept"
	ActionReject = "reject"
)

// cascadeNote is appended (never overwriting) to the message of every
// exchange rejected as a side effect of an accept.
const cascadeNote = " (system note: the item was promised to another exchange, so this request was closed automatically)"

type Engine struct {
	store Store
}

func New(store Store) *Engine {
	log.Println("[ENGINE] Negotiation engine initialized")
	return &Engine{store: store}
}
