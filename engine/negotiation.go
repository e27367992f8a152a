package engine

import (
	"log"
	"strings"
	"time"

	"campusbarter/apperr"
	"campusbarter/metrics"
	"campusbarter/objects"
)

// Create validates and inserts a new PENDING exchange. Preconditions are
// checked in order and the first failure wins; items are not touched.
func (eng *Engine) Create(requesterID, targetItemID string, offeredItemID *string, message string) (*objects.Exchange, error) {
	log.Printf("[ENGINE] Creating exchange: requester=%s, target=%s", requesterID, targetItemID)

	var created *objects.Exchange
	err := eng.store.WithinTx(func(tx TxStore) error {
		target, err := tx.GetItemForUpdate(targetItemID)
		if err != nil {
			return err
		}
		if target == nil {
			return apperr.E(apperr.NotFound, "target item not found")
		}
		if target.Status != objects.ItemStatusAvailable {
			return apperr.E(apperr.InvalidState, "target item is not available")
		}
		if target.OwnerID == requesterID {
			return apperr.E(apperr.InvalidState, "cannot request an exchange for your own item")
		}

		if offeredItemID != nil {
			offered, err := tx.GetItemForUpdate(*offeredItemID)
			if err != nil {
				return err
			}
			if offered == nil || offered.OwnerID != requesterID {
				return apperr.E(apperr.InvalidInput, "offered item does not exist or is not yours")
			}
			if offered.Status != objects.ItemStatusAvailable {
				return apperr.E(apperr.InvalidState, "offered item is not available")
			}
		}

		dup, err := tx.HasDuplicatePending(requesterID, targetItemID, offeredItemID)
		if err != nil {
			return err
		}
		if dup {
			return apperr.E(apperr.Conflict, "duplicate request: an identical exchange is still pending")
		}

		created = objects.NewExchange(requesterID, target.OwnerID, targetItemID, offeredItemID, message)
		return tx.CreateExchange(created)
	})
	if err != nil {
		log.Printf("[ENGINE] Create exchange failed: %v", err)
		return nil, err
	}

	log.Printf("[ENGINE] Exchange %s created (requester=%s, owner=%s)", created.ID, created.RequesterID, created.OwnerID)
	return created, nil
}

// UpdateStatus applies an owner decision (accept or reject) to a pending
// exchange. Accept is two-phase: both items are checked before any row is
// written, then the exchange, the items and every cascaded rejection commit
// as a single unit.
func (eng *Engine) UpdateStatus(actorID, exchangeID, action string, meetupLocationID *int) (*EnrichedExchange, error) {
	log.Printf("[ENGINE] Updating exchange %s: action=%s, actor=%s", exchangeID, action, actorID)

	if action != ActionAccept && action != ActionReject {
		return nil, apperr.Ef(apperr.InvalidInput, "unknown action %q", action)
	}

	err := eng.store.WithinTx(func(tx TxStore) error {
		exchange, err := tx.GetExchangeForUpdate(exchangeID)
		if err != nil {
			return err
		}
		if exchange == nil {
			return apperr.E(apperr.NotFound, "exchange not found")
		}
		if exchange.OwnerID != actorID {
			return apperr.E(apperr.PermissionDenied, "only the item owner can accept or reject")
		}
		if exchange.Status != objects.ExchangeStatusPending {
			return apperr.E(apperr.InvalidState, "only pending exchanges can be accepted or rejected")
		}

		if action == ActionReject {
			exchange.Status = objects.ExchangeStatusRejected
			exchange.UpdatedAt = time.Now().UTC()
			return tx.UpdateExchange(exchange)
		}

		return eng.accept(tx, exchange, meetupLocationID)
	})
	if err != nil {
		log.Printf("[ENGINE] Update exchange %s failed: %v", exchangeID, err)
		return nil, err
	}

	log.Printf("[ENGINE] Exchange %s %sed", exchangeID, action)
	return eng.enrichByID(exchangeID)
}

// accept runs inside the caller's transaction. Check phase first: every
// precondition on both items must hold before any write happens, so a late
// failure can never leave one item half-mutated.
func (eng *Engine) accept(tx TxStore, exchange *objects.Exchange, meetupLocationID *int) error {
	if meetupLocationID == nil {
		return apperr.E(apperr.InvalidInput, "a meetup location is required to accept")
	}
	if _, ok := objects.LocationName(*meetupLocationID); !ok {
		return apperr.Ef(apperr.InvalidInput, "unknown meetup location %d", *meetupLocationID)
	}

	target, err := tx.GetItemForUpdate(exchange.TargetItemID)
	if err != nil {
		return err
	}
	if target == nil {
		return apperr.E(apperr.NotFound, "target item not found")
	}
	if target.Status != objects.ItemStatusAvailable {
		return apperr.E(apperr.InvalidState, "target item is no longer available")
	}

	// A vanished offered item is tolerated and skipped (treated as already
	// consumed); an offered item that still exists must be available.
	var offered *objects.Item
	if exchange.OfferedItemID != nil {
		offered, err = tx.GetItemForUpdate(*exchange.OfferedItemID)
		if err != nil {
			return err
		}
		if offered != nil && offered.Status != objects.ItemStatusAvailable {
			return apperr.E(apperr.InvalidState, "offered item is no longer available")
		}
	}

	// Commit phase. From here on every write must succeed or the whole
	// transaction rolls back, cascade included.
	now := time.Now().UTC()
	exchange.Status = objects.ExchangeStatusAccepted
	exchange.MeetupLocationID = meetupLocationID
	exchange.UpdatedAt = now
	if err := tx.UpdateExchange(exchange); err != nil {
		return err
	}

	target.Status = objects.ItemStatusTrading
	if err := tx.UpdateItem(target); err != nil {
		return err
	}

	losers, err := tx.FindPendingByTargetItem(exchange.TargetItemID, exchange.ID)
	if err != nil {
		return err
	}

	if offered != nil {
		offered.Status = objects.ItemStatusTrading
		if err := tx.UpdateItem(offered); err != nil {
			return err
		}
		// The offered item is no longer free either: every pending exchange
		// that references it, on either side, is now impossible.
		more, err := tx.FindPendingReferencingItem(*exchange.OfferedItemID, exchange.ID)
		if err != nil {
			return err
		}
		losers = append(losers, more...)
	}

	cascaded := 0
	seen := map[string]bool{}
	for _, other := range losers {
		if seen[other.ID] {
			continue
		}
		seen[other.ID] = true

		other.Status = objects.ExchangeStatusRejected
		if other.Message != "" {
			other.Message += cascadeNote
		} else {
			other.Message = strings.TrimSpace(cascadeNote)
		}
		other.UpdatedAt = now
		if err := tx.UpdateExchange(other); err != nil {
			return err
		}
		cascaded++
	}

	if cascaded > 0 {
		log.Printf("[ENGINE] Cascade-rejected %d pending exchanges for exchange %s", cascaded, exchange.ID)
		metrics.RecordCascadeRejections(cascaded)
	}
	return nil
}

// Cancel withdraws an exchange. Either party may cancel; cancelling an
// accepted exchange reverses the accept side effects on both items.
func (eng *Engine) Cancel(actorID, exchangeID string) (*EnrichedExchange, error) {
	log.Printf("[ENGINE] Cancelling exchange %s by user %s", exchangeID, actorID)

	err := eng.store.WithinTx(func(tx TxStore) error {
		exchange, err := tx.GetExchangeForUpdate(exchangeID)
		if err != nil {
			return err
		}
		if exchange == nil {
			return apperr.E(apperr.NotFound, "exchange not found")
		}
		if !exchange.IsParty(actorID) {
			return apperr.E(apperr.PermissionDenied, "only the requester or the owner can cancel")
		}

		switch exchange.Status {
		case objects.ExchangeStatusPending:
			// nothing was promised yet, items stay untouched
		case objects.ExchangeStatusAccepted:
			if err := eng.restoreItems(tx, exchange); err != nil {
				return err
			}
		default:
			return apperr.E(apperr.InvalidState, "only pending or accepted exchanges can be cancelled")
		}

		exchange.Status = objects.ExchangeStatusCancelled
		exchange.UpdatedAt = time.Now().UTC()
		return tx.UpdateExchange(exchange)
	})
	if err != nil {
		log.Printf("[ENGINE] Cancel exchange %s failed: %v", exchangeID, err)
		return nil, err
	}

	log.Printf("[ENGINE] Exchange %s cancelled", exchangeID)
	return eng.enrichByID(exchangeID)
}

// restoreItems puts the items of an accepted exchange back on the market.
// Rows that vanished in the meantime are skipped, matching the tolerance on
// the accept path.
func (eng *Engine) restoreItems(tx TxStore, exchange *objects.Exchange) error {
	target, err := tx.GetItemForUpdate(exchange.TargetItemID)
	if err != nil {
		return err
	}
	if target != nil {
		target.Status = objects.ItemStatusAvailable
		if err := tx.UpdateItem(target); err != nil {
			return err
		}
	}

	if exchange.OfferedItemID == nil {
		return nil
	}
	offered, err := tx.GetItemForUpdate(*exchange.OfferedItemID)
	if err != nil {
		return err
	}
	if offered != nil {
		offered.Status = objects.ItemStatusAvailable
		if err := tx.UpdateItem(offered); err != nil {
			return err
		}
	}
	return nil
}

// Confirm records one party's completion confirmation. The exchange turns
// COMPLETED atomically with the second confirmation, and both items become
// TRADED in the same transaction.
func (eng *Engine) Confirm(actorID, exchangeID string) (*EnrichedExchange, error) {
	log.Printf("[ENGINE] Confirming exchange %s by user %s", exchangeID, actorID)

	err := eng.store.WithinTx(func(tx TxStore) error {
		exchange, err := tx.GetExchangeForUpdate(exchangeID)
		if err != nil {
			return err
		}
		if exchange == nil {
			return apperr.E(apperr.NotFound, "exchange not found")
		}
		if exchange.Status != objects.ExchangeStatusAccepted {
			return apperr.E(apperr.InvalidState, "only accepted exchanges can be confirmed")
		}
		if !exchange.IsParty(actorID) {
			return apperr.E(apperr.PermissionDenied, "only the requester or the owner can confirm")
		}

		if actorID == exchange.RequesterID {
			exchange.RequesterConfirmed = true
		} else {
			exchange.OwnerConfirmed = true
		}

		if exchange.RequesterConfirmed && exchange.OwnerConfirmed {
			exchange.Status = objects.ExchangeStatusCompleted
			if err := eng.markItemsTraded(tx, exchange); err != nil {
				return err
			}
		}

		exchange.UpdatedAt = time.Now().UTC()
		return tx.UpdateExchange(exchange)
	})
	if err != nil {
		log.Printf("[ENGINE] Confirm exchange %s failed: %v", exchangeID, err)
		return nil, err
	}

	log.Printf("[ENGINE] Exchange %s confirmed by %s", exchangeID, actorID)
	return eng.enrichByID(exchangeID)
}

func (eng *Engine) markItemsTraded(tx TxStore, exchange *objects.Exchange) error {
	target, err := tx.GetItemForUpdate(exchange.TargetItemID)
	if err != nil {
		return err
	}
	if target != nil {
		target.Status = objects.ItemStatusTraded
		if err := tx.UpdateItem(target); err != nil {
			return err
		}
	}

	if exchange.OfferedItemID == nil {
		return nil
	}
	offered, err := tx.GetItemForUpdate(*exchange.OfferedItemID)
	if err != nil {
		return err
	}
	if offered != nil {
		offered.Status = objects.ItemStatusTraded
		if err := tx.UpdateItem(offered); err != nil {
			return err
		}
	}
	return nil
}
