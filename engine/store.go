package engine

import "campusbarter/objects"

// Store is the persistence contract the negotiation engine runs on. The
// production implementation is repository.Repository; tests use an
// in-memory double. Lookups return (nil, nil) when the row does not exist.
type Store interface {
	// WithinTx runs fn inside one transaction: every row read through the
	// TxStore is locked for update, and all writes commit together or not
	// at all. A non-nil error from fn rolls the transaction back.
	WithinTx(fn func(tx TxStore) error) error

	FindUser(id string) (*objects.User, error)
	GetItem(id string) (*objects.Item, error)
	GetExchange(id string) (*objects.Exchange, error)
	FindExchangesByUser(userID, role string) ([]*objects.Exchange, error)
	CreateMessage(m *objects.Message) error
	FindMessagesByExchange(exchangeID string) ([]*objects.Message, error)
}

// TxStore is the view of the store inside one transaction.
type TxStore interface {
	GetItemForUpdate(id string) (*objects.Item, error)
	GetExchangeForUpdate(id string) (*objects.Exchange, error)
	CreateExchange(e *objects.Exchange) error
	UpdateExchange(e *objects.Exchange) error
	UpdateItem(i *objects.Item) error

	// HasDuplicatePending reports whether a PENDING exchange already exists
	// for the exact (requester, target item, offered item or null) tuple.
	HasDuplicatePending(requesterID, targetItemID string, offeredItemID *string) (bool, error)

	// FindPendingByTargetItem returns all PENDING exchanges targeting the
	// item, excluding the given exchange id. Rows come back locked.
	FindPendingByTargetItem(targetItemID, excludeExchangeID string) ([]*objects.Exchange, error)

	// FindPendingReferencingItem returns all PENDING exchanges that use the
	// item as either their target or their offered item, excluding the
	// given exchange id. Rows come back locked.
	FindPendingReferencingItem(itemID, excludeExchangeID string) ([]*objects.Exchange, error)
}
