package engine

import (
	"sort"
	"sync"

	"campusbarter/objects"
)

// fakeStore is an in-memory Store double with transaction semantics: each
// WithinTx call works on a deep copy of the committed state, serialized by
// a mutex, and a non-nil error from fn discards the copy. Reads inside the
// transaction hand out clones, so a mutation only sticks once it is written
// back through UpdateItem or UpdateExchange.
type fakeStore struct {
	mu        sync.Mutex
	users     map[string]*objects.User
	items     map[string]*objects.Item
	exchanges map[string]*objects.Exchange
	messages  []*objects.Message
}

var (
	_ Store   = (*fakeStore)(nil)
	_ TxStore = (*fakeTx)(nil)
)

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     map[string]*objects.User{},
		items:     map[string]*objects.Item{},
		exchanges: map[string]*objects.Exchange{},
	}
}

func cloneItem(i *objects.Item) *objects.Item {
	c := *i
	return &c
}

func cloneExchange(e *objects.Exchange) *objects.Exchange {
	c := *e
	if e.OfferedItemID != nil {
		v := *e.OfferedItemID
		c.OfferedItemID = &v
	}
	if e.MeetupLocationID != nil {
		v := *e.MeetupLocationID
		c.MeetupLocationID = &v
	}
	return &c
}

func (f *fakeStore) addUser(u *objects.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = u
}

func (f *fakeStore) addItem(i *objects.Item) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[i.ID] = cloneItem(i)
}

func (f *fakeStore) addExchange(e *objects.Exchange) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exchanges[e.ID] = cloneExchange(e)
}

func (f *fakeStore) removeItem(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id)
}

func (f *fakeStore) itemStatus(id string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i, ok := f.items[id]; ok {
		return i.Status
	}
	return ""
}

func (f *fakeStore) exchangeByID(id string) *objects.Exchange {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.exchanges[id]; ok {
		return cloneExchange(e)
	}
	return nil
}

func (f *fakeStore) WithinTx(fn func(tx TxStore) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	tx := &fakeTx{
		items:     map[string]*objects.Item{},
		exchanges: map[string]*objects.Exchange{},
	}
	for id, i := range f.items {
		tx.items[id] = cloneItem(i)
	}
	for id, e := range f.exchanges {
		tx.exchanges[id] = cloneExchange(e)
	}

	if err := fn(tx); err != nil {
		return err
	}

	f.items = tx.items
	f.exchanges = tx.exchanges
	return nil
}

func (f *fakeStore) FindUser(id string) (*objects.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id], nil
}

func (f *fakeStore) GetItem(id string) (*objects.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i, ok := f.items[id]; ok {
		return cloneItem(i), nil
	}
	return nil, nil
}

func (f *fakeStore) GetExchange(id string) (*objects.Exchange, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.exchanges[id]; ok {
		return cloneExchange(e), nil
	}
	return nil, nil
}

func (f *fakeStore) FindExchangesByUser(userID, role string) ([]*objects.Exchange, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []*objects.Exchange
	for _, e := range f.exchanges {
		if (role == RoleRequester && e.RequesterID == userID) ||
			(role == RoleOwner && e.OwnerID == userID) {
			result = append(result, cloneExchange(e))
		}
	}
	sort.Slice(result, func(a, b int) bool {
		return result[a].CreatedAt.After(result[b].CreatedAt)
	})
	return result, nil
}

func (f *fakeStore) CreateMessage(m *objects.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, m)
	return nil
}

func (f *fakeStore) FindMessagesByExchange(exchangeID string) ([]*objects.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []*objects.Message
	for _, m := range f.messages {
		if m.ExchangeID == exchangeID {
			result = append(result, m)
		}
	}
	sort.Slice(result, func(a, b int) bool {
		return result[a].CreatedAt.Before(result[b].CreatedAt)
	})
	return result, nil
}

// fakeTx is the uncommitted view of one fakeStore transaction
type fakeTx struct {
	items     map[string]*objects.Item
	exchanges map[string]*objects.Exchange
}

func (t *fakeTx) GetItemForUpdate(id string) (*objects.Item, error) {
	if i, ok := t.items[id]; ok {
		return cloneItem(i), nil
	}
	return nil, nil
}

func (t *fakeTx) GetExchangeForUpdate(id string) (*objects.Exchange, error) {
	if e, ok := t.exchanges[id]; ok {
		return cloneExchange(e), nil
	}
	return nil, nil
}

func (t *fakeTx) CreateExchange(e *objects.Exchange) error {
	t.exchanges[e.ID] = cloneExchange(e)
	return nil
}

func (t *fakeTx) UpdateExchange(e *objects.Exchange) error {
	t.exchanges[e.ID] = cloneExchange(e)
	return nil
}

func (t *fakeTx) UpdateItem(i *objects.Item) error {
	t.items[i.ID] = cloneItem(i)
	return nil
}

func (t *fakeTx) HasDuplicatePending(requesterID, targetItemID string, offeredItemID *string) (bool, error) {
	for _, e := range t.exchanges {
		if e.Status != objects.ExchangeStatusPending {
			continue
		}
		if e.RequesterID != requesterID || e.TargetItemID != targetItemID {
			continue
		}
		if offeredItemID == nil && e.OfferedItemID == nil {
			return true, nil
		}
		if offeredItemID != nil && e.OfferedItemID != nil && *offeredItemID == *e.OfferedItemID {
			return true, nil
		}
	}
	return false, nil
}

func (t *fakeTx) FindPendingByTargetItem(targetItemID, excludeExchangeID string) ([]*objects.Exchange, error) {
	return t.findPending(func(e *objects.Exchange) bool {
		return e.TargetItemID == targetItemID
	}, excludeExchangeID), nil
}

func (t *fakeTx) FindPendingReferencingItem(itemID, excludeExchangeID string) ([]*objects.Exchange, error) {
	return t.findPending(func(e *objects.Exchange) bool {
		if e.TargetItemID == itemID {
			return true
		}
		return e.OfferedItemID != nil && *e.OfferedItemID == itemID
	}, excludeExchangeID), nil
}

func (t *fakeTx) findPending(match func(*objects.Exchange) bool, excludeExchangeID string) []*objects.Exchange {
	var result []*objects.Exchange
	for _, e := range t.exchanges {
		if e.Status != objects.ExchangeStatusPending || e.ID == excludeExchangeID {
			continue
		}
		if match(e) {
			result = append(result, cloneExchange(e))
		}
	}
	sort.Slice(result, func(a, b int) bool {
		return result[a].CreatedAt.Before(result[b].CreatedAt)
	})
	return result
}
