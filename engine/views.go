package engine

import (
	"time"

	"campusbarter/apperr"
	"campusbarter/objects"
)

// UserSummary is the slice of a user shown inside exchange views.
type UserSummary struct {
	ID        string `json:"user_id"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatar_url"`
}

// ItemSummary is the slice of an item shown inside exchange views.
type ItemSummary struct {
	ID         string `json:"item_id"`
	Title      string `json:"title"`
	CoverImage string `json:"cover_image"`
	Status     string `json:"status"`
}

// DealInfo is present only once an exchange has been accepted with a
// meetup location.
type DealInfo struct {
	MeetupLocation objects.Location `json:"meetup_location"`
	AcceptedAt     time.Time        `json:"accepted_at"`
}

// EnrichedExchange joins an exchange with its parties and items. Pure
// projection; assembling it never mutates state.
type EnrichedExchange struct {
	ID                 string       `json:"id"`
	Status             string       `json:"status"`
	Message            string       `json:"message"`
	RequesterConfirmed bool         `json:"requester_confirmed"`
	OwnerConfirmed     bool         `json:"owner_confirmed"`
	Requester          UserSummary  `json:"requester"`
	Owner              UserSummary  `json:"owner"`
	TargetItem         ItemSummary  `json:"target_item"`
	OfferedItem        *ItemSummary `json:"offered_item"`
	DealInfo           *DealInfo    `json:"deal_info"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// ListEntry is one row of a user's exchange list, shown from that user's
// perspective: the partner is the other party.
type ListEntry struct {
	ExchangeID  string       `json:"exchange_id"`
	Status      string       `json:"status"`
	Partner     UserSummary  `json:"partner"`
	TargetItem  ItemSummary  `json:"target_item"`
	OfferedItem *ItemSummary `json:"offered_item"`
}

// Detail returns the enriched view of one exchange to one of its parties.
func (eng *Engine) Detail(actorID, exchangeID string) (*EnrichedExchange, error) {
	exchange, err := eng.store.GetExchange(exchangeID)
	if err != nil {
		return nil, err
	}
	if exchange == nil {
		return nil, apperr.E(apperr.NotFound, "exchange not found")
	}
	if !exchange.IsParty(actorID) {
		return nil, apperr.E(apperr.PermissionDenied, "not a party of this exchange")
	}
	return eng.enrich(exchange)
}

// ForUser lists a user's exchanges in the given role (requester or owner).
func (eng *Engine) ForUser(userID, role string) ([]*ListEntry, error) {
	if role != RoleRequester && role != RoleOwner {
		return nil, apperr.Ef(apperr.InvalidInput, "unknown role %q", role)
	}

	exchanges, err := eng.store.FindExchangesByUser(userID, role)
	if err != nil {
		return nil, err
	}

	entries := make([]*ListEntry, 0, len(exchanges))
	for _, exchange := range exchanges {
		view, err := eng.enrich(exchange)
		if err != nil {
			return nil, err
		}
		partner := view.Owner
		if role == RoleOwner {
			partner = view.Requester
		}
		entries = append(entries, &ListEntry{
			ExchangeID:  view.ID,
			Status:      view.Status,
			Partner:     partner,
			TargetItem:  view.TargetItem,
			OfferedItem: view.OfferedItem,
		})
	}
	return entries, nil
}

// ListLocations returns the static meetup location table.
func (eng *Engine) ListLocations() []objects.Location {
	return objects.Locations()
}

func (eng *Engine) enrichByID(exchangeID string) (*EnrichedExchange, error) {
	exchange, err := eng.store.GetExchange(exchangeID)
	if err != nil {
		return nil, err
	}
	if exchange == nil {
		return nil, apperr.E(apperr.NotFound, "exchange not found")
	}
	return eng.enrich(exchange)
}

func (eng *Engine) enrich(exchange *objects.Exchange) (*EnrichedExchange, error) {
	requester, err := eng.store.FindUser(exchange.RequesterID)
	if err != nil {
		return nil, err
	}
	owner, err := eng.store.FindUser(exchange.OwnerID)
	if err != nil {
		return nil, err
	}
	if requester == nil || owner == nil {
		return nil, apperr.Ef(apperr.CorruptState, "exchange %s references a missing user", exchange.ID)
	}

	target, err := eng.store.GetItem(exchange.TargetItemID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, apperr.Ef(apperr.CorruptState, "exchange %s references a missing target item", exchange.ID)
	}

	view := &EnrichedExchange{
		ID:                 exchange.ID,
		Status:             exchange.Status,
		Message:            exchange.Message,
		RequesterConfirmed: exchange.RequesterConfirmed,
		OwnerConfirmed:     exchange.OwnerConfirmed,
		Requester:          userSummary(requester),
		Owner:              userSummary(owner),
		TargetItem:         itemSummary(target),
		CreatedAt:          exchange.CreatedAt,
		UpdatedAt:          exchange.UpdatedAt,
	}

	// An offered item that was deleted after the fact is simply omitted.
	if exchange.OfferedItemID != nil {
		offered, err := eng.store.GetItem(*exchange.OfferedItemID)
		if err != nil {
			return nil, err
		}
		if offered != nil {
			summary := itemSummary(offered)
			view.OfferedItem = &summary
		}
	}

	accepted := exchange.Status == objects.ExchangeStatusAccepted ||
		exchange.Status == objects.ExchangeStatusCompleted
	if accepted && exchange.MeetupLocationID != nil {
		name, ok := objects.LocationName(*exchange.MeetupLocationID)
		if !ok {
			name = "Unknown"
		}
		view.DealInfo = &DealInfo{
			MeetupLocation: objects.Location{ID: *exchange.MeetupLocationID, Name: name},
			AcceptedAt:     exchange.UpdatedAt,
		}
	}

	return view, nil
}

func userSummary(u *objects.User) UserSummary {
	return UserSummary{ID: u.ID, Nickname: u.Nickname, AvatarURL: u.AvatarURL}
}

func itemSummary(i *objects.Item) ItemSummary {
	return ItemSummary{ID: i.ID, Title: i.Title, CoverImage: i.ImageURL, Status: i.Status}
}
