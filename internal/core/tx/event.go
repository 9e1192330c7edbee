package tx

import (
	"encoding/json"
	"errors"
)

// Event type names
const (
	EventInit                 = "init"
	EventOwnershipTransferred = "ownership_transferred"
	EventTreasurySet          = "treasury_set"
	EventGrantAccess          = "grant_access"
	EventRevokeAccess         = "revoke_access"
	EventMint                 = "mint"
	EventTransfer             = "transfer"
	EventBurn                 = "burn"
	EventMarketUpdate         = "market_update"
	EventMarketDelete         = "market_delete"
	EventBuy                  = "buy"
	EventWhitelistUpdate      = "whitelist_update"
	EventWhitelistAdd         = "whitelist_add"
	EventWhitelistRemove      = "whitelist_remove"
	EventLimitUpdate          = "limit_update"
	EventBidAdd               = "bid_add"
	EventBidDelete            = "bid_delete"
	EventBidAccept            = "bid_accept"
	EventPayment              = "payment"
)

// Event is one record of the append-only log. It serializes as a flat
// array: [type, field...].
type Event struct {
	Type   string
	Fields []string
}

// Record returns the event as [type, field...].
func (e Event) Record() []string {
	out := make([]string, 0, len(e.Fields)+1)
	out = append(out, e.Type)
	return append(out, e.Fields...)
}

func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Record())
}

func (e *Event) UnmarshalJSON(data []byte) error {
	var rec []string
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	if len(rec) == 0 {
		return errors.New("empty event record")
	}
	e.Type = rec[0]
	e.Fields = rec[1:]
	return nil
}

// EventSink receives the events of every committed transaction, in order.
type EventSink interface {
	Append(events []Event) error
}
