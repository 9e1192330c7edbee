package listing

import (
	"github.com/LeJamon/goMarketd/internal/core/market"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/holiman/uint256"
)

func init() {
	tx.Register(tx.TypeUpdateTokenPurchaseWhitelist, func() tx.Transaction {
		return &UpdateTokenPurchaseWhitelist{BaseTx: *tx.NewBaseTx(tx.TypeUpdateTokenPurchaseWhitelist, "")}
	})
	tx.Register(tx.TypeAddUserPurchaseWhitelist, func() tx.Transaction {
		return &AddUserPurchaseWhitelist{BaseTx: *tx.NewBaseTx(tx.TypeAddUserPurchaseWhitelist, "")}
	})
	tx.Register(tx.TypeAddUserPurchaseWhitelistBulk, func() tx.Transaction {
		return &AddUserPurchaseWhitelistBulk{BaseTx: *tx.NewBaseTx(tx.TypeAddUserPurchaseWhitelistBulk, "")}
	})
	tx.Register(tx.TypeRemoveUserPurchaseWhitelist, func() tx.Transaction {
		return &RemoveUserPurchaseWhitelist{BaseTx: *tx.NewBaseTx(tx.TypeRemoveUserPurchaseWhitelist, "")}
	})
	tx.Register(tx.TypeUpdateTokenPurchaseLimits, func() tx.Transaction {
		return &UpdateTokenPurchaseLimits{BaseTx: *tx.NewBaseTx(tx.TypeUpdateTokenPurchaseLimits, "")}
	})
}

// UpdateTokenPurchaseWhitelist switches the purchase whitelist of Token on
// or off. While on, only whitelisted buyers may buy and only the creator
// may list.
type UpdateTokenPurchaseWhitelist struct {
	tx.BaseTx

	Token   string `json:"Token"`
	Enabled bool   `json:"Enabled"`
}

// NewUpdateTokenPurchaseWhitelist creates a new UpdateTokenPurchaseWhitelist transaction
func NewUpdateTokenPurchaseWhitelist(account, token string, enabled bool) *UpdateTokenPurchaseWhitelist {
	return &UpdateTokenPurchaseWhitelist{
		BaseTx:  *tx.NewBaseTx(tx.TypeUpdateTokenPurchaseWhitelist, account),
		Token:   token,
		Enabled: enabled,
	}
}

func (u *UpdateTokenPurchaseWhitelist) TxType() tx.Type {
	return tx.TypeUpdateTokenPurchaseWhitelist
}

func (u *UpdateTokenPurchaseWhitelist) Validate() error {
	if err := u.BaseTx.Validate(); err != nil {
		return err
	}
	if err := tx.ValidateToken(u.Token); err != nil {
		return err
	}
	return nil
}

func (u *UpdateTokenPurchaseWhitelist) Apply(ctx *tx.ApplyContext) tx.Result {
	return market.UpdateTokenPurchaseWhitelist(ctx, u.Token, u.Enabled)
}

// AddUserPurchaseWhitelist allows Buyer to purchase Token.
type AddUserPurchaseWhitelist struct {
	tx.BaseTx

	Token string `json:"Token"`
	Buyer string `json:"Buyer"`
}

// NewAddUserPurchaseWhitelist creates a new AddUserPurchaseWhitelist transaction
func NewAddUserPurchaseWhitelist(account, token, buyer string) *AddUserPurchaseWhitelist {
	return &AddUserPurchaseWhitelist{
		BaseTx: *tx.NewBaseTx(tx.TypeAddUserPurchaseWhitelist, account),
		Token:  token,
		Buyer:  buyer,
	}
}

func (a *AddUserPurchaseWhitelist) TxType() tx.Type {
	return tx.TypeAddUserPurchaseWhitelist
}

func (a *AddUserPurchaseWhitelist) Validate() error {
	if err := a.BaseTx.Validate(); err != nil {
		return err
	}
	if err := tx.ValidateToken(a.Token); err != nil {
		return err
	}
	if a.Buyer == "" {
		return ErrBuyerRequired
	}
	return nil
}

func (a *AddUserPurchaseWhitelist) Apply(ctx *tx.ApplyContext) tx.Result {
	return market.AddUserPurchaseWhitelist(ctx, a.Token, a.Buyer)
}

// AddUserPurchaseWhitelistBulk allows every account in Buyers to purchase Token.
type AddUserPurchaseWhitelistBulk struct {
	tx.BaseTx

	Token  string   `json:"Token"`
	Buyers []string `json:"Buyers"`
}

// NewAddUserPurchaseWhitelistBulk creates a new AddUserPurchaseWhitelistBulk transaction
func NewAddUserPurchaseWhitelistBulk(account, token string, buyers []string) *AddUserPurchaseWhitelistBulk {
	return &AddUserPurchaseWhitelistBulk{
		BaseTx: *tx.NewBaseTx(tx.TypeAddUserPurchaseWhitelistBulk, account),
		Token:  token,
		Buyers: buyers,
	}
}

func (a *AddUserPurchaseWhitelistBulk) TxType() tx.Type {
	return tx.TypeAddUserPurchaseWhitelistBulk
}

func (a *AddUserPurchaseWhitelistBulk) Validate() error {
	if err := a.BaseTx.Validate(); err != nil {
		return err
	}
	if err := tx.ValidateToken(a.Token); err != nil {
		return err
	}
	if len(a.Buyers) == 0 {
		return ErrBuyersEmpty
	}
	for _, b := range a.Buyers {
		if b == "" {
			return ErrBuyerRequired
		}
	}
	return nil
}

func (a *AddUserPurchaseWhitelistBulk) Apply(ctx *tx.ApplyContext) tx.Result {
	return market.AddUserPurchaseWhitelist(ctx, a.Token, a.Buyers...)
}

// RemoveUserPurchaseWhitelist revokes Buyer's permission to purchase Token.
type RemoveUserPurchaseWhitelist struct {
	tx.BaseTx

	Token string `json:"Token"`
	Buyer string `json:"Buyer"`
}

// NewRemoveUserPurchaseWhitelist creates a new RemoveUserPurchaseWhitelist transaction
func NewRemoveUserPurchaseWhitelist(account, token, buyer string) *RemoveUserPurchaseWhitelist {
	return &RemoveUserPurchaseWhitelist{
		BaseTx: *tx.NewBaseTx(tx.TypeRemoveUserPurchaseWhitelist, account),
		Token:  token,
		Buyer:  buyer,
	}
}

func (r *RemoveUserPurchaseWhitelist) TxType() tx.Type {
	return tx.TypeRemoveUserPurchaseWhitelist
}

func (r *RemoveUserPurchaseWhitelist) Validate() error {
	if err := r.BaseTx.Validate(); err != nil {
		return err
	}
	if err := tx.ValidateToken(r.Token); err != nil {
		return err
	}
	if r.Buyer == "" {
		return ErrBuyerRequired
	}
	return nil
}

func (r *RemoveUserPurchaseWhitelist) Apply(ctx *tx.ApplyContext) tx.Result {
	return market.RemoveUserPurchaseWhitelist(ctx, r.Token, r.Buyer)
}

// UpdateTokenPurchaseLimits caps the quantity of any single purchase of
// Token at Max. A zero Max removes the cap.
type UpdateTokenPurchaseLimits struct {
	tx.BaseTx

	Token string      `json:"Token"`
	Max   uint256.Int `json:"Max"`
}

// NewUpdateTokenPurchaseLimits creates a new UpdateTokenPurchaseLimits transaction
func NewUpdateTokenPurchaseLimits(account, token string, max *uint256.Int) *UpdateTokenPurchaseLimits {
	u := &UpdateTokenPurchaseLimits{
		BaseTx: *tx.NewBaseTx(tx.TypeUpdateTokenPurchaseLimits, account),
		Token:  token,
	}
	u.Max.Set(max)
	return u
}

func (u *UpdateTokenPurchaseLimits) TxType() tx.Type {
	return tx.TypeUpdateTokenPurchaseLimits
}

func (u *UpdateTokenPurchaseLimits) Validate() error {
	if err := u.BaseTx.Validate(); err != nil {
		return err
	}
	if err := tx.ValidateToken(u.Token); err != nil {
		return err
	}
	return nil
}

func (u *UpdateTokenPurchaseLimits) Apply(ctx *tx.ApplyContext) tx.Result {
	return market.UpdateTokenPurchaseLimits(ctx, u.Token, &u.Max)
}
