package market

import (
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/holiman/uint256"
)

// OwnerBasePercent is the seller's share of a sale before royalty.
const OwnerBasePercent = 95

var hundred = uint256.NewInt(100)

// Shares is the three-way division of a sale's payment.
type Shares struct {
	ForOwner    uint256.Int
	ForArtist   uint256.Int
	ForTreasury uint256.Int
}

// Split divides total between seller, creator and treasury. The treasury
// takes the remainder, so the shares always sum to total.
func Split(total *uint256.Int, royalty uint8) Shares {
	var s Shares
	// The 512-bit intermediate cannot overflow the result: each share is at most total.
	s.ForOwner.MulDivOverflow(total, uint256.NewInt(uint64(OwnerBasePercent-int(royalty))), hundred)
	s.ForArtist.MulDivOverflow(total, uint256.NewInt(uint64(royalty)), hundred)
	s.ForTreasury.Sub(total, &s.ForOwner)
	s.ForTreasury.Sub(&s.ForTreasury, &s.ForArtist)
	return s
}

// Settle pays out total for qty units of token sold by seller to buyer and
// moves the units. Payments are queued on ctx and leave with the commit.
func Settle(ctx *tx.ApplyContext, seller, buyer, token string, qty, total *uint256.Int) tx.Result {
	bal, err := BalanceOf(ctx.View, token, seller)
	if err != nil {
		return tx.TefINTERNAL
	}
	if qty.Gt(bal) {
		return tx.TecINSUFFICIENT_FUNDS
	}
	royalty, err := RoyaltyOf(ctx.View, token)
	if err != nil {
		return tx.TefINTERNAL
	}
	shares := Split(total, royalty)

	ctx.Pay(tx.PaymentSale, seller, token, &shares.ForOwner)
	if !shares.ForArtist.IsZero() {
		creator, _, err := CreatorOf(ctx.View, token)
		if err != nil {
			return tx.TefINTERNAL
		}
		ctx.Pay(tx.PaymentRoyalty, creator, token, &shares.ForArtist)
	}
	if !shares.ForTreasury.IsZero() {
		treasury, ok, err := PayoutTreasury(ctx.View)
		if err != nil {
			return tx.TefINTERNAL
		}
		if !ok {
			return tx.TecNO_TREASURY
		}
		ctx.Pay(tx.PaymentTreasury, treasury, token, &shares.ForTreasury)
	}
	return move(ctx.View, token, seller, buyer, qty)
}

// cost returns qty × price, failing with temBAD_AMOUNT on overflow.
func cost(qty, price *uint256.Int) (*uint256.Int, tx.Result) {
	total, overflow := new(uint256.Int).MulOverflow(qty, price)
	if overflow {
		return nil, tx.TemBAD_AMOUNT
	}
	return total, tx.TesSUCCESS
}
