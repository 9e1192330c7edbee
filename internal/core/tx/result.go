package tx

import "fmt"

// Result represents a transaction result code
type Result int

// Transaction result codes, organized by category. Only tesSUCCESS commits;
// every other code discards all effects of the call.
const (
	// tesSUCCESS (0)
	TesSUCCESS Result = 0

	// tec codes (100-199): the call was well formed but rejected by
	// the current ledger state or by policy.
	TecUNAUTHORIZED                Result = 100
	TecALREADY_EXISTS              Result = 101
	TecINSUFFICIENT_FUNDS          Result = 102
	TecINSUFFICIENT_ACTIVE_BALANCE Result = 103
	TecNOT_LISTED                  Result = 104
	TecNOT_BID                     Result = 105
	TecOVER_LISTED                 Result = 106
	TecOVER_BID                    Result = 107
	TecPAYMENT_MISMATCH            Result = 108
	TecNOT_WHITELISTED             Result = 109
	TecCREATOR_ONLY                Result = 110
	TecCOOLDOWN_ACTIVE             Result = 111
	TecLIMIT_EXCEEDED              Result = 112
	TecDUPLICATE_BID               Result = 113
	TecNO_TREASURY                 Result = 114

	// tef codes (-199 to -100): the engine itself failed.
	TefFAILURE  Result = -199
	TefINTERNAL Result = -192

	// tem codes (-299 to -200): the transaction is malformed.
	TemMALFORMED          Result = -299
	TemBAD_AMOUNT         Result = -298
	TemBAD_SRC_ACCOUNT    Result = -297
	TemINVALID            Result = -296
	TemINVALID_QUANTITY   Result = -295
	TemLENGTH_MISMATCH    Result = -294
	TemBAD_ROYALTY        Result = -293
	TemINVALID_SELF_CHECK Result = -292
	TemDST_IS_SRC         Result = -291
	TemUNKNOWN            Result = -290
)

var resultNames = map[Result]string{
	TesSUCCESS:                     "tesSUCCESS",
	TecUNAUTHORIZED:                "tecUNAUTHORIZED",
	TecALREADY_EXISTS:              "tecALREADY_EXISTS",
	TecINSUFFICIENT_FUNDS:          "tecINSUFFICIENT_FUNDS",
	TecINSUFFICIENT_ACTIVE_BALANCE: "tecINSUFFICIENT_ACTIVE_BALANCE",
	TecNOT_LISTED:                  "tecNOT_LISTED",
	TecNOT_BID:                     "tecNOT_BID",
	TecOVER_LISTED:                 "tecOVER_LISTED",
	TecOVER_BID:                    "tecOVER_BID",
	TecPAYMENT_MISMATCH:            "tecPAYMENT_MISMATCH",
	TecNOT_WHITELISTED:             "tecNOT_WHITELISTED",
	TecCREATOR_ONLY:                "tecCREATOR_ONLY",
	TecCOOLDOWN_ACTIVE:             "tecCOOLDOWN_ACTIVE",
	TecLIMIT_EXCEEDED:              "tecLIMIT_EXCEEDED",
	TecDUPLICATE_BID:               "tecDUPLICATE_BID",
	TecNO_TREASURY:                 "tecNO_TREASURY",
	TefFAILURE:                     "tefFAILURE",
	TefINTERNAL:                    "tefINTERNAL",
	TemMALFORMED:                   "temMALFORMED",
	TemBAD_AMOUNT:                  "temBAD_AMOUNT",
	TemBAD_SRC_ACCOUNT:             "temBAD_SRC_ACCOUNT",
	TemINVALID:                     "temINVALID",
	TemINVALID_QUANTITY:            "temINVALID_QUANTITY",
	TemLENGTH_MISMATCH:             "temLENGTH_MISMATCH",
	TemBAD_ROYALTY:                 "temBAD_ROYALTY",
	TemINVALID_SELF_CHECK:          "temINVALID_SELF_CHECK",
	TemDST_IS_SRC:                  "temDST_IS_SRC",
	TemUNKNOWN:                     "temUNKNOWN",
}

var resultCodes = func() map[string]Result {
	m := make(map[string]Result, len(resultNames))
	for r, name := range resultNames {
		m[name] = r
	}
	return m
}()

// String returns the result code name, e.g. "tecNOT_LISTED".
func (r Result) String() string {
	if name, ok := resultNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", int(r))
}

// ResultFromName parses a result code name.
func ResultFromName(name string) (Result, bool) {
	r, ok := resultCodes[name]
	return r, ok
}

// IsSuccess returns true if the transaction succeeded
func (r Result) IsSuccess() bool {
	return r == TesSUCCESS
}

// IsTec returns true if this is a tec (state or policy rejection) code
func (r Result) IsTec() bool {
	return r >= 100 && r < 200
}

// IsTef returns true if this is a tef (failure) code
func (r Result) IsTef() bool {
	return r >= -199 && r <= -100
}

// IsTem returns true if this is a tem (malformed) code
func (r Result) IsTem() bool {
	return r >= -299 && r <= -200
}

// IsApplied returns true if the transaction's effects were committed.
func (r Result) IsApplied() bool {
	return r.IsSuccess()
}

// Message returns a human-readable message for the result
func (r Result) Message() string {
	switch r {
	case TesSUCCESS:
		return "The transaction was applied."
	case TecUNAUTHORIZED:
		return "Caller is not the required principal or its delegate."
	case TecALREADY_EXISTS:
		return "The token or record already exists."
	case TecINSUFFICIENT_FUNDS:
		return "Balance does not cover the quantity after listed reservations."
	case TecINSUFFICIENT_ACTIVE_BALANCE:
		return "Unlisted balance does not cover the bid fill."
	case TecNOT_LISTED:
		return "No listing exists for this token and seller."
	case TecNOT_BID:
		return "No bid exists for this token and bidder."
	case TecOVER_LISTED:
		return "Quantity exceeds the listing's remaining quantity."
	case TecOVER_BID:
		return "Quantity exceeds the bid's remaining quantity."
	case TecPAYMENT_MISMATCH:
		return "Attached payment does not match the required amount."
	case TecNOT_WHITELISTED:
		return "Buyer is not on the token's purchase whitelist."
	case TecCREATOR_ONLY:
		return "Only the token creator may list a whitelisted token."
	case TecCOOLDOWN_ACTIVE:
		return "Buyer purchased too recently."
	case TecLIMIT_EXCEEDED:
		return "Quantity exceeds the token's purchase limit."
	case TecDUPLICATE_BID:
		return "An active bid already exists for this token and bidder."
	case TecNO_TREASURY:
		return "No account would receive the treasury share of a sale."
	case TefINTERNAL:
		return "Internal error while applying the transaction."
	case TemMALFORMED:
		return "Malformed transaction."
	case TemBAD_AMOUNT:
		return "Amount is out of range."
	case TemBAD_SRC_ACCOUNT:
		return "Source account is missing."
	case TemINVALID_QUANTITY:
		return "Quantity must be positive."
	case TemLENGTH_MISMATCH:
		return "Batch arguments differ in length."
	case TemBAD_ROYALTY:
		return "Royalty must be between 0 and 90 percent."
	case TemINVALID_SELF_CHECK:
		return "An account cannot check its own escrow access."
	case TemDST_IS_SRC:
		return "Destination equals source."
	default:
		return r.String()
	}
}
