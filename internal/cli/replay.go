package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/LeJamon/goMarketd/internal/core/ledger"
	"github.com/LeJamon/goMarketd/internal/core/query"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	_ "github.com/LeJamon/goMarketd/internal/core/tx/all"
	"github.com/LeJamon/goMarketd/internal/events"
	"github.com/LeJamon/goMarketd/internal/snapshot"
	"github.com/LeJamon/goMarketd/internal/storage/database/memory"
	"github.com/spf13/cobra"
)

// Fixture files read from the replay directory:
//
//	txs.json       transactions to apply, in order
//	expected.json  optional post-state checks
//	state.snap     optional pre-state snapshot

// TxsFixture represents txs.json
type TxsFixture struct {
	Transactions []TxEntry `json:"transactions"`
}

// TxEntry is one transaction and, optionally, the result it must produce.
type TxEntry struct {
	Index int `json:"index"`
	// Time is the unix time the engine sees; zero keeps the previous one
	Time     int64           `json:"time,omitempty"`
	TxJSON   json.RawMessage `json:"tx_json"`
	Expected string          `json:"expected,omitempty"`
}

// ExpectedFixture represents expected.json
type ExpectedFixture struct {
	Balances []ExpectedBalance `json:"balances"`
	Events   *uint64           `json:"events,omitempty"`
	Payments []ExpectedPayment `json:"payments,omitempty"`
}

// ExpectedBalance is one balance that must hold after the replay
type ExpectedBalance struct {
	Token   string `json:"token"`
	Account string `json:"account"`
	Balance string `json:"balance"`
}

// ExpectedPayment is one payment instruction, compared in emission order
type ExpectedPayment struct {
	Reason string `json:"reason"`
	To     string `json:"to"`
	Token  string `json:"token"`
	Amount string `json:"amount"`
}

// TxApplyInfo stores detailed transaction application info
type TxApplyInfo struct {
	Index    int    `json:"index"`
	TxType   string `json:"tx_type"`
	Account  string `json:"account"`
	Result   string `json:"result"`
	Applied  bool   `json:"applied"`
	Expected string `json:"expected,omitempty"`
	Events   int    `json:"events"`
	Payments int    `json:"payments"`
	Error    string `json:"error,omitempty"`
}

// ReplayResult contains the results of the replay
type ReplayResult struct {
	Success   bool              `json:"success"`
	Errors    []string          `json:"errors"`
	TxResults []TxApplyInfo     `json:"transactions"`
	Results   map[string]int    `json:"results"`
	Payments  []ExpectedPayment `json:"payments"`
	Events    uint64            `json:"events"`
	PreState  int               `json:"pre_state_entries"`
	Duration  time.Duration     `json:"duration_ns"`
}

var (
	outputResult  string
	verboseReplay bool
)

// replayCmd represents the replay command
var replayCmd = &cobra.Command{
	Use:   "replay <fixture-dir>",
	Short: "Replay transactions from fixtures against a scratch ledger",
	Long: `Replay applies txs.json from the fixture directory to an in-memory ledger,
optionally seeded from state.snap, and checks every expected result code
plus the balances, event count and payments listed in expected.json.
The configured database is never touched.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringVarP(&outputResult, "output", "o", "", "Output file for results (JSON)")
	replayCmd.Flags().BoolVarP(&verboseReplay, "verbose", "v", false, "Print every transaction")
}

func runReplay(cmd *cobra.Command, args []string) error {
	result, err := replayFixture(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	printReplay(cmd.OutOrStdout(), result, verboseReplay)

	if outputResult != "" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(outputResult, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", outputResult, err)
		}
	}
	if !result.Success {
		return fmt.Errorf("replay failed with %d errors", len(result.Errors))
	}
	return nil
}

// fixtureClock returns whatever time the current fixture entry set.
type fixtureClock struct{ now time.Time }

func (c *fixtureClock) Now() time.Time { return c.now }

// paymentRecorder collects instructions instead of paying them.
type paymentRecorder struct{ payments []ExpectedPayment }

func (r *paymentRecorder) HandlePayments(ps []tx.PaymentInstruction) {
	for _, p := range ps {
		r.payments = append(r.payments, ExpectedPayment{
			Reason: string(p.Reason),
			To:     p.To,
			Token:  p.Token,
			Amount: p.Amount.Dec(),
		})
	}
}

func replayFixture(ctx context.Context, dir string) (*ReplayResult, error) {
	start := time.Now()

	txs := &TxsFixture{}
	if err := loadJSON(filepath.Join(dir, "txs.json"), txs); err != nil {
		return nil, fmt.Errorf("loading txs.json: %w", err)
	}
	var expected *ExpectedFixture
	if err := loadJSON(filepath.Join(dir, "expected.json"), &expected); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading expected.json: %w", err)
	}

	db := memory.NewDB()
	result := &ReplayResult{Success: true, Errors: []string{}, Results: map[string]int{}}

	if f, err := os.Open(filepath.Join(dir, "state.snap")); err == nil {
		stats, err := snapshot.Import(ctx, db, bufio.NewReader(f))
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("loading state.snap: %w", err)
		}
		result.PreState = stats.Entries
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	l, err := ledger.New(db, 0)
	if err != nil {
		return nil, err
	}
	clock := &fixtureClock{now: time.Unix(0, 0).UTC()}
	sink := events.NewMemorySink()
	payments := &paymentRecorder{}
	engine := tx.NewEngine(l, tx.DefaultEngineConfig(),
		tx.WithClock(clock),
		tx.WithEventSink(sink),
		tx.WithPaymentHandler(payments),
	)

	for _, entry := range txs.Transactions {
		if entry.Time != 0 {
			clock.now = time.Unix(entry.Time, 0).UTC()
		}
		info := TxApplyInfo{Index: entry.Index, Expected: entry.Expected}

		t, err := tx.FromJSON(entry.TxJSON)
		if err != nil {
			info.Error = err.Error()
			result.fail("tx %d: %v", entry.Index, err)
			result.TxResults = append(result.TxResults, info)
			continue
		}
		res := engine.Apply(t)
		info.TxType = t.GetCommon().TransactionType
		info.Account = t.GetCommon().Account
		info.Result = res.Result.String()
		info.Applied = res.Applied
		info.Events = len(res.Events)
		info.Payments = len(res.Payments)
		result.Results[info.Result]++

		if entry.Expected != "" && entry.Expected != info.Result {
			result.fail("tx %d (%s): got %s, want %s", entry.Index, info.TxType, info.Result, entry.Expected)
		}
		result.TxResults = append(result.TxResults, info)
	}

	result.Payments = payments.payments
	if result.Events, err = sink.Len(); err != nil {
		return nil, err
	}
	if expected != nil {
		if err := checkExpected(result, expected, query.New(engine.View())); err != nil {
			return nil, err
		}
	}
	result.Duration = time.Since(start)
	return result, nil
}

func checkExpected(result *ReplayResult, expected *ExpectedFixture, q *query.Service) error {
	for _, b := range expected.Balances {
		got, err := q.BalanceOf(b.Token, b.Account)
		if err != nil {
			return err
		}
		if got.Dec() != b.Balance {
			result.fail("balance of %s in %s: got %s, want %s", b.Account, b.Token, got.Dec(), b.Balance)
		}
	}
	if expected.Events != nil && *expected.Events != result.Events {
		result.fail("events: got %d, want %d", result.Events, *expected.Events)
	}
	if expected.Payments != nil {
		if len(expected.Payments) != len(result.Payments) {
			result.fail("payments: got %d, want %d", len(result.Payments), len(expected.Payments))
		} else {
			for i, want := range expected.Payments {
				if result.Payments[i] != want {
					result.fail("payment %d: got %+v, want %+v", i, result.Payments[i], want)
				}
			}
		}
	}
	return nil
}

func (r *ReplayResult) fail(format string, args ...interface{}) {
	r.Success = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func loadJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func statusTag(ok bool) string {
	if ok {
		return "[OK]"
	}
	return "[FAIL]"
}

func printReplay(w io.Writer, r *ReplayResult, verbose bool) {
	fmt.Fprintln(w, "--- Replay Summary ---")
	fmt.Fprintf(w, "Pre-state entries:  %d\n", r.PreState)
	fmt.Fprintf(w, "Transactions:       %d\n", len(r.TxResults))
	fmt.Fprintf(w, "Events appended:    %d\n", r.Events)
	fmt.Fprintf(w, "Payments emitted:   %d\n", len(r.Payments))
	fmt.Fprintf(w, "Duration:           %s\n", r.Duration)

	codes := make([]string, 0, len(r.Results))
	for code := range r.Results {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		fmt.Fprintf(w, "  %-28s %d\n", code, r.Results[code])
	}

	if verbose {
		for _, t := range r.TxResults {
			ok := t.Error == "" && (t.Expected == "" || t.Expected == t.Result)
			fmt.Fprintf(w, "%s #%d %s by %s: %s\n", statusTag(ok), t.Index, t.TxType, t.Account, t.Result)
		}
	}
	for _, e := range r.Errors {
		fmt.Fprintf(w, "%s %s\n", statusTag(false), e)
	}
	fmt.Fprintf(w, "%s replay\n", statusTag(r.Success))
}
