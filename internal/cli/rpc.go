package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	rpcURL     string
	rpcTimeout time.Duration
)

// rpcCmd represents the rpc command group
var rpcCmd = &cobra.Command{
	Use:   "rpc <method> [params-json]",
	Short: "RPC client commands",
	Long: `Call a method on a running marketd. Params are a JSON object, or @file to
read it from a file. Subcommands cover the common methods.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var params json.RawMessage
		if len(args) > 1 {
			raw, err := readJSONArg(args[1])
			if err != nil {
				return err
			}
			params = raw
		}
		return callMethod(cmd, args[0], params)
	},
}

func init() {
	rootCmd.AddCommand(rpcCmd)
	rpcCmd.PersistentFlags().StringVar(&rpcURL, "url", "http://127.0.0.1:5005", "marketd RPC endpoint")
	rpcCmd.PersistentFlags().DurationVar(&rpcTimeout, "timeout", 30*time.Second, "request timeout")

	rpcCmd.AddCommand(pingCmd, serverInfoCmd, submitCmd, balanceOfCmd, tokenInfoCmd,
		marketDataCmd, bidMarketDataCmd, eventLogCmd, payoutsCmd)
}

// readJSONArg returns arg as JSON, reading @path from disk.
func readJSONArg(arg string) (json.RawMessage, error) {
	data := []byte(arg)
	if strings.HasPrefix(arg, "@") {
		var err error
		if data, err = os.ReadFile(arg[1:]); err != nil {
			return nil, err
		}
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("params are not valid JSON")
	}
	return data, nil
}

// callMethod posts one request and pretty prints the result object.
func callMethod(cmd *cobra.Command, method string, params interface{}) error {
	request := map[string]interface{}{"method": method}
	if params != nil {
		request["params"] = []interface{}{params}
	}
	body, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to marshal parameters: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), rpcTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rpcURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("RPC request failed: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("RPC request failed: %s: %s", resp.Status, strings.TrimSpace(string(data)))
	}

	var response struct {
		Result map[string]interface{} `json:"result"`
	}
	if err := json.Unmarshal(data, &response); err != nil {
		return fmt.Errorf("invalid response: %w", err)
	}
	if response.Result["status"] == "error" {
		return fmt.Errorf("RPC error [%v]: %v", response.Result["error"], response.Result["error_message"])
	}

	prettyJSON, err := json.MarshalIndent(response.Result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(prettyJSON))
	return nil
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Ping the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return callMethod(cmd, "ping", nil)
	},
}

var serverInfoCmd = &cobra.Command{
	Use:   "server_info",
	Short: "Get server information",
	RunE: func(cmd *cobra.Command, args []string) error {
		return callMethod(cmd, "server_info", nil)
	},
}

var submitCmd = &cobra.Command{
	Use:   "submit <tx-json|@file>",
	Short: "Submit a transaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		txJSON, err := readJSONArg(args[0])
		if err != nil {
			return err
		}
		return callMethod(cmd, "submit", map[string]interface{}{"tx_json": txJSON})
	},
}

var balanceOfCmd = &cobra.Command{
	Use:   "balance_of <token> <account>",
	Short: "Get an account's balance of a token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return callMethod(cmd, "balance_of", map[string]interface{}{
			"token":   args[0],
			"account": args[1],
		})
	},
}

var tokenInfoCmd = &cobra.Command{
	Use:   "token_info <token>",
	Short: "Get a token's supply, creator and sale settings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return callMethod(cmd, "token_info", map[string]interface{}{"token": args[0]})
	},
}

var marketDataCmd = &cobra.Command{
	Use:   "get_market_data <seller> <token>",
	Short: "Get a seller's listing",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return callMethod(cmd, "get_market_data", map[string]interface{}{
			"seller": args[0],
			"token":  args[1],
		})
	},
}

var bidMarketDataCmd = &cobra.Command{
	Use:   "get_bid_market_data <bidder> <token>",
	Short: "Get a bidder's bid",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return callMethod(cmd, "get_bid_market_data", map[string]interface{}{
			"bidder": args[0],
			"token":  args[1],
		})
	},
}

var eventLogCmd = &cobra.Command{
	Use:   "event_log [start] [limit]",
	Short: "Page through the event log",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := map[string]interface{}{}
		keys := []string{"start", "limit"}
		for i, arg := range args {
			n, err := strconv.ParseUint(arg, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", keys[i], err)
			}
			params[keys[i]] = n
		}
		return callMethod(cmd, "event_log", params)
	},
}

var payoutsCmd = &cobra.Command{
	Use:   "payouts [pending|paid|failed]",
	Short: "List journaled payouts (admin)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := map[string]interface{}{}
		if len(args) > 0 {
			params["status"] = args[0]
		}
		return callMethod(cmd, "payouts", params)
	},
}
