package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/giomartinsdev/butecobot-reloaded/internal/adapter/http/dto"
	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
	"github.com/giomartinsdev/butecobot-reloaded/internal/infrastructure/auth"
	"github.com/giomartinsdev/butecobot-reloaded/internal/infrastructure/config"
	"github.com/giomartinsdev/butecobot-reloaded/internal/infrastructure/logger"
	"github.com/giomartinsdev/butecobot-reloaded/internal/infrastructure/postgres"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "buteco-cli",
		Short:         "Buteco ledger CLI tool",
		Long:          `A command line interface for operating the Buteco economy service.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Buteco API")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}
	ledgerCmd.AddCommand(consistencyCmd())

	root.AddCommand(ledgerCmd, balanceCmd(), leaderboardCmd(), tokenCmd(), migrateCmd())
	return root
}

func consistencyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consistency",
		Short: "Check that the ledger conserves currency",
		RunE: func(cmd *cobra.Command, args []string) error {
			var report dto.ConservationResponse
			status, err := getJSON("/api/v1/ledger/consistency", &report)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if status != http.StatusOK || !report.Consistent {
				fmt.Fprintf(out, "Consistency check FAILED (Status: %d)\n", status)
				printJSON(out, report)
				return fmt.Errorf("ledger is inconsistent")
			}

			fmt.Fprintln(out, "Consistency check PASSED")
			fmt.Fprintf(out, "Minted: %s\n", report.Minted)
			fmt.Fprintf(out, "Circulating: %s\n", report.Circulating)
			return nil
		},
	}
}

func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <account-id>",
		Short: "Show the balance of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var balance dto.BalanceResponse
			status, err := getJSON("/api/v1/accounts/"+url.PathEscape(args[0])+"/balance", &balance)
			if err != nil {
				return err
			}
			if status != http.StatusOK {
				return fmt.Errorf("balance lookup failed (Status: %d)", status)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", balance.AccountID, balance.Balance)
			return nil
		},
	}
}

func leaderboardCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Rank accounts by balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			var board dto.LeaderboardResponse
			status, err := getJSON("/api/v1/leaderboard?limit="+strconv.Itoa(limit), &board)
			if err != nil {
				return err
			}
			if status != http.StatusOK {
				return fmt.Errorf("leaderboard failed (Status: %d)", status)
			}

			out := cmd.OutOrStdout()
			for _, row := range board.Rows {
				fmt.Fprintf(out, "%d\t%s\t%s\n", row.Rank, truncate(row.Username, 24), row.Balance)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", domain.DefaultLeaderboard, "Number of rows")
	return cmd
}

func tokenCmd() *cobra.Command {
	var (
		operatorID string
		role       string
		secret     string
		ttl        time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an operator bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = os.Getenv("JWT_SECRET")
			}
			if secret == "" {
				return fmt.Errorf("a secret is required: pass --secret or set JWT_SECRET")
			}

			manager := auth.NewJWTManager(secret, ttl)
			token, err := manager.Generate(&domain.Operator{ID: operatorID, Role: domain.Role(role)})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&operatorID, "operator", "", "Operator id")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleAdmin), "Role: admin or player")
	cmd.Flags().StringVar(&secret, "secret", "", "Signing secret (defaults to JWT_SECRET)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("operator")
	return cmd
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	run := func(fn func(zerolog.Logger, string, string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logger.New(logger.Config{Output: cmd.ErrOrStderr(), Level: cfg.LogLevel, Format: "console"})
			return fn(log, cfg.DatabaseURL, cfg.MigrationsPath)
		}
	}

	cmd.AddCommand(
		&cobra.Command{Use: "up", Short: "Apply every pending migration", RunE: run(postgres.RunMigrations)},
		&cobra.Command{Use: "down", Short: "Roll back the last migration", RunE: run(postgres.RunMigrationsDown)},
	)
	return cmd
}

func getJSON(path string, v any) (int, error) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		return 0, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, err
	}
	if err := json.Unmarshal(body, v); err != nil && resp.StatusCode < http.StatusBadRequest {
		return resp.StatusCode, fmt.Errorf("failed to parse response: %w", err)
	}
	return resp.StatusCode, nil
}

func printJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
