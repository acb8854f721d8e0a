package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/redmonkez12/go-product-api/cmd/productctl/ui"
	"github.com/redmonkez12/go-product-api/internal/auth"
	"github.com/redmonkez12/go-product-api/internal/config"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Issue a bearer token for a user id",
		Long:  "Signs a token with the configured secret and format. The user is not looked up.",
		Args:  cobra.ExactArgs(1),
		RunE:  runToken,
	}
	cmd.Flags().BoolP("verbose", "v", false, "Print claims alongside the token")

	return cmd
}

func runToken(cmd *cobra.Command, args []string) error {
	userID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", args[0], err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	tokens, err := auth.NewTokenService(cfg.Auth)
	if err != nil {
		return err
	}

	now := time.Now()
	token, err := tokens.CreateToken(userID, now)
	if err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}

	out := cmd.OutOrStdout()
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		ui.PrintTitle(out, "Bearer token")
		ui.PrintField(out, "Format", cfg.Auth.TokenFormat)
		ui.PrintField(out, "Subject", userID.String())
		ui.PrintField(out, "Expires", now.Add(auth.TokenTTL).UTC().Format(time.RFC3339))
	}
	fmt.Fprintln(out, token)

	return nil
}
