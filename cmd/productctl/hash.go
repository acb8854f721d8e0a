package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/redmonkez12/go-product-api/cmd/productctl/ui"
	"github.com/redmonkez12/go-product-api/internal/password"
)

const minPasswordLen = 6

func newHashPasswordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Print the argon2id hash of a password",
		Long:  "Prompts for a password (or reads one line from stdin with --stdin) and prints the hash stored in users.password.",
		Args:  cobra.NoArgs,
		RunE:  runHashPassword,
	}
	cmd.Flags().Bool("stdin", false, "Read the password from the first line of stdin")

	return cmd
}

func runHashPassword(cmd *cobra.Command, _ []string) error {
	fromStdin, _ := cmd.Flags().GetBool("stdin")

	var (
		pw  string
		err error
	)
	if fromStdin {
		pw, err = readLine(cmd)
	} else {
		pw, err = ui.PromptPassword(minPasswordLen)
	}
	if err != nil {
		return err
	}
	if len(pw) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}

	hash, err := password.NewHasher(password.DefaultParams, 1).Hash(cmd.Context(), pw)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), hash)
	return nil
}

func readLine(cmd *cobra.Command) (string, error) {
	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return "", errors.New("no password on stdin")
	}
	return strings.TrimRight(scanner.Text(), "\r"), nil
}
