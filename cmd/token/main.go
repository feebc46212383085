package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"checkin-bot/internal/config"
	"checkin-bot/internal/pkg/jwt"

	"github.com/spf13/pflag"
)

// Mints an operator token for the admin API. The role is not part of the
// token: the server checks the directory on every request.
func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

var errUsage = errors.New("usage: token --id <principal id> [--minutes N]")

func run(args []string, stdout io.Writer) error {
	var principalID int64
	var minutes int

	flagSet := pflag.NewFlagSet("token", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.Int64VarP(&principalID, "id", "i", 0, "principal id of the operator")
	flagSet.IntVarP(&minutes, "minutes", "m", 0, "token lifetime in minutes (default OPERATOR_TOKEN_MINUTES)")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			fmt.Fprintln(stdout, errUsage.Error())
			fmt.Fprint(stdout, flagSet.FlagUsages())
			return nil
		}
		return err
	}
	if principalID <= 0 {
		return errUsage
	}
	if len(flagSet.Args()) > 0 {
		return fmt.Errorf("unexpected argument: %s", flagSet.Args()[0])
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	lifetime := cfg.JWT.TokenMins
	if minutes > 0 {
		lifetime = minutes
	}

	token, err := jwt.GenerateOperatorToken(principalID, cfg.JWT.Secret, lifetime)
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}
	fmt.Fprintln(stdout, token)
	return nil
}
