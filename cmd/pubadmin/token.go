package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/pubadmin/session"
)

// newTokenCmd inspects a bearer token the way the console does before
// trusting a stored session.
func newTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token <token>",
		Short: "Check whether a bearer token would be accepted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspectToken(cmd.OutOrStdout(), strings.TrimSpace(args[0]), time.Now())
		},
	}
}

func inspectToken(w io.Writer, token string, now time.Time) error {
	claims, err := session.Inspect(token, now)
	if claims.MapClaims != nil {
		keys := make([]string, 0, len(claims.MapClaims))
		for k := range claims.MapClaims {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "%s: %v\n", k, claims.MapClaims[k])
		}
	}
	if claims.Expires != nil {
		fmt.Fprintf(w, "expires: %s\n", claims.Expires.UTC().Format(time.RFC3339))
	} else if err == nil {
		fmt.Fprintln(w, "expires: never")
	}
	if err != nil {
		return fmt.Errorf("token rejected: %w", err)
	}
	fmt.Fprintln(w, "token accepted")
	return nil
}
