// Command token issues signed identity tokens for local development and
// scripted tests against the server.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/learning-hub/internal/config"
	"github.com/iliyamo/learning-hub/internal/model"
	"github.com/iliyamo/learning-hub/internal/utils"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		secret string
		ttl    time.Duration
		header bool
	)
	cmd := &cobra.Command{
		Use:   "token <identity>",
		Short: "Issue a signed identity token",
		Long: "Issue an HS256 token whose subject is <identity>.  The secret defaults\n" +
			"to JWT_SECRET, read from the environment or a .env file.",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				config.LoadDotEnv()
				secret = os.Getenv("JWT_SECRET")
			}
			if secret == "" {
				return fmt.Errorf("no secret: pass --secret or set JWT_SECRET")
			}
			tok, err := utils.NewAccessToken(secret, model.Identity(args[0]), ttl)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if header {
				_, err = fmt.Fprintf(out, "Authorization: Bearer %s\n", tok.Token)
				return err
			}
			_, err = fmt.Fprintln(out, tok.Token)
			return err
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "signing secret (default $JWT_SECRET)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	cmd.Flags().BoolVar(&header, "header", false, "print as an Authorization header")
	return cmd
}
