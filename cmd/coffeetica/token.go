package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/coffeetica/coffeetica/internal/core/domain"
	"github.com/coffeetica/coffeetica/internal/core/service"
	"github.com/coffeetica/coffeetica/internal/infrastructure/config"
	mongodb "github.com/coffeetica/coffeetica/internal/infrastructure/db/mongo"
	"github.com/coffeetica/coffeetica/internal/infrastructure/hasher"
)

// newTokenCmd issues a bearer token for an existing account without its
// password. It needs direct access to the signing secret and the database,
// so it is an operator tool and has no HTTP counterpart.
func newTokenCmd() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for an existing account",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := issueToken(cmd.Context(), subject, ttl)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVarP(&subject, "subject", "s", "", "Username or email of the account (required)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (defaults to JWT_TTL)")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

func issueToken(ctx context.Context, subject string, ttl time.Duration) (string, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return "", err
	}
	if ttl <= 0 {
		ttl = cfg.JWTTTL
	}

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return "", err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	accounts := mongodb.NewAccountRepository(db)
	account, err := accounts.FindByIdentifier(ctx, subject)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return "", fmt.Errorf("no account matches %q", subject)
	}
	if err != nil {
		return "", err
	}

	codec, err := service.NewJWTCodec(cfg.JWTSecret)
	if err != nil {
		return "", err
	}
	auth := service.NewAuthService(accounts, hasher.NewBcryptHasher(cfg.BcryptCost), codec, ttl, zerolog.Nop())
	return auth.IssueFor(account)
}
