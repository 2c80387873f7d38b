// Command backoffice is a headless client for the e-commerce back-office
// API. It owns the session lifecycle (login, token renewal, logout) and
// exposes the CRUD surfaces as subcommands; all calls flow through the
// request pipeline so commands never deal with tokens.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"backoffice/internal/api"
	"backoffice/internal/auth"
	"backoffice/internal/notify"
	"backoffice/internal/pipeline"
	"backoffice/internal/platform/config"
	"backoffice/internal/platform/logger"
	"backoffice/internal/platform/metrics"
	platformredis "backoffice/internal/platform/redis"
	"backoffice/internal/session"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		usage()
		return fmt.Errorf("missing command")
	}

	cfg := config.FromEnv()
	log := logger.New()

	store, cleanup, err := newStore(cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	pipe, err := pipeline.New(pipeline.Config{
		BaseURL:        cfg.APIBaseURL,
		Store:          store,
		Notifier:       notify.NewLogNotifier(log),
		Logger:         log,
		Metrics:        metrics.New(),
		RequestTimeout: cfg.RequestTimeout,
		RefreshTimeout: cfg.RefreshTimeout,
	})
	if err != nil {
		return err
	}

	client := api.New(pipe)
	authn := auth.New(store, client, pipe, notify.NewLogNotifier(log), log)

	ctx := context.Background()
	state := authn.Bootstrap(ctx)
	log.Debug("session bootstrapped", "state", state.String())

	switch cmd, rest := args[0], args[1:]; cmd {
	case "login":
		return runLogin(ctx, authn, rest)
	case "first-login":
		return runFirstLogin(ctx, authn, rest)
	case "register":
		return runRegister(ctx, authn, rest)
	case "forgot-password":
		return runForgotPassword(ctx, authn, rest)
	case "confirm-reset":
		return runConfirmReset(ctx, authn, rest)
	case "logout":
		authn.Logout(ctx)
		return nil
	case "whoami":
		return runWhoami(ctx, authn)
	case "products":
		page, err := client.Products.List(ctx, api.ProductFilter{})
		if err != nil {
			return err
		}
		return printJSON(page)
	case "categories":
		categories, err := client.Categories.List(ctx)
		if err != nil {
			return err
		}
		return printJSON(categories)
	case "users":
		users, err := client.Users.List(ctx)
		if err != nil {
			return err
		}
		return printJSON(users)
	case "store":
		info, err := client.Store.Get(ctx)
		if err != nil {
			return err
		}
		return printJSON(info)
	case "overview":
		overview, err := client.Store.Overview(ctx)
		if err != nil {
			return err
		}
		return printJSON(overview)
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runLogin(ctx context.Context, authn *auth.Authenticator, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)

	result, err := authn.Login(ctx, auth.LoginInput{Email: *email, Password: *password})
	if err != nil {
		return err
	}
	if result.Challenge != nil {
		fmt.Println("password change required: run `backoffice first-login` with a new password")
		return nil
	}
	return printJSON(result.Principal)
}

func runFirstLogin(ctx context.Context, authn *auth.Authenticator, args []string) error {
	fs := flag.NewFlagSet("first-login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	tempPassword := fs.String("temp-password", "", "temporary password")
	newPassword := fs.String("new-password", "", "new password")
	fs.Parse(args)

	principal, err := authn.CompleteFirstLogin(ctx, auth.FirstLoginInput{
		Email:        *email,
		TempPassword: *tempPassword,
		NewPassword:  *newPassword,
	})
	if err != nil {
		return err
	}
	return printJSON(principal)
}

func runRegister(ctx context.Context, authn *auth.Authenticator, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	name := fs.String("name", "", "display name")
	fs.Parse(args)

	return authn.Register(ctx, auth.RegisterInput{Email: *email, Password: *password, Name: *name})
}

func runForgotPassword(ctx context.Context, authn *auth.Authenticator, args []string) error {
	fs := flag.NewFlagSet("forgot-password", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	fs.Parse(args)

	return authn.RequestReset(ctx, auth.ResetRequestInput{Email: *email})
}

func runConfirmReset(ctx context.Context, authn *auth.Authenticator, args []string) error {
	fs := flag.NewFlagSet("confirm-reset", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	code := fs.String("code", "", "confirmation code")
	newPassword := fs.String("new-password", "", "new password")
	fs.Parse(args)

	return authn.ConfirmReset(ctx, auth.ResetConfirmInput{
		Email:       *email,
		Code:        *code,
		NewPassword: *newPassword,
	})
}

func runWhoami(ctx context.Context, authn *auth.Authenticator) error {
	if principal := authn.Principal(); principal != nil {
		return printJSON(principal)
	}
	// Signed out, but the identity token may still name the last operator.
	claims, err := authn.IdentityClaims(ctx)
	if err != nil {
		return fmt.Errorf("not signed in")
	}
	return printJSON(claims)
}

// newStore selects the session store backend: Redis when configured, the
// credentials file otherwise.
func newStore(cfg config.Client, log *slog.Logger) (session.Store, func(), error) {
	if cfg.Redis.URL != "" {
		client, err := platformredis.New(cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("connect session store: %w", err)
		}
		log.Debug("using redis session store")
		return session.NewRedisStore(client, ""), func() { client.Close() }, nil
	}
	return session.NewFileStore(cfg.CredentialsFile), func() {}, nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: backoffice <command> [flags]

commands:
  login            -email -password
  first-login      -email -temp-password -new-password
  register         -email -password -name
  forgot-password  -email
  confirm-reset    -email -code -new-password
  logout
  whoami
  products | categories | users | store | overview`)
}
