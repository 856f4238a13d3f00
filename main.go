package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"storefront/cmd"
	"storefront/config"
	"storefront/domain/user"
	"storefront/infrastructure/auth"
)

func main() {
	var (
		configPath string
		issueFor   string
	)
	flag.StringVar(&configPath, "config", "", "path to the YAML config file (default ./config.yaml or ./config/config.yaml)")
	flag.StringVar(&issueFor, "issue-token", "", "print a bearer token for id[:role] signed with the configured secret and exit")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if issueFor != "" {
		if err := printToken(cfg, issueFor); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	app, err := cmd.NewBuilder(cfg).Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// printToken development helper; production tokens come from the identity service
func printToken(cfg *config.Config, spec string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	id, role, _ := strings.Cut(spec, ":")
	a := auth.NewJWTAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	token, err := a.IssueToken(user.Identity{ID: id, Username: id, Role: user.ParseRole(role)})
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
