package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"sfpl/pkg/auth"
	sfplerrors "sfpl/pkg/errors"
	"sfpl/pkg/logger"
	"sfpl/pkg/sfpl"
	"sfpl/pkg/transport"
)

// commandContext is canceled on Ctrl-C
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt)
}

// newClient builds a catalog client with a fresh cookie session
func newClient() (*sfpl.Client, error) {
	fetcher, err := transport.New(transport.Options{
		UserAgent: cfg.Site.UserAgent,
		Timeout:   cfg.Site.Timeout,
		Logger:    logger.GetLogger(),
	})
	if err != nil {
		return nil, err
	}
	return sfpl.NewClient(fetcher, sfpl.Options{
		BaseURL:  cfg.Site.BaseURL,
		HoursURL: cfg.Site.HoursURL,
		Era:      sfpl.Era(cfg.Site.Era),
		Logger:   logger.GetLogger(),
	})
}

// cardCredentials picks the card to log in with: SFPL_BARCODE/SFPL_PIN
// first, then the saved card named by --barcode, then the newest saved card
func cardCredentials() (*auth.Account, error) {
	if cfg.Account.Barcode != "" && cfg.Account.PIN != "" {
		return &auth.Account{Barcode: cfg.Account.Barcode, PIN: cfg.Account.PIN}, nil
	}

	manager, err := auth.NewManager()
	if err != nil {
		return nil, err
	}

	var account *auth.Account
	if cfg.Account.Barcode != "" {
		account, err = manager.Retrieve(cfg.Account.Barcode)
	} else {
		account, err = manager.RetrieveDefault()
	}
	if err != nil {
		return nil, fmt.Errorf("no library card available: %w (run 'sfpl auth login')", err)
	}
	return account, nil
}

// login opens an authenticated session with the selected card
func login(ctx context.Context) (*sfpl.Account, error) {
	card, err := cardCredentials()
	if err != nil {
		return nil, err
	}
	client, err := newClient()
	if err != nil {
		return nil, err
	}
	return client.Login(ctx, card.Barcode, card.PIN)
}

// describeError adds a hint for the failures a user can act on
func describeError(err error) string {
	switch sfplerrors.FamilyOf(err) {
	case sfplerrors.FamilyAuthFailure:
		return err.Error() + " (check the saved card with 'sfpl auth list')"
	case sfplerrors.FamilyMalformedPage:
		return err.Error() + " (the catalog layout may differ from the configured era)"
	case sfplerrors.FamilyTransport:
		return err.Error() + " (is the catalog reachable?)"
	}
	return err.Error()
}
