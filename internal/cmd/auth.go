package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/triplog/internal/adapters/credentials"
)

var authForget bool

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize triplog with Foursquare and store the token",
	Long: `Print the Foursquare authorization page, read the code it hands
back, exchange it for an access token and store the token in the
system keyring. Requires foursquare.client_id, client_secret and
redirect_uri.

Example:
  triplog auth --config trips.yaml
  triplog auth --forget`,
	RunE: runAuth,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.Flags().BoolVar(&authForget, "forget", false, "remove the stored token instead")
}

func runAuth(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	u := newUI()
	out := cmd.OutOrStdout()
	store := credentials.NewStore()

	if authForget {
		if err := store.Delete(); err != nil {
			return err
		}
		fmt.Fprintln(out, u.Success("stored token removed"))
		return nil
	}

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	client := newFoursquareClient(cfg)

	authURL, err := client.AuthURL()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, u.Header("Foursquare authorization"))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Open this page, approve access and paste the code from the redirect:")
	fmt.Fprintln(out, u.Muted(authURL))
	fmt.Fprint(out, "\ncode: ")

	code, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	code = strings.TrimSpace(code)
	if code == "" {
		if err != nil {
			return fmt.Errorf("read code: %w", err)
		}
		return errors.New("no code entered")
	}

	token, err := client.ExchangeCode(ctx, code)
	if err != nil {
		fmt.Fprintln(out, u.Error("token exchange failed"))
		return err
	}
	if err := store.Save(token); err != nil {
		fmt.Fprintln(out, u.Warning("could not store the token; set foursquare.access_token instead"))
		return err
	}
	fmt.Fprintln(out, u.Success("access token stored in the keyring"))
	return nil
}
