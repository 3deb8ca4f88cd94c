package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jrsteele09/go-storefront/auth"
	"github.com/jrsteele09/go-storefront/token"
	"github.com/jrsteele09/go-storefront/users"
	"github.com/spf13/cobra"
)

// registerConfig holds configuration for the register command.
type registerConfig struct {
	form users.RegistrationForm
}

func newRegisterCmd(opts *rootOptions) *cobra.Command {
	cfg := &registerConfig{}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account (does not sign in)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := formError(users.ValidateRegistration(cfg.form)); err != nil {
				return err
			}
			return withClient(cmd.Context(), opts, func(client *auth.Client) error {
				displayUser, err := client.Register(cmd.Context(), cfg.form.NewUser())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (%s)\n", displayUser.Email, displayUser.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&cfg.form.Name, "name", "", "your name")
	cmd.Flags().StringVar(&cfg.form.Email, "email", "", "email address")
	cmd.Flags().StringVar(&cfg.form.Password, "password", "", "password")
	cmd.Flags().StringVar(&cfg.form.ConfirmPassword, "confirm-password", "", "password again")

	return cmd
}

// loginConfig holds configuration for the login command.
type loginConfig struct {
	credentials users.LoginUser
}

func newLoginCmd(opts *rootOptions) *cobra.Command {
	cfg := &loginConfig{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := formError(users.ValidateLogin(cfg.credentials)); err != nil {
				return err
			}
			return withClient(cmd.Context(), opts, func(client *auth.Client) error {
				session, err := client.Login(cmd.Context(), cfg.credentials)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", session.User.Email)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&cfg.credentials.Email, "email", "", "email address")
	cmd.Flags().StringVar(&cfg.credentials.Password, "password", "", "password")

	return cmd
}

func newLogoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd.Context(), opts, func(client *auth.Client) error {
				if err := client.Logout(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
				return nil
			})
		},
	}
}

func newWhoamiCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the user of the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd.Context(), opts, func(client *auth.Client) error {
				session, err := client.Session(cmd.Context())
				if errors.Is(err, auth.NoSessionErr) {
					fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
					return nil
				}
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Email: %s\n", session.User.Email)
				if session.User.Name != "" {
					fmt.Fprintf(out, "Name:  %s\n", session.User.Name)
				}
				if session.User.ID != "" {
					fmt.Fprintf(out, "ID:    %s\n", session.User.ID)
				}
				// Display only, the signature is not checked here
				if decoded, err := token.Decode(session.Token()); err == nil && !decoded.Expiry().IsZero() {
					fmt.Fprintf(out, "Token expires: %s\n", decoded.Expiry().Format(time.RFC3339))
				}
				return nil
			})
		},
	}
}

func newVerifyCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Ask the remote API whether the stored token is still valid",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd.Context(), opts, func(client *auth.Client) error {
				result, err := client.VerifyJwt(cmd.Context())
				if err != nil {
					return err
				}
				state := "valid"
				if result.Expired(time.Now()) {
					state = "expired"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Token %s, expires %s\n", state, result.ExpiresAt().Format(time.RFC3339))
				return nil
			})
		},
	}
}

// formError joins the field messages of a rejected form into one error
func formError(fieldErrors users.FieldErrors) error {
	if fieldErrors.Valid() {
		return nil
	}
	messages := make([]string, 0, len(fieldErrors))
	for field, message := range fieldErrors {
		messages = append(messages, fmt.Sprintf("%s: %s", field, message))
	}
	sort.Strings(messages)
	return fmt.Errorf("%w: %s", auth.ValidationErr, strings.Join(messages, "; "))
}
