package cli

import (
	"github.com/spf13/cobra"
)

// NewLoginCommand stores the bearer token for subsequent commands.
func NewLoginCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "login <token>",
		Short: "Store the API bearer token for this device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.sess.SetToken(cmd.Context(), args[0]); err != nil {
				return WrapExitError(ExitCommandError, "store token", err)
			}
			f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			return f.Success(map[string]bool{"loggedIn": true}, "Logged in.")
		},
	}
}

// NewLogoutCommand wipes all session-scoped state: token, avatar crop,
// local likes.
func NewLogoutCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the session: token, avatar crop, local likes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.sess.Reset(cmd.Context()); err != nil {
				return WrapExitError(ExitCommandError, "reset session", err)
			}
			f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			return f.Success(map[string]bool{"loggedIn": false}, "Logged out.")
		},
	}
}
