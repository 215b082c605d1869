package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avdeevlv/vitrina/internal/friends"
)

// NewFriendsCommand groups the friend-relationship actions. Every mutation
// is confirmed remotely before the local status changes, so each
// subcommand loads the current state first.
func NewFriendsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "friends",
		Short: "Friend list and friend-request actions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List friends and pending requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFriends(opts, cmd, func(ctx context.Context, m *friends.Manager) (any, string, error) {
				items := m.Items()
				return items, renderFriends(items), nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "send <userID>",
		Short: "Send a friend request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFriends(opts, cmd, func(ctx context.Context, m *friends.Manager) (any, string, error) {
				// The manager needs a username for the local record; the
				// fixture id is enough for the dev server.
				err := m.Send(ctx, friends.User{ID: args[0], Username: args[0]})
				return statusData(m, args[0]), "Заявка отправлена.", err
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "cancel <userID>",
		Short: "Cancel a sent friend request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFriends(opts, cmd, func(ctx context.Context, m *friends.Manager) (any, string, error) {
				err := m.Cancel(ctx, args[0])
				return statusData(m, args[0]), "Заявка отменена.", err
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "accept <userID>",
		Short: "Accept a received friend request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFriends(opts, cmd, func(ctx context.Context, m *friends.Manager) (any, string, error) {
				err := m.Accept(ctx, args[0])
				return statusData(m, args[0]), "Заявка принята.", err
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reject <userID>",
		Short: "Reject a received friend request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFriends(opts, cmd, func(ctx context.Context, m *friends.Manager) (any, string, error) {
				err := m.Reject(ctx, args[0])
				return statusData(m, args[0]), "Заявка отклонена.", err
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <userID>",
		Short: "Remove a friend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFriends(opts, cmd, func(ctx context.Context, m *friends.Manager) (any, string, error) {
				err := m.Remove(ctx, args[0])
				return statusData(m, args[0]), "Удалён из друзей.", err
			})
		},
	})

	cmd.AddCommand(NewRecommendationsCommand(opts))

	return cmd
}

// withFriends loads the relationship state, runs one action, and formats
// the outcome. Remote failures become user-facing alerts, not stack
// traces.
func withFriends(opts *RootOptions, cmd *cobra.Command, fn func(context.Context, *friends.Manager) (any, string, error)) error {
	a, err := newApp(opts)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	m := friends.NewManager(a.client)
	if err := m.Load(ctx); err != nil {
		return WrapExitError(ExitFailure, userMessage(err), err)
	}

	data, text, err := fn(ctx, m)
	if err != nil {
		return WrapExitError(ExitFailure, userMessage(err), err)
	}

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return f.Success(data, text)
}

func statusData(m *friends.Manager, userID string) any {
	return map[string]string{"userId": userID, "status": string(m.StatusOf(userID))}
}

// NewRecommendationsCommand fetches gift recommendations for one friend.
func NewRecommendationsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "recs <userID>",
		Short: "Show gift recommendations for a friend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			cards, err := a.client.RecommendationsForFriend(cmd.Context(), args[0])
			if err != nil {
				return WrapExitError(ExitFailure, userMessage(err), err)
			}
			f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			return f.Success(map[string]any{"products": cards}, renderCards(cards))
		},
	}
}

// NewFavoritesCommand lists the user's favorited products.
func NewFavoritesCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "favorites",
		Short: "List favorite products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			cards, err := a.client.Favorites(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, userMessage(err), err)
			}
			f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			return f.Success(map[string]any{"products": cards}, renderCards(cards))
		},
	}
}

// NewProfileCommand shows the saved shipping profile.
func NewProfileCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the shipping profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			addr, err := a.client.ShippingProfile(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, userMessage(err), err)
			}
			f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			return f.Success(addr, renderAddress(addr))
		},
	}
}

// NewPaymentCommand looks up the payment status of an order.
func NewPaymentCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "payment <orderID>",
		Short: "Look up the payment status of an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			status, err := a.client.OrderPaymentStatus(cmd.Context(), args[0])
			if err != nil {
				return WrapExitError(ExitFailure, userMessage(err), err)
			}
			f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			return f.Success(map[string]string{"orderId": args[0], "status": string(status)},
				fmt.Sprintf("Заказ %s: %s", args[0], status))
		},
	}
}
