package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/avdeevlv/vitrina/internal/api"
	"github.com/avdeevlv/vitrina/internal/cart"
	"github.com/avdeevlv/vitrina/internal/deck"
	"github.com/avdeevlv/vitrina/internal/swipe"
)

// NewSwipeCommand replays a gesture script through the real deck, gesture
// controller, and cart store against the remote API. One command per line:
//
//	drag <displacement>   end a drag at the given displacement in points
//	tap                   flip the current card
//	add <size> [qty]      add the current card to the cart
//	like                  toggle the local liked flag for the current card
//	refresh               retry fetching when the deck is empty
//	checkout              place an order with the profile address
//	show                  print the current card
//
// Lines starting with # are comments.
func NewSwipeCommand(opts *RootOptions) *cobra.Command {
	var scriptPath string

	cmd := &cobra.Command{
		Use:   "swipe",
		Short: "Replay a swipe-session script against the catalog feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if scriptPath != "" {
				f, err := os.Open(scriptPath)
				if err != nil {
					return WrapExitError(ExitCommandError, "open script", err)
				}
				defer f.Close()
				in = f
			}

			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			sess := newSwipeSession(a, opts)
			if err := sess.run(cmd.Context(), in, cmd.OutOrStdout()); err != nil {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&scriptPath, "script", "", "gesture script file (default stdin)")
	return cmd
}

// swipeSession wires one deck, one gesture controller, and the shared cart
// store together for a scripted run.
type swipeSession struct {
	app  *app
	opts *RootOptions

	deck *deck.Deck
	ctrl *swipe.Controller
	cart *cart.Store
}

func newSwipeSession(a *app, opts *RootOptions) *swipeSession {
	s := &swipeSession{app: a, opts: opts}

	s.deck = deck.New(api.NewFeedSource(a.client),
		deck.WithLowWaterMark(opts.cfg.Deck.LowWaterMark),
		deck.WithFetchSize(opts.cfg.Deck.FetchSize))
	return s
}

func (s *swipeSession) run(ctx context.Context, in io.Reader, out io.Writer) error {
	// Delivery estimates come from the remote per-brand policy table. A
	// session can still run on the flat default rate when the fetch fails.
	policy, err := s.app.client.ShippingPolicies(ctx)
	if err != nil {
		policy = cart.DefaultPolicy()
	}
	s.cart = cart.NewStore(policy)

	// The gesture controller advances the deck on every committed swipe;
	// the new card always starts front-facing.
	s.ctrl = swipe.NewController(func() { s.deck.Advance(ctx) })

	if err := s.deck.Start(ctx); err != nil {
		return WrapExitError(ExitFailure, userMessage(err), err)
	}
	s.printCurrent(out)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := s.step(ctx, out, line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return WrapExitError(ExitCommandError, "read script", err)
	}

	fmt.Fprintln(out, "---")
	fmt.Fprintln(out, renderCartItems(s.cart.Items()))
	if s.cart.Len() > 0 {
		fmt.Fprintf(out, "Итого: %s ₽\n", s.cart.Total())
	}
	return nil
}

func (s *swipeSession) step(ctx context.Context, out io.Writer, line string) error {
	fields := strings.Fields(line)
	switch fields[0] {
	case "drag":
		if len(fields) != 2 {
			return WrapExitError(ExitCommandError, "drag needs a displacement", nil)
		}
		displacement, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return WrapExitError(ExitCommandError, "bad displacement", err)
		}
		s.ctrl.BeginDrag()
		switch s.ctrl.EndDrag(displacement) {
		case swipe.DecisionCommit:
			s.ctrl.CompleteCommit()
			fmt.Fprintln(out, "→ дальше")
			s.printCurrent(out)
		case swipe.DecisionSnapBack:
			fmt.Fprintln(out, "← возврат")
		}

	case "tap":
		if s.ctrl.Tap() {
			fmt.Fprintln(out, "переворот: back")
		} else {
			fmt.Fprintln(out, "переворот: front")
		}

	case "add":
		if len(fields) < 2 {
			return WrapExitError(ExitCommandError, "add needs a size", nil)
		}
		qty := 1
		if len(fields) == 3 {
			n, err := strconv.Atoi(fields[2])
			if err != nil {
				return WrapExitError(ExitCommandError, "bad quantity", err)
			}
			qty = n
		}
		card, ok := s.deck.Current()
		if !ok {
			fmt.Fprintln(out, "нет карточки")
			return nil
		}
		item, err := s.cart.Add(card, fields[1], qty)
		if err != nil {
			fmt.Fprintf(out, "размер %s недоступен\n", fields[1])
			return nil
		}
		fmt.Fprintf(out, "в корзину: %s (%s)\n", item.Card.Name, item.Size)

	case "like":
		card, ok := s.deck.Current()
		if !ok {
			fmt.Fprintln(out, "нет карточки")
			return nil
		}
		liked, err := s.app.sess.IsLiked(ctx, card.ID)
		if err == nil {
			err = s.app.sess.SetLiked(ctx, card.ID, !liked)
		}
		if err != nil {
			return WrapExitError(ExitCommandError, "toggle like", err)
		}
		if liked {
			fmt.Fprintln(out, "лайк снят")
		} else {
			fmt.Fprintln(out, "лайк")
		}

	case "refresh":
		if err := s.deck.Refresh(ctx); err != nil {
			fmt.Fprintln(out, genericAlertText)
			return nil
		}
		s.printCurrent(out)

	case "checkout":
		addr, err := s.app.client.ShippingProfile(ctx)
		if err != nil {
			fmt.Fprintln(out, userMessage(err))
			return nil
		}
		ref, err := s.cart.Checkout(ctx, s.app.client, addr)
		if err != nil {
			fmt.Fprintln(out, userMessage(err))
			return nil
		}
		// Order ids are random; the transcript stays stable without them.
		status, err := s.app.client.OrderPaymentStatus(ctx, ref.ID)
		if err != nil {
			status = api.PaymentPending
		}
		fmt.Fprintf(out, "заказ создан (оплата: %s)\n", status)

	case "show":
		s.printCurrent(out)

	default:
		return WrapExitError(ExitCommandError, fmt.Sprintf("unknown script command %q", fields[0]), nil)
	}
	return nil
}

// printCurrent prints the card under the cursor, or the deck's empty/
// loading state.
func (s *swipeSession) printCurrent(out io.Writer) {
	card, ok := s.deck.Current()
	if !ok {
		switch s.deck.State() {
		case deck.StateLoading:
			fmt.Fprintln(out, "загрузка...")
		default:
			fmt.Fprintln(out, "карточки закончились")
		}
		return
	}
	face := "front"
	if s.ctrl != nil && s.ctrl.Flipped() {
		face = "back"
	}
	fmt.Fprintf(out, "[%s] %s — %s  %s ₽ (%s)\n", card.ID, card.Brand, card.Name, card.EffectivePrice(), face)
}
