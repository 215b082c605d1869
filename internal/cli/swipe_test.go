package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/avdeevlv/vitrina/internal/config"
	"github.com/avdeevlv/vitrina/internal/devserver"
	"github.com/avdeevlv/vitrina/internal/fixtures"
	"github.com/avdeevlv/vitrina/internal/session"
)

// newTestOpts builds RootOptions wired to a throwaway session database and
// the given API base URL, as PersistentPreRunE would.
func newTestOpts(t *testing.T, baseURL string) *RootOptions {
	t.Helper()
	cfg := config.Default()
	cfg.API.BaseURL = baseURL
	cfg.Session.DBPath = filepath.Join(t.TempDir(), "session.db")
	return &RootOptions{Format: "text", cfg: cfg}
}

// startDevServer serves the built-in catalog over httptest.
func startDevServer(t *testing.T) *httptest.Server {
	t.Helper()
	cat, err := fixtures.LoadDefault()
	require.NoError(t, err)
	ts := httptest.NewServer(devserver.New(cat).Handler())
	t.Cleanup(ts.Close)
	return ts
}

// loginForTest stores a token straight into the session database.
func loginForTest(t *testing.T, opts *RootOptions) {
	t.Helper()
	sess, err := session.Open(opts.cfg.Session.DBPath)
	require.NoError(t, err)
	defer sess.Close()
	require.NoError(t, sess.SetToken(context.Background(), "test-token"))
}

// runCommand executes one cobra command with the given stdin and args and
// returns its stdout.
func runCommand(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func goldenCLI(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestSwipeCommand_SessionTranscript(t *testing.T) {
	ts := startDevServer(t)
	opts := newTestOpts(t, ts.URL)
	loginForTest(t, opts)

	script := `
# flip, snap back, then swipe two cards away
tap
drag 60
drag -240
add M
drag -240
checkout
`
	out, err := runCommand(t, NewSwipeCommand(opts), script)
	require.NoError(t, err)

	goldenCLI(t).Assert(t, "swipe_session", []byte(out))
}

func TestSwipeCommand_CartSummary(t *testing.T) {
	ts := startDevServer(t)
	opts := newTestOpts(t, ts.URL)
	loginForTest(t, opts)

	script := `
add M
add S 2
`
	out, err := runCommand(t, NewSwipeCommand(opts), script)
	require.NoError(t, err)

	goldenCLI(t).Assert(t, "swipe_cart", []byte(out))
}

func TestSwipeCommand_OutOfStockSize(t *testing.T) {
	ts := startDevServer(t)
	opts := newTestOpts(t, ts.URL)
	loginForTest(t, opts)

	// XS on the first fixture card is out of stock.
	out, err := runCommand(t, NewSwipeCommand(opts), "add XS\n")
	require.NoError(t, err)
	require.Contains(t, out, "размер XS недоступен")
	require.Contains(t, out, "Корзина пуста.")
}

func TestSwipeCommand_CheckoutWithEmptyCart(t *testing.T) {
	ts := startDevServer(t)
	opts := newTestOpts(t, ts.URL)
	loginForTest(t, opts)

	out, err := runCommand(t, NewSwipeCommand(opts), "checkout\n")
	require.NoError(t, err)
	require.Contains(t, out, "Корзина пуста.")
}

func TestSwipeCommand_UnknownScriptCommand(t *testing.T) {
	ts := startDevServer(t)
	opts := newTestOpts(t, ts.URL)
	loginForTest(t, opts)

	_, err := runCommand(t, NewSwipeCommand(opts), "explode\n")
	require.Error(t, err)
	require.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestSwipeCommand_LikeTogglePersists(t *testing.T) {
	ts := startDevServer(t)
	opts := newTestOpts(t, ts.URL)
	loginForTest(t, opts)

	out, err := runCommand(t, NewSwipeCommand(opts), "like\n")
	require.NoError(t, err)
	require.Contains(t, out, "лайк")

	// The flag lives in the session database, not the process.
	sess, err := session.Open(opts.cfg.Session.DBPath)
	require.NoError(t, err)
	defer sess.Close()
	liked, err := sess.IsLiked(context.Background(), "p-1001")
	require.NoError(t, err)
	require.True(t, liked)
}
