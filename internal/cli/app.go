package cli

import (
	"net/http"

	"github.com/avdeevlv/vitrina/internal/api"
	"github.com/avdeevlv/vitrina/internal/session"
)

// app bundles the session store and the API client a command needs to talk
// to the storefront.
type app struct {
	opts   *RootOptions
	sess   *session.Store
	client *api.Client
}

// newApp opens the session database and builds the API client with the
// session store as its token source.
func newApp(opts *RootOptions) (*app, error) {
	sess, err := session.Open(opts.cfg.Session.DBPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open session database", err)
	}

	client, err := api.NewClient(opts.cfg.API.BaseURL, sess,
		api.WithHTTPClient(&http.Client{Timeout: opts.cfg.API.Timeout.Std()}))
	if err != nil {
		sess.Close()
		return nil, WrapExitError(ExitCommandError, "build api client", err)
	}

	return &app{opts: opts, sess: sess, client: client}, nil
}

func (a *app) Close() error {
	return a.sess.Close()
}
