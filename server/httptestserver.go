package server

import (
	"net/http/httptest"

	"github.com/findy-network/findy-agent-vcx/agent/utils"
)

// StartTestHTTPServer runs a fresh relay behind an httptest server and
// points the process settings at it, so agents built from settings talk
// to this relay. The caller owns the server's Close.
func StartTestHTTPServer() (*httptest.Server, *Relay) {
	rl := New()
	srv := httptest.NewServer(rl.Handler())
	utils.Settings.SetAgencyURL(srv.URL)
	return srv, rl
}
