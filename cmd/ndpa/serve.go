package main

import (
	"fmt"
	"net"
	"strconv"

	"github.com/fwojciec/ndpa"
	"github.com/fwojciec/ndpa/gemini"
	ndpahttp "github.com/fwojciec/ndpa/http"
)

// Run executes the serve command. It blocks until the context is cancelled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	srv := ndpahttp.NewServer()
	srv.Addr = c.Addr
	if srv.Addr == "" {
		srv.Addr = net.JoinHostPort("", strconv.Itoa(c.Port))
	}
	srv.Agents = map[string]ndpa.Agent{gemini.AgentID: deps.Agent}
	srv.Logger = deps.Logger
	if c.RateLimitRPS > 0 {
		var opts []ndpahttp.RateLimiterOption
		if c.TrustProxy {
			opts = append(opts, ndpahttp.WithTrustForwardedFor())
		}
		srv.RateLimiter = ndpahttp.NewIPRateLimiter(c.RateLimitRPS, c.RateLimitBurst, opts...)
	}
	if deps.Metrics != nil {
		srv.Metrics = deps.Metrics.Handler()
		srv.Instrument = deps.Metrics.Instrument
	}

	fmt.Fprintf(deps.Stdout, "Serving %s at http://%s/a2a/agent/%s\n", gemini.AgentID, srv.Addr, gemini.AgentID)
	return srv.Run(deps.Ctx)
}
