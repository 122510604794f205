package main

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"s7link/metrics"
)

type serveCmd struct {
	connectFlags

	Listen string `flag:"" optional:"" default:":9102" help:"HTTP listen address for the /metrics endpoint."`
}

func (c *serveCmd) Run(ctx *context) error {
	s, cleanup, err := c.dial()
	if err != nil {
		return err
	}
	defer cleanup()

	reg := prometheus.NewPedanticRegistry()
	if err := reg.Register(metrics.NewCollector(c.Host, s.Stats)); err != nil {
		return fmt.Errorf("register collector: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	fmt.Printf("serving metrics for %s on %s/metrics\n", c.Host, c.Listen)
	return http.ListenAndServe(c.Listen, mux)
}
