package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/daviddao/halftime/pkg/metrics"
	"github.com/daviddao/halftime/pkg/schedule"
	"github.com/daviddao/halftime/pkg/server"
)

func (a *app) cmdServe(args []string) int {
	flags := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := flags.String("addr", a.cfg.HTTPAddr, "listen address")
	if err := flags.Parse(args); err != nil {
		return exitErr
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	svc := schedule.New(
		schedule.WithLogger(a.logger),
		schedule.WithMetrics(metrics.NewPrometheus(reg, "")),
	)
	srv := server.New(svc, a.cfg.BaseURL, reg, a.logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "ht: serving on http://%s (Ctrl-C to stop)\n", *addr)
	if err := srv.Run(ctx, *addr); err != nil {
		fmt.Fprintf(os.Stderr, "ht: serve: %v\n", err)
		return exitErr
	}
	return exitOK
}
