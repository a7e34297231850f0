package main

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/mattjoyce/simdeck/internal/api"
	"github.com/mattjoyce/simdeck/internal/dispatch"
	"github.com/mattjoyce/simdeck/internal/events"
	"github.com/mattjoyce/simdeck/internal/log"
)

const hubCapacity = 1024

func newListenCmd(d deps, gf *globalFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Serve actions and events over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sess, err := openSession(ctx, d, *gf)
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()

			controls, err := sess.controls()
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			dispatcher := dispatch.New(dispatch.WithMetrics(dispatch.NewMetrics(reg)))

			listen := sess.cfg.API.Listen
			if addr != "" {
				listen = addr
			}
			logger := log.WithComponent("api")
			base := dispatch.Context{
				Format:   sess.format,
				Defaults: sess.defaults,
				Controls: controls,
			}
			hub := events.NewHub(hubCapacity)
			events.NewReporter(hub).ReportSimple(events.NameListen, events.PhaseDiscrete, listen)

			server := api.New(
				api.Config{Listen: listen, APIKey: sess.cfg.API.APIKey},
				dispatcher,
				sess.backend.Lookup,
				base,
				hub,
				reg,
				logger,
			)

			err = server.Start(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config api.listen)")
	return cmd
}
