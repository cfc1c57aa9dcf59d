package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/baliomega/nextflix/internal/engine"
	"github.com/baliomega/nextflix/internal/httpapi"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if bind != "" {
				cfg.Server.Bind = bind
			}
			logger, err := ctx.logger(cfg, false)
			if err != nil {
				return err
			}

			runCtx := cmd.Context()
			if runCtx == nil {
				runCtx = context.Background()
			}
			eng, err := engine.Open(runCtx, cfg, logger)
			if err != nil {
				return describeError(err)
			}
			defer eng.Close()

			srv := httpapi.New(cfg, eng, logger)
			if err := srv.Start(runCtx); err != nil {
				return describeError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Serving NextFlix on http://%s\n", srv.Addr())

			<-runCtx.Done()
			srv.Stop()
			logger.Info("nextflix serve shutting down")
			return nil
		},
	}
	cmd.Flags().StringVar(&bind, "bind", "", "Override server.bind (host:port)")
	return cmd
}
