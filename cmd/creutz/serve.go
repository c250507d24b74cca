package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"creutz/internal/api"
	"creutz/internal/config"
	"creutz/internal/store"

	"github.com/spf13/cobra"
)

func (c *cli) newServeCmd() *cobra.Command {
	d := config.Defaults()
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored runs as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, log, err := c.settings(cmd)
			if err != nil {
				return err
			}
			if s.DBPath == "" {
				return errors.New("serve: --db is required")
			}
			db, err := store.Open(s.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			srv := &http.Server{
				Addr:              s.Addr,
				Handler:           api.NewServer(db, log).Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() {
				log.WithField("addr", s.Addr).Info("listening")
				errc <- srv.ListenAndServe()
			}()
			select {
			case err := <-errc:
				return fmt.Errorf("serve: %w", err)
			case <-ctx.Done():
			}
			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().String("db", d.DBPath, "SQLite database to serve")
	cmd.Flags().String("addr", d.Addr, "listen address")
	return cmd
}
