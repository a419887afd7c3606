package main

import (
	dsgin "github.com/fwojciec/datasage/gin"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web upload form and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.cfg.Addr
			}
			agent, err := a.agent(cmd.Context())
			if err != nil {
				return err
			}
			gin.SetMode(gin.ReleaseMode)
			srv := dsgin.NewServer(agent, loadUpload, a.logger)
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (config addr, default :8080)")
	return cmd
}
