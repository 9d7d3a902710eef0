package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/pranavsaji/code-explainer/infrastructure/gin_interface/controllers"
	"github.com/pranavsaji/code-explainer/middleware"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := buildApp()
		if err != nil {
			return err
		}
		defer application.shutdown()

		router := gin.New()
		if err := router.SetTrustedProxies(nil); err != nil {
			return fmt.Errorf("failed to set trusted proxies: %w", err)
		}
		router.Use(gin.Recovery())
		router.Use(middleware.RequestLogger(application.logger))

		controller := controllers.NewExplainerController(
			application.logger,
			application.pipeline,
			application.repoIngest,
			application.dirIngest,
			application.dispatcher,
			application.layout.IngestDir,
		)
		controller.RegisterRoutes(router)

		application.logger.Info("listening on " + application.settings.ListenAddr)
		return router.Run(application.settings.ListenAddr)
	},
}
