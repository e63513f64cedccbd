package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/custodia-labs/risklists/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/risklists/internal/logger"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API and run the sync timer",
	Long: `Serve the HTTP API. The server also acts as an Azure Functions custom
handler: the Functions host sets FUNCTIONS_CUSTOMHANDLER_PORT and posts timer
invocations to /sharepoint_timer_trigger.

When sync.interval is positive, lists are also synced on that interval.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	handler, err := httpapi.NewHTTPHandler(httpapi.Dependencies{
		Lists:         listService,
		History:       historyService,
		Query:         queryService,
		Presentations: presentationService,
		Logger:        logger.L(),
		AllowOrigins:  serverConfig.AllowOrigins,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              serverConfig.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	signalCtx, stop := signal.NotifyContext(cmdContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if syncScheduler != nil && syncScheduler.Enabled() {
		go syncScheduler.Run(signalCtx)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.L().Info("server starting", zap.String("address", serverConfig.Address))
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-signalCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
