package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ysenarath/textflow/internal/api"
	"github.com/ysenarath/textflow/internal/domain/annotation"
	"github.com/ysenarath/textflow/internal/domain/project"
	"github.com/ysenarath/textflow/internal/domain/scheduler"
	"github.com/ysenarath/textflow/internal/domain/status"
	"github.com/ysenarath/textflow/internal/jobs"
	"github.com/ysenarath/textflow/internal/sqlite"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			return serve(a)
		},
	}
}

func serve(a *app) error {
	projectRepo := sqlite.NewProjectRepository(a.db)
	labelRepo := sqlite.NewLabelRepository(a.db)
	documentRepo := sqlite.NewDocumentRepository(a.db)
	assignmentRepo := sqlite.NewAssignmentRepository(a.db)
	setRepo := sqlite.NewAnnotationSetRepository(a.db)
	jobRepo := sqlite.NewJobRepository(a.db)

	projectSvc := project.NewService(projectRepo, labelRepo, a.logger)
	annotationSvc := annotation.NewService(setRepo, documentRepo, assignmentRepo, labelRepo, a.logger)
	schedulerSvc := scheduler.NewService(projectRepo, documentRepo, assignmentRepo, setRepo, a.logger)
	statusSvc := status.NewService(projectRepo, documentRepo, setRepo, a.logger)
	runner := jobs.NewRunner(jobRepo, a.logger)

	router := api.NewRouter(api.Services{
		Projects:    projectSvc,
		Annotations: annotationSvc,
		Scheduler:   schedulerSvc,
		Status:      statusSvc,
	}, assignmentRepo, jobRepo, runner, documentRepo, a.logger)

	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		a.logger.Info("server listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("server error", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a.logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		a.logger.Error("shutdown error", "error", err)
	}
	// Let in-flight background jobs record their final status.
	runner.Wait()
	return nil
}
