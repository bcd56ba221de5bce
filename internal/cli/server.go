package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"quiz-builder/internal/app"
	"quiz-builder/internal/config"
	"quiz-builder/internal/editor"
	"quiz-builder/internal/infra/media"
	"quiz-builder/internal/persist"
	"quiz-builder/internal/personalize"
	transport "quiz-builder/internal/transport/http"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the builder server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) (err error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	log, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	st, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}

	saver := persist.NewSaver(st.docs,
		config.TTLDuration(cfg.Editor.SaveDebounce, time.Second),
		persist.WithMaxDelay(config.TTLDuration(cfg.Editor.SaveMaxDelay, 10*time.Second)),
		persist.WithLogger(log),
	)
	mediaProvider := media.NewProvider(cfg.Media.Dir, cfg.Media.BaseURL, media.WithLogger(log))

	opts := []app.Option{
		app.WithLogger(log),
		app.WithCommitSink(saver),
		app.WithMediaProvider(mediaProvider),
		app.WithEditorOptions(editor.WithHistoryLimit(cfg.Editor.HistoryLimit)),
	}
	if personalizer, err := newPersonalizer(cfg, log); err != nil {
		log.Warn("personalization disabled", zap.Error(err))
	} else {
		opts = append(opts, app.WithPersonalizer(personalizer))
	}
	workspace := app.NewWorkspace(st.sessions, st.docs, opts...)

	mux := http.NewServeMux()
	transport.NewAPI(workspace, log).Routes(mux)
	if prefix := strings.TrimRight(cfg.Media.BaseURL, "/"); strings.HasPrefix(prefix, "/") {
		mux.Handle("GET "+prefix+"/", http.StripPrefix(prefix, http.FileServer(http.Dir(cfg.Media.Dir))))
	}

	server := &http.Server{
		Addr:              ":" + finalPort,
		Handler:           mux,
		ReadHeaderTimeout: 15 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting builder service", zap.String("addr", server.Addr), zap.String("storage", cfg.Storage.Driver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case <-stop:
		log.Info("shutting down server")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
	case err = <-serveErr:
		log.Error("server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.TTLDuration(cfg.Server.ShutdownTimeout, 5*time.Second))
	defer cancel()
	err = multierr.Combine(
		err,
		server.Shutdown(shutdownCtx),
		saver.Close(shutdownCtx),
		st.Close(),
	)
	if err != nil {
		log.Error("shutdown", zap.Error(err))
	}
	return err
}

func newPersonalizer(cfg config.Config, log *zap.Logger) (*personalize.Personalizer, error) {
	provider, err := personalize.NewOpenAIProvider(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL)
	if err != nil {
		return nil, err
	}
	return personalize.New(provider,
		personalize.WithLogger(log),
		personalize.WithConcurrency(cfg.OpenAI.Concurrency),
		personalize.WithTone(cfg.OpenAI.Tone),
	), nil
}
