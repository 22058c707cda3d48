package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/driftlabs/driftguard/internal/pipeline"
	"github.com/driftlabs/driftguard/internal/serve"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port  int    // Listen port
	Model string // Model artifact path
	Watch bool   // Reload the artifact on change
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the trained model over HTTP",
		Long: `Load the persisted model artifact and expose it over HTTP:

  GET  /healthz   liveness probe
  POST /predict   score row-records, returns probabilities

With --watch the artifact is reloaded whenever the file changes on
disk, so a retrain can publish a new model without a restart.`,
		Example: `  # Serve the configured artifact
  driftguard serve

  # Reload on artifact change
  driftguard serve --watch --port 9000`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Listen port (default from config)")
	cmd.Flags().StringVar(&opts.Model, "model", "", "Model artifact path (default from config)")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Reload the artifact when it changes on disk")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg

	port := cfg.Serve.Port
	if cmd.Flags().Changed("port") {
		port = opts.Port
	}
	modelPath := cfg.Train.ModelPath
	if opts.Model != "" {
		modelPath = opts.Model
	}
	watch := cfg.Serve.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}

	server, err := serve.NewServer(serve.Config{
		ModelPath: modelPath,
		Port:      port,
		Watch:     watch,
		Logger:    cmdCtx.Logger,
	})
	if err != nil {
		return &ExitError{Code: pipeline.ExitError, Msg: err.Error()}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmdCtx.Renderer.Printf("Serving model %s on :%d\n", modelPath, port)
	if err := server.Serve(ctx); err != nil {
		return &ExitError{Code: pipeline.ExitError, Msg: err.Error()}
	}
	return nil
}
