package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/getmockd/mockrunner/pkg/config"
	"github.com/getmockd/mockrunner/pkg/runner"
)

var (
	runProject     string
	runService     string
	runHost        string
	runPort        int
	runPath        string
	runSecure      bool
	runCertFile    string
	runKeyFile     string
	runMetricsAddr string
)

// RunOutput is the JSON form of a started mock.
type RunOutput struct {
	Endpoint       string `json:"endpoint"`
	Implementation string `json:"implementation"`
	Service        string `json:"service,omitempty"`
	Metrics        string `json:"metrics,omitempty"`
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the configured mock service and wait for a signal",
	Long: `Start the mock service described by the task configuration, print its
endpoint and keep serving until SIGINT or SIGTERM.

The project may be a file path or a file:, http(s): or classpath: URL.`,
	Example: `  # Serve a project from disk
  mockrunner run --project ./weather-soapui-project.xml --service WeatherMock --port 8088

  # Serve a project bundled in the resolved classpath over HTTPS
  mockrunner run --project classpath:projects/weather.xml --secure`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		applyRunFlags(cmd, cfg)

		logger := newLogger(cfg, cmd.ErrOrStderr())
		opts := []runner.Option{
			runner.WithLogger(logger),
			runner.WithVersion(Version),
		}

		var metrics *http.Server
		if runMetricsAddr != "" {
			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector())
			opts = append(opts, runner.WithRegisterer(reg))
			metrics, err = serveMetrics(runMetricsAddr, reg, logger)
			if err != nil {
				return err
			}
			defer shutdown(metrics)
		}

		r, err := runner.New(cfg, opts...)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := r.Start(ctx); err != nil {
			return err
		}
		endpoint, err := r.Endpoint()
		if err != nil {
			_ = r.Stop()
			return err
		}

		out := RunOutput{
			Endpoint:       endpoint,
			Implementation: cfg.Implementation,
			Service:        cfg.Task.Service,
		}
		if metrics != nil {
			out.Metrics = "http://" + metrics.Addr + "/metrics"
		}
		w := cmd.OutOrStdout()
		if err := printResult(w, out, func() {
			fmt.Fprintln(w, endpoint)
		}); err != nil {
			_ = r.Stop()
			return err
		}

		<-ctx.Done()
		logger.Info("shutting down", "reason", context.Cause(ctx))
		return r.Stop()
	},
}

// applyRunFlags overlays the task flags the user set.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	set := func(name, key string, apply func()) {
		if flags.Changed(name) {
			apply()
			cfg.SetSource(key, config.SourceFlag)
		}
	}
	set("project", "task.project", func() { cfg.Task.Project = runProject })
	set("service", "task.service", func() { cfg.Task.Service = runService })
	set("host", "task.host", func() { cfg.Task.Host = runHost })
	set("port", "task.port", func() { cfg.Task.Port = runPort })
	set("path", "task.path", func() { cfg.Task.Path = runPath })
	set("secure", "task.secure", func() { cfg.Task.Secure = runSecure })
	set("cert-file", "task.certFile", func() { cfg.Task.CertFile = runCertFile })
	set("key-file", "task.keyFile", func() { cfg.Task.KeyFile = runKeyFile })
}

// serveMetrics exposes reg on addr under /metrics.
func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen for metrics on %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true}))

	srv := &http.Server{
		Addr:              ln.Addr().String(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "error", err)
		}
	}()
	logger.Debug("metrics server started", "address", srv.Addr)
	return srv, nil
}

func shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}

func init() {
	f := runCmd.Flags()
	f.StringVarP(&runProject, "project", "p", "", "SoapUI project path or URL")
	f.StringVarP(&runService, "service", "s", "", "Mock service name (optional when the project has one)")
	f.StringVar(&runHost, "host", "", "Host to bind and advertise")
	f.IntVar(&runPort, "port", 0, "Port to listen on")
	f.StringVar(&runPath, "path", "", "Path the mock is served under")
	f.BoolVar(&runSecure, "secure", false, "Serve over HTTPS")
	f.StringVar(&runCertFile, "cert-file", "", "TLS certificate file (with --key-file)")
	f.StringVar(&runKeyFile, "key-file", "", "TLS key file (with --cert-file)")
	f.StringVar(&runMetricsAddr, "metrics-addr", "", "Serve prometheus metrics on this address")
	rootCmd.AddCommand(runCmd)
}
