package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/srand/gantry/pkg/agent"
	"github.com/srand/gantry/pkg/log"
	"github.com/srand/gantry/pkg/rpc"
	"github.com/srand/gantry/pkg/utils"
	"golang.org/x/sync/errgroup"
)

var config *Config

var rootCmd = &cobra.Command{
	Use:   "agent",
	Short: "Gantry node agent, supervises task and actor workers",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		viper.SetEnvPrefix("gantry")
		viper.AutomaticEnv()

		viper.SetConfigName("agent.yaml")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("/etc/gantry/")
		viper.AddConfigPath("$HOME/.config/gantry")
		viper.AddConfigPath(".")

		viper.ReadInConfig()

		if err := utils.UnmarshalConfig(*viper.GetViper(), &config); err != nil {
			log.Fatal(err)
		}

		config.Log()

		verbosity, err := cmd.Flags().GetCount("verbose")
		if err != nil {
			panic(err)
		}

		switch {
		case verbosity >= 2:
			log.SetLevel(log.TraceLevel)
		case verbosity >= 1:
			log.SetLevel(log.DebugLevel)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// Collect node properties reported in snapshots.
		node := agent.NewNodeInfoWithDefaults()
		if err := node.LoadConfig(); err != nil {
			log.Fatal(err)
		}
		log.Info("Node properties:")
		for key, value := range node {
			log.Infof("  %s=%s", key, value)
		}

		// Create the worker registry.
		clients := rpc.NewGrpcClientFactory(&config.GRPCOptions)
		registry := agent.NewRegistry(clients)
		defer registry.Close()

		// Snapshots are written to the local filesystem.
		snapshotFs := afero.NewBasePathFs(afero.NewOsFs(), config.SnapshotDir)
		snapshots := agent.NewSnapshotWriter(snapshotFs, node)

		eg, ctx := errgroup.WithContext(ctx)

		// Start listening for gRPC connections on all configured addresses
		for _, uri := range config.ListenGrpc {
			eg.Go(func() error {
				return serveGrpc(registry, uri)
			})
		}

		// Start listening for HTTP connections on all configured addresses
		for _, uri := range config.ListenHttp {
			host, err := utils.ParseHttpUrl(uri)
			if err != nil {
				log.Fatal(err)
			}

			log.Info("Listening on http", host)

			r := echo.New()
			r.HideBanner = true
			r.Use(utils.HttpLogger)
			r.Add(echo.GET, "/debug/pprof/*", echo.WrapHandler(http.DefaultServeMux))

			agent.NewHttpHandler(registry, snapshots, r)

			eg.Go(func() error {
				return http.ListenAndServe(host, r)
			})
		}

		eg.Go(func() error {
			<-ctx.Done()
			return ctx.Err()
		})

		if err := eg.Wait(); err != nil && err != context.Canceled {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.Flags().StringSliceP("listen-http", "l", []string{"tcp://:8080"}, "Addresses to listen on for HTTP connections")
	rootCmd.Flags().StringSliceP("listen-grpc", "g", []string{"tcp://:9090"}, "Addresses to listen on for GRPC connections")
	rootCmd.Flags().StringP("snapshot-dir", "d", ".", "Directory where worker table snapshots are written")
	rootCmd.Flags().StringSliceP("node-property", "p", []string{}, "Node property (repeatable)")
	rootCmd.Flags().CountP("verbose", "v", "Verbosity (repeatable)")

	viper.BindPFlag("listen_grpc", rootCmd.Flags().Lookup("listen-grpc"))
	viper.BindPFlag("listen_http", rootCmd.Flags().Lookup("listen-http"))
	viper.BindPFlag("snapshot_dir", rootCmd.Flags().Lookup("snapshot-dir"))
	viper.BindPFlag("node_properties", rootCmd.Flags().Lookup("node-property"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
