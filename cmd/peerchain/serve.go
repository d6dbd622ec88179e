package peerchain

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/peerchain/peerchain/internal/client"
	"github.com/peerchain/peerchain/internal/config"
	"github.com/peerchain/peerchain/internal/consensus"
	"github.com/peerchain/peerchain/internal/ledger"
	"github.com/peerchain/peerchain/internal/metrics"
	"github.com/peerchain/peerchain/internal/peers"
	"github.com/peerchain/peerchain/internal/server"
)

var serveConfig config.ServeConfig

var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a ledger node",
	Long:  `Run a ledger node serving the transaction, mining, chain and consensus endpoints.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if parent := cmd.Parent(); parent != nil && parent.PreRunE != nil {
			if err := parent.PreRunE(parent, args); err != nil {
				return err
			}
		}

		serveConfig = config.LoadServeConfigFromCLI()
		if err := serveConfig.Validate(); err != nil {
			return fmt.Errorf("invalid serve configuration: %w", err)
		}
		slog.Debug("Command-line arguments", "serveConfig", serveConfig)

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		nodeID := serveConfig.NodeID
		if nodeID == "" {
			var err error
			nodeID, err = newNodeID()
			if err != nil {
				return fmt.Errorf("failed to generate node identifier: %w", err)
			}
		}

		led := ledger.New()
		registry := peers.NewRegistry()
		for _, peer := range serveConfig.Peers {
			if err := registry.Register(peer); err != nil {
				return fmt.Errorf("failed to register peer %q: %w", peer, err)
			}
		}

		fetcher := client.NewChainClient(serveConfig.PeerTimeout)
		resolver := consensus.NewResolver(led, registry, fetcher, serveConfig.MaxConcurrency)

		var recorder *metrics.Recorder
		if serveConfig.EnablePrometheus {
			recorder = metrics.NewRecorder()
			metricsServer, err := metrics.CreateMetricsServer(led, registry, recorder, serveConfig.PrometheusAddr)
			if err != nil {
				return fmt.Errorf("failed to start metrics server: %w", err)
			}
			defer shutdown(metricsServer, "metrics server")
			slog.Info("Prometheus metrics enabled", "address", metricsServer.Addr)
		}

		node := server.New(led, registry, resolver, nodeID, recorder)
		httpServer := &http.Server{
			Addr:    serveConfig.Listen,
			Handler: node.Handler(),
		}

		errChan := make(chan error, 1)
		go func() {
			slog.Info("Node listening", "address", serveConfig.Listen, "nodeID", nodeID)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errChan <- err
			}
		}()

		select {
		case err := <-errChan:
			return fmt.Errorf("node server failed: %w", err)
		case <-ctx.Done():
			slog.Info("Received interrupt signal, shutting down...")
			shutdown(httpServer, "node server")
			return nil
		}
	},
}

// newNodeID generates the address mining rewards are credited to.
func newNodeID() (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

func shutdown(s *http.Server, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		slog.Error("Failed to shut down cleanly", "server", name, "error", err)
	}
}

func init() {
	ServeCmd.Flags().String("listen", "0.0.0.0:5001", "Address and port the node listens on")
	ServeCmd.Flags().String("node-id", "", "Node identifier credited with mining rewards (random when empty)")
	ServeCmd.Flags().StringSlice("peer", nil, "Peer node to register at startup (repeatable)")
	ServeCmd.Flags().Duration("peer-timeout", 5*time.Second, "Timeout for fetching a single peer's chain")
	ServeCmd.Flags().UintP("max-concurrency", "c", 8, "Maximum concurrent peer fetches during consensus")
	ServeCmd.Flags().Bool("enable-prometheus", false, "Enable Prometheus metrics server")
	ServeCmd.Flags().String("prometheus-addr", "0.0.0.0:2112", "Address and port of the Prometheus metrics server")

	if err := viper.BindPFlags(ServeCmd.Flags()); err != nil {
		slog.Error("Failed to bind ServeCmd flags", "error", err)
	}
}
