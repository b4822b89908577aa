// Command worker runs one training worker: it discovers the cluster's
// server nodes through the rendezvous registry, then runs the logistic
// regression trainer against them until its instance file is exhausted.
//
// Configuration:
//   - REGISTRY_ADDR: rendezvous registry base URL (default: the config's
//     cluster.registry_addr)
//   - WORKER_INSTANCE_PATH: path to the training instance file (required
//     unless the config sets worker.instance_path)
//   - CONFIG_NAME / CONFIG_PATH: optional YAML config overrides, see
//     internal/config
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dreamware/paramserver/internal/cluster"
	"github.com/dreamware/paramserver/internal/config"
	"github.com/dreamware/paramserver/internal/hashfrag"
	"github.com/dreamware/paramserver/internal/lr"
	"github.com/dreamware/paramserver/internal/route"
	"github.com/dreamware/paramserver/internal/transport"
)

const (
	pullMessageClass int32 = 1
	pushMessageClass int32 = 2
)

var logFatal = log.Fatalf

func main() {
	cfg, err := config.Load(getenv("CONFIG_NAME", "worker"), getenv("CONFIG_PATH", "."))
	if err != nil {
		logFatal("config: %v", err)
	}

	logger := logrus.New()
	if lvl, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		logger.SetLevel(lvl)
	}
	runID := uuid.NewString()
	runLog := logger.WithField("run_id", runID)

	registryAddr := getenv("REGISTRY_ADDR", cfg.Cluster.RegistryAddr)
	instancePath := getenv("WORKER_INSTANCE_PATH", cfg.Worker.InstancePath)
	if instancePath == "" {
		logFatal("missing WORKER_INSTANCE_PATH")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	nodes, err := discoverServers(ctx, registryAddr)
	cancel()
	if err != nil {
		logFatal("discover servers: %v", err)
	}
	rt := route.Build(nodes)

	trans := transport.New(hashfrag.NodeID(-1), ":0", rt, cfg.Transport.NThreads, runLog)
	if err := trans.Start(context.Background(), cfg.Transport.NThreads); err != nil {
		logFatal("transport start: %v", err)
	}
	defer trans.Stop()

	trainer := lr.NewTrainer(lr.TrainerConfig{
		Path:      instancePath,
		Minibatch: cfg.Worker.Minibatch,
		NThreads:  cfg.Worker.NThreads,
		PullClass: pullMessageClass,
		PushClass: pushMessageClass,
	}, trans, rt, runLog)

	runLog.WithField("instances", instancePath).Info("worker: starting training")
	if err := trainer.Train(context.Background()); err != nil {
		logFatal("train: %v", err)
	}
	runLog.Info("worker: training complete")
}

// discoverServers polls the rendezvous registry until it reports at
// least one server node, retrying with the same fixed delay and attempt
// count this codebase's registration flow uses.
func discoverServers(ctx context.Context, registryAddr string) ([]cluster.NodeInfo, error) {
	var nodes []cluster.NodeInfo
	var lastErr error
	for i := 0; i < cluster.DefaultRetry.Attempts; i++ {
		lastErr = cluster.GetJSON(ctx, registryAddr+"/nodes", &nodes)
		if lastErr == nil && len(nodes) > 0 {
			return nodes, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(cluster.DefaultRetry.Delay):
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nodes, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
