package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the unified configuration for one run, mirroring the
// structure of the YAML file an operator points a server or worker
// process at.
type Config struct {
	Server struct {
		ShardNum            int     `mapstructure:"shard_num" json:"shard_num"`
		InitialLearningRate float64 `mapstructure:"initial_learning_rate" json:"initial_learning_rate"`
		ListenAddr          string  `mapstructure:"listen_addr" json:"listen_addr"`
		AdminAddr           string  `mapstructure:"admin_addr" json:"admin_addr"`
	} `mapstructure:"server" json:"server"`

	Worker struct {
		Minibatch    int    `mapstructure:"minibatch" json:"minibatch"`
		NThreads     int    `mapstructure:"nthreads" json:"nthreads"`
		InstancePath string `mapstructure:"instance_path" json:"instance_path"`
	} `mapstructure:"worker" json:"worker"`

	Transport struct {
		NThreads int `mapstructure:"nthreads" json:"nthreads"`
	} `mapstructure:"transport" json:"transport"`

	Cluster struct {
		RegistryAddr string   `mapstructure:"registry_addr" json:"registry_addr"`
		NodeID       string   `mapstructure:"node_id" json:"node_id"`
		Nodes        []string `mapstructure:"nodes" json:"nodes"`
	} `mapstructure:"cluster" json:"cluster"`

	Logging struct {
		Level string `mapstructure:"level" json:"level"`
	} `mapstructure:"logging" json:"logging"`
}

// Defaults sets the values a Config carries when no file or environment
// override is present, so a dev box can start a run with nothing but the
// binary.
func Defaults() Config {
	var c Config
	c.Server.ShardNum = 16
	c.Server.InitialLearningRate = 0.1
	c.Server.ListenAddr = ":9000"
	c.Server.AdminAddr = ":9001"
	c.Worker.Minibatch = 1000
	c.Worker.NThreads = 4
	c.Transport.NThreads = 8
	c.Cluster.RegistryAddr = "http://127.0.0.1:9100"
	c.Logging.Level = "info"
	return c
}

// Load reads configuration from name (a bare config name, without
// extension, resolved against the given search paths) and applies any
// environment variable overrides on top of it. Environment variables are
// matched by upper-snake-casing the mapstructure path, e.g.
// SERVER_SHARD_NUM.
func Load(name string, searchPaths ...string) (*Config, error) {
	v := viper.New()
	c := Defaults()
	// Registering every scalar key lets AutomaticEnv override it even when
	// the file does not mention it.
	for key, val := range map[string]any{
		"server.shard_num": c.Server.ShardNum, "server.initial_learning_rate": c.Server.InitialLearningRate,
		"server.listen_addr": c.Server.ListenAddr, "server.admin_addr": c.Server.AdminAddr,
		"worker.minibatch": c.Worker.Minibatch, "worker.nthreads": c.Worker.NThreads,
		"worker.instance_path": c.Worker.InstancePath, "transport.nthreads": c.Transport.NThreads,
		"cluster.registry_addr": c.Cluster.RegistryAddr, "cluster.node_id": c.Cluster.NodeID,
		"logging.level": c.Logging.Level,
	} {
		v.SetDefault(key, val)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config: seed defaults: %w", err)
	}

	v.SetConfigName(name)
	v.SetConfigType("yaml")
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}
	if len(searchPaths) == 0 {
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read %s: %w", name, err)
		}
	}

	v.AutomaticEnv()
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &c, nil
}
