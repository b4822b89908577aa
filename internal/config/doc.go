// Package config loads a run's configuration from a YAML file, with
// environment-variable overrides, using viper — the same pattern this
// codebase's related projects use to keep configuration declarative and
// out of command-line flag sprawl.
//
// Every field an operator can reasonably want to override in one
// environment but not another lives here: shard count, learning rate,
// minibatch size, worker thread count, and the cluster's rendezvous and
// node addresses.
package config
