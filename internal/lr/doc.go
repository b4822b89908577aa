// Package lr is a reference model trained against this codebase's
// pull/push protocol: logistic regression over sparse integer-keyed
// features, updated server-side with AdaGrad.
//
// It exists to exercise every other package end to end — table, access,
// cache, route, transport, pull, push — the same way this codebase's
// original implementation shipped one concrete collaborator application
// alongside the generic parameter-server machinery rather than leaving it
// untested by any real workload.
//
// Training reads a line-oriented instance file (one example per line:
// a target label followed by space-separated feature keys), pulls the
// current weight for every feature key referenced in a minibatch,
// computes a prediction and its gradient per example, accumulates the
// per-key gradients locally, and pushes the per-key averages back for the
// server to fold into its AdaGrad state.
package lr
