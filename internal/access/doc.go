// Package access implements the policy layer that sits between the wire
// protocol and the sharded table: PullAccessAgent decides how a parameter
// is created the first time a key is seen and what projection of it a
// worker is allowed to read, and PushAccessAgent decides how an incoming
// gradient is folded into the stored parameter.
//
// Both agents are generic over the stored parameter type and injected with
// plain functions rather than an interface hierarchy, mirroring how the
// original sparse-table access agents were templates parameterized by an
// "InitParam / Project / Apply" policy rather than virtual methods. A
// logistic-regression parameter (value + squared-gradient accumulator) and
// an AdaGrad apply rule are one instantiation of this package; a different
// model plugs in different functions without touching table or transport.
package access
