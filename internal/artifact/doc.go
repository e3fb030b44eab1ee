// Package artifact derives release artifact names and paths from the
// application identity, the resolved version, and the host architecture.
// Naming is a pure function of its inputs so build and verify agree on
// paths without sharing state.
package artifact
