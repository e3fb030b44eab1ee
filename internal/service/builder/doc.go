// Package builder runs the release pipeline: version resolution, icon
// derivation, bundle assembly, disk-image staging and creation, and the
// checksum record, in that order. Stages are an explicit named list; the
// first failure aborts the run and the failing stage is reported. Artifacts
// are produced in a scratch directory and renamed into the output directory
// only after the checksum is written.
package builder
