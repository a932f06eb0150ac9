// Package naming builds the artifact paths of a run: the fixed
// intermediate names in the working directory and the timestamped final
// name in the output directory, kept collision-free across runs.
package naming
