// Package probe provides ffprobe-based media inspection and typed result
// structures. One JSON call per file yields the duration, frame size, and
// stream layout that the stages need; results are never cached, so each
// stage probes the artifact it is about to consume.
package probe
