// Package confloader loads kvshardd configuration from layered sources
// using koanf: defaults, an optional YAML file, then environment
// variables, each later source overriding the earlier ones. A
// fsnotify-backed Watcher can additionally hot-reload the subset of
// settings safe to change while the process is running.
package confloader
