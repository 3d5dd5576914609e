/*
Package observability provides Prometheus instrumentation for the corpus toolkit.

It counts converted samples and conversion outcomes per format, times conversions,
and tracks artifact traffic and training parameter loads. Collectors are registered
on a caller supplied prometheus.Registerer so that tests and embedded users can keep
their own registries. A nil *Metrics is valid and records nothing.
*/
package observability
