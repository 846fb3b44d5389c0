// Package directory defines identity directories: address to display-name
// mappings sourced from exactly one system.
//
// Three sources exist: the curated manual table (subpackage manual), the
// compute-instance inventory (subpackage cloud) and the container orchestrator
// (subpackage orchestrator). Builders are advisory. A failing source yields a
// degraded Result with the cause recorded and a partial or empty Directory;
// nothing past the builder boundary ever sees an error from it.
package directory
