// Package filter holds the pure visibility and aggregation logic behind the
// project list: which projects match the current criteria, the summary
// counters and the technology vocabulary used to populate the tech selector.
//
// Nothing here touches HTTP, storage or logging; every function is a
// deterministic function of its arguments.
package filter
