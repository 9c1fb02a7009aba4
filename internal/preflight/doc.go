// Package preflight provides readiness checks for the external programs and
// filesystem paths ytwhisper depends on.
//
// The `ytwhisper doctor` command renders every check; the root command runs
// RunAll before a job and refuses to start when a required check fails, so a
// missing directory permission surfaces before minutes of downloading.
//
// Each check is gated by its config toggle; disabled features are skipped.
package preflight
