// Package server exposes automation controller job templates as MCP tools.
//
// The tool set has two halves. Static tools (list_job_templates,
// launch_job_template, get_job_status, get_job_logs, refresh_job_templates)
// always exist. Dynamic launch_* tools are synthesized once, at startup,
// from the cached template collection: one uniquely named tool per template,
// its documentation carrying the template's survey questions.
//
// Registration is deliberately one-shot. refresh_job_templates updates the
// cache, so list_job_templates sees new templates, but the dynamic tool set
// stays frozen until the process restarts. This mirrors the behavior of the
// deployment this server replaces and keeps tool identity stable for
// connected clients.
//
// Transports: stdio (default), SSE and streamable HTTP, selected by
// configuration.
package server
