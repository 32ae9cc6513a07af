// Package cli implements cpctl, the command-line client of the control
// panel API.
//
// Connection settings come from the environment (CONTROLPANEL_SERVER,
// CONTROLPANEL_TOKEN, CONTROLPANEL_TIMEOUT) and are overridden by the
// persistent --server, --token and --timeout flags.
//
//	export CONTROLPANEL_TOKEN=$(cpctl login --email me@example.com)
//	cpctl layout set --file layout.json
package cli
