// Package cli provides the interactive taskboard command-line client.
//
// It wires configuration, the local task cache, the REST client and the
// client services into a REPL. A background watcher pings the server and
// shows whether the client is online.
//
// Commands:
//   - register / login / logout / whoami
//   - list, board [query], search <q>, filter <status>
//   - add, show <id>, move <id> <status>, edit <id>, delete <id>
//   - refresh, export [dir], exit
//
// Task ids may be shortened to any unique prefix.
package cli
