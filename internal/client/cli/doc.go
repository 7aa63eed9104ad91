// Package cli provides the odscli command-line client for the registry.
//
// It wires configuration, a persisted bearer token and the REST API client
// into a small set of commands: register, login, logout, register-company,
// list, list-ods and whoami.
//
// Invoked with a command word (e.g. "odscli list-ods") the command runs once
// and the process exits. Without one, App.Run starts an interactive REPL
// that keeps reading commands until "exit" or EOF.
package cli
