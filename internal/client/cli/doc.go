// Package cli provides the interactive sleep diary command-line client.
//
// It wires configuration, diary storage (a local file or an S3 object), the
// sync transport and a REPL. Commands can also be run one at a time from the
// shell, e.g. "sleepdiary add wake" or "sleepdiary stats".
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See runREPL and dispatch for the command set.
package cli
