// Package logger provides leveled logging for whisper commands.
//
// Verbosity is controlled by two flags shared by every command group:
//
//   - --verbose: shows info and warning messages
//   - --debug: shows all messages including debug details and errors
//
// Without flags only user-facing warnings are printed.
//
// # Log Methods
//
//	Logger.Infof()          // Shown with --verbose or --debug
//	Logger.Debugf()         // Shown only with --debug
//	Logger.Warnf()          // Shown with --verbose or --debug
//	Logger.WarnfUser()      // Always shown
//	Logger.Errorf()         // Shown with --debug
//	Logger.ErrorfAndReturn() // Errorf, then returns the formatted error
//
// Commands create a logger in their PersistentPreRun and pass it to the
// workflows and to the key pair manager, which uses it for the silent
// startup load.
package logger
