// Package capture runs commands under a name and keeps their output.
//
// Every capture lives in its own directory under $HOME/.capture:
//
//	~/.capture/<name>/meta.json   pid, command and start time
//	~/.capture/<name>/stdout.log
//	~/.capture/<name>/stderr.log
//
// A Runner starts a capture and tees the child's output to the terminal and
// the log files. Logs, List and Stop read the same layout back, so a capture
// started by one process can be inspected or stopped from another.
package capture
