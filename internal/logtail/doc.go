// Package logtail reads back pamp's own log file.
//
// The TUI owns the terminal, so the standard logger writes to a file instead
// (see tea.LogToFile). The profile screen shows the most recent failures from
// that file so a user can see why a refresh or an upload went wrong without
// leaving the program.
//
// Read extracts the last N lines in one pass with O(N) memory, whatever the
// size of the file. Parse splits a line produced by a logger with a prefix and
// log.LstdFlags into its timestamp and message, and Problems keeps the lines
// that report a failure.
//
//	lines, err := logtail.Read(cfg.LogFile, 400)
//	if err != nil {
//		return err
//	}
//	for _, e := range logtail.Problems(lines, "pamp", 5) {
//		fmt.Println(e.Time.Format("15:04"), e.Message)
//	}
package logtail
