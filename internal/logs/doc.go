// Package logs reads back the JSON log file written when logging.file is set.
//
// Last returns the newest lines with bounded memory, Follow polls for lines
// appended after an offset, and ParseRecord decodes one JSON line into the
// fields `ytwhisper logs` displays.
package logs
