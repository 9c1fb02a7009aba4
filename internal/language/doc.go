// Package language holds the spoken-language vocabulary understood by the
// Whisper model and maps between language codes and display names.
//
// Users may pass either form on the command line ("ja" or "Japanese"); Resolve
// collapses both, plus common aliases such as "Mandarin" or "Castilian", to
// the code Whisper expects.
package language
