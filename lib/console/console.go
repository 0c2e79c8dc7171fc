package console

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/TwiN/go-color"
)

var (
	mu      sync.Mutex
	out     io.Writer = os.Stdout
	verbose bool
)

// Set the writer all messages are printed to.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// Enable or disable verbose messages.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// Returns true if verbose messages are printed.
func IsVerbose() bool {
	mu.Lock()
	defer mu.Unlock()
	return verbose
}

func printc(c string, message string, vars ...any) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(out, color.Ize(c, message+"\n"), vars...)
}

// Log verbose message to console.
// Verbose output must be enabled (config `verbose: true` or `VERBOSE=1`) for message to be printed.
func Verbose(message string, vars ...any) {
	if !IsVerbose() {
		return
	}
	printc(color.Gray, message, vars...)
}

// Log success message to console.
func Success(message string, vars ...any) {
	printc(color.Green, message, vars...)
}

// Log info message to console.
func Info(message string, vars ...any) {
	printc(color.Cyan, message, vars...)
}

// Log warning message to console.
func Warning(message string, vars ...any) {
	printc(color.Yellow, message, vars...)
}

// Build error for a CLI action.
// The message is coloured so it stands out when `main` prints it.
func Error(message string, vars ...any) error {
	return fmt.Errorf(color.Ize(color.Red, message), vars...)
}

// Log error message to console.
func ErrorPrint(message string, vars ...any) {
	printc(color.Red, message, vars...)
}

// Log error message to console only if verbose output is enabled.
func ErrorPrintV(message string, vars ...any) {
	if !IsVerbose() {
		return
	}
	printc(color.Red, message, vars...)
}
