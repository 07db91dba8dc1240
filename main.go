package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"

	"byteweaver/cmd"
	"byteweaver/pkg/logging"

	"golang.org/x/term"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cmd.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	syncLogger()
	os.Exit(code)
}

// syncLogger flushes the logger. Syncing a pipe or a character device other
// than a terminal fails with "invalid argument", so it is only attempted on
// terminals and regular files.
func syncLogger() {
	if logging.Logger == nil {
		return
	}
	if term.IsTerminal(int(os.Stderr.Fd())) || isRegularFile(os.Stderr) {
		if syncErr := logging.Logger.Sync(); syncErr != nil {
			lowerErr := strings.ToLower(syncErr.Error())
			if !strings.Contains(lowerErr, "invalid argument") {
				log.Printf("Logger sync failed: %v", syncErr)
			}
		}
	}
}

// isRegularFile checks if the given file is a regular file.
func isRegularFile(f *os.File) bool {
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	return fileInfo.Mode().IsRegular()
}
