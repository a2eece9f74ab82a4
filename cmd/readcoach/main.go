// Command readcoach analyzes read-aloud recordings: it aligns a time-stamped
// transcription against the reference text and scores articulation and
// fluency. Run it once per recording with "analyze", or as an HTTP service
// with "serve".
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
