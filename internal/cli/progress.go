package cli

import (
	"fmt"
	"log"
	"time"

	"github.com/schollz/progressbar/v3"
)

// cliProgressReporter implements scanner.ProgressReporter with a
// progress bar. All methods are no-ops in quiet mode.
type cliProgressReporter struct {
	quiet   bool
	fileBar *progressbar.ProgressBar
}

func newCLIProgressReporter(quiet bool) *cliProgressReporter {
	return &cliProgressReporter{quiet: quiet}
}

func (c *cliProgressReporter) OnScanStart(totalFiles int) {
	if c.quiet {
		return
	}
	log.Printf("Scanning %d files\n", totalFiles)

	c.fileBar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetDescription("Parsing files"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
}

func (c *cliProgressReporter) OnFileScanned(path string, err error) {
	if c.quiet || c.fileBar == nil {
		return
	}
	c.fileBar.Add(1)
}

func (c *cliProgressReporter) OnScanComplete(scanned, failed int, elapsed time.Duration) {
	if c.quiet {
		return
	}
	if failed > 0 {
		log.Printf("Scanned %d files, %d failed, in %s\n", scanned, failed, elapsed.Round(time.Millisecond))
		return
	}
	log.Printf("Scanned %d files in %s\n", scanned, elapsed.Round(time.Millisecond))
}
