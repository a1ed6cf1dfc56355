// Command stockctl drives the inventory ledger from a terminal.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"stockledger/internal/config"
	"stockledger/internal/domain"
)

func main() {
	// audit lines go to LOG_FILE only; stdout is for tables
	log.SetOutput(io.Discard)
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if cfg.LogFile != "" {
		if f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
			defer f.Close()
			log.SetOutput(f)
		}
	}

	a := &app{out: os.Stdout}
	err = newRootCmd(a, cfg).Execute()
	a.close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps error kinds to process exit status.
func exitCode(err error) int {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return 2
	case domain.KindNotFound:
		return 3
	case domain.KindDuplicate, domain.KindInsufficientStock:
		return 4
	case domain.KindStorage:
		return 5
	}
	return 1
}
