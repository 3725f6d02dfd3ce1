package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/gordonklaus/shepard"
)

const statusInterval = 100 * time.Millisecond

const help = "↑/k faster  ↓/j slower  r reverse  0 hold  →/+ louder  ←/- quieter  ]/[ LFE  m mute  q quit"

// runConsole puts the terminal in raw mode and turns key presses into
// controller settings until the user quits or a signal arrives.
func runConsole(c *shepard.Controller, numChannels int) error {
	fd := int(os.Stdin.Fd())
	old, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("raw terminal: %w", err)
	}
	defer term.Restore(fd, old)

	keys := make(chan byte)
	go func() {
		defer close(keys)
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				return
			}
			if n > 0 {
				keys <- buf[0]
			}
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	t := time.NewTicker(statusInterval)
	defer t.Stop()

	fmt.Print(help + "\r\n")
	var k keyReader
	for {
		select {
		case b, ok := <-keys:
			if !ok || apply(c, k.feed(b)) {
				fmt.Print("\r\n")
				return nil
			}
		case <-sig:
			fmt.Print("\r\n")
			return nil
		case <-t.C:
			fmt.Print("\r\033[K" + status(c, numChannels))
		}
	}
}

// waitForSignal is used instead of runConsole when stdin is not a terminal.
func waitForSignal() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
}
