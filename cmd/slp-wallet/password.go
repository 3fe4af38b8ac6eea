package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

// envPassword lets scripts supply the wallet password without a terminal.
const envPassword = "SLP_WALLET_PASSWORD"

var stdinReader = bufio.NewReader(os.Stdin)

// getPassword reads a password from the terminal without echo. The terminal
// state is restored if the user interrupts the prompt.
func getPassword(prompt string) (string, error) {
	if p, ok := os.LookupEnv(envPassword); ok {
		return p, nil
	}
	fd := int(syscall.Stdin)
	if !term.IsTerminal(fd) {
		line, err := stdinReader.ReadString('\n')
		if err != nil && line == "" {
			return "", errors.Wrap(err, "read password")
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	state, err := term.GetState(fd)
	if err != nil {
		return "", errors.Wrap(err, "get terminal state")
	}
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		if _, ok := <-sigs; ok {
			_ = term.Restore(fd, state)
			os.Exit(1)
		}
	}()

	fmt.Fprint(os.Stderr, prompt)
	p, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", errors.Wrap(err, "read password")
	}
	return string(p), nil
}

// getNewPassword asks twice and requires both entries to match.
func getNewPassword() (string, error) {
	p1, err := getPassword("New wallet password: ")
	if err != nil {
		return "", err
	}
	if _, ok := os.LookupEnv(envPassword); ok {
		return p1, nil
	}
	p2, err := getPassword("Confirm password: ")
	if err != nil {
		return "", err
	}
	if p1 != p2 {
		return "", errors.New("passwords do not match")
	}
	return p1, nil
}
