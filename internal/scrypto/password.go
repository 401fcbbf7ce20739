package scrypto

import (
	"bytes"
	"fmt"
	"os"
	"runtime"
	"syscall"

	"golang.org/x/term"
)

// ZeroBytes overwrites a byte slice with zeros
func ZeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

// GetPassword returns the password from envVar when set, otherwise prompts
// for it with hidden input. With confirm set, the prompt is repeated and both
// entries must match.
func GetPassword(envVar, prompt string, confirm bool) ([]byte, error) {
	if envVar != "" {
		if envPass := os.Getenv(envVar); envPass != "" {
			return []byte(envPass), nil
		}
	}

	password, err := GetSecurePassword(prompt)
	if err != nil {
		return nil, err
	}
	if !confirm {
		return password, nil
	}

	again, err := GetSecurePassword("🔑 Confirm password: ")
	if err != nil {
		ZeroBytes(password)
		return nil, err
	}
	defer ZeroBytes(again)

	if !bytes.Equal(password, again) {
		ZeroBytes(password)
		return nil, fmt.Errorf("passwords do not match")
	}
	return password, nil
}

// GetSecurePassword prompts for password with hidden input
func GetSecurePassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)

	fd := int(syscall.Stdin)
	if !term.IsTerminal(fd) {
		// STDIN is piped, fall back to the controlling terminal
		tty, err := os.Open("/dev/tty")
		if err != nil {
			return nil, fmt.Errorf("cannot read password: stdin is not a terminal and /dev/tty is unavailable")
		}
		defer tty.Close()
		fd = int(tty.Fd())
	}

	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr) // New line after password

	if err != nil {
		return nil, fmt.Errorf("password read failed: %w", err)
	}
	if len(password) == 0 {
		return nil, fmt.Errorf("password cannot be empty")
	}

	return password, nil
}
