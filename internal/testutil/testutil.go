// Package testutil holds small helpers shared by the package tests.
package testutil

import (
	"sync"
	"testing"
)

// Given, When, and Then helpers keep test descriptions readable without pulling
// in a heavy BDD framework.
func Given(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("Given "+desc, fn)
}

func When(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("When "+desc, fn)
}

func Then(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("Then "+desc, fn)
}

// CaptureNotifier records every notification so tests can assert on exactly
// what a user would have been shown.
type CaptureNotifier struct {
	mu        sync.Mutex
	successes []string
	infos     []string
	errors    []string
}

func NewCaptureNotifier() *CaptureNotifier {
	return &CaptureNotifier{}
}

func (n *CaptureNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *CaptureNotifier) Info(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.infos = append(n.infos, msg)
}

func (n *CaptureNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, msg)
}

func (n *CaptureNotifier) Successes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.successes...)
}

func (n *CaptureNotifier) Infos() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.infos...)
}

func (n *CaptureNotifier) Errors() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.errors...)
}
