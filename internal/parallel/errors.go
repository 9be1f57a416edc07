// Package parallel provides small helpers for fan-out work.
package parallel

import "sync"

// ErrorCollector keeps the first non-nil error reported by a group of
// goroutines. The zero value is ready to use.
//
//	var wg sync.WaitGroup
//	var ec parallel.ErrorCollector
//	wg.Add(2)
//	go func() { defer wg.Done(); ec.SetError(step1()) }()
//	go func() { defer wg.Done(); ec.SetError(step2()) }()
//	wg.Wait()
//	return ec.Err()
type ErrorCollector struct {
	mu    sync.Mutex
	err   error
	count int
}

// SetError records err if it is the first non-nil error. Later errors are
// counted but discarded.
func (c *ErrorCollector) SetError(err error) {
	if err == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err == nil {
		c.err = err
	}
	c.count++
}

// Err returns the first recorded error, or nil.
func (c *ErrorCollector) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Count returns how many non-nil errors were reported.
func (c *ErrorCollector) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Reset clears the collector for reuse.
func (c *ErrorCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = nil
	c.count = 0
}
