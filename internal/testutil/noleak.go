package testutil

import (
	"testing"
	"time"

	"go.uber.org/goleak"
)

// leakOptions ignores goroutines owned by the runtime and the test runner.
var leakOptions = []goleak.Option{
	goleak.IgnoreTopFunction("testing.tRunner.func1"),
	goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
}

// VerifyTestMain runs the package tests and fails if goroutines outlive
// them. Use it as the body of TestMain.
func VerifyTestMain(m *testing.M) {
	goleak.VerifyTestMain(m, leakOptions...)
}

// EnsureNoLeaks fails t if goroutines are still running once the test is
// over. It retries briefly so that goroutines that are finishing have time
// to exit.
func EnsureNoLeaks(t testing.TB) {
	t.Helper()
	if t.Failed() {
		return
	}
	var err error
	for i := 0; i < 5; i++ {
		if err = goleak.Find(leakOptions...); err == nil {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatal(err)
}
