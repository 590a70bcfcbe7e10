package exit

import (
	"bytes"
	"testing"
)

func TestFailure(t *testing.T) {
	t.Parallel()

	res := Failuref("bad %s: %d", "value", 7)
	if res.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", res.ExitCode)
	}

	var buf bytes.Buffer
	res.Output = &buf
	res.Print()
	if got := buf.String(); got != "bad value: 7\n" {
		t.Errorf("Print wrote %q", got)
	}
}
