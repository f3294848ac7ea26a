package monitoring

import (
	"fmt"
	"testing"
)

func TestSetLogger_RoutesAndMutes(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var got []string
	SetLogger(func(format string, v ...interface{}) {
		got = append(got, fmt.Sprintf(format, v...))
	})
	Logf("imported %d tracks", 3)

	SetLogger(nil)
	Logf("muted")

	if len(got) != 1 || got[0] != "imported 3 tracks" {
		t.Errorf("unexpected log lines: %q", got)
	}
}

func TestLogf_DefaultNotNil(t *testing.T) {
	if Logf == nil {
		t.Fatal("Logf should not be nil by default")
	}
}
