package tui

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleProgress_Report(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	p := NewRoleProgress(&buf, 2)

	p.Report("ui-designer", "started")
	p.Report("ui-designer", "succeeded")
	p.Report("qa", "failed")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "[0/2] ● Ui Designer started", lines[0])
	assert.Equal(t, "[1/2] ✓ Ui Designer succeeded", lines[1])
	assert.Equal(t, "[2/2] ✗ Qa failed", lines[2])
	assert.Equal(t, 2, p.Done())
}

func TestRoleProgress_ConcurrentReports(t *testing.T) {
	var buf bytes.Buffer
	p := NewRoleProgress(&buf, 8)

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			p.Report("developer", "succeeded")
		})
	}
	wg.Wait()

	assert.Equal(t, 8, p.Done())
	assert.Equal(t, 8, strings.Count(buf.String(), "\n"))
}
