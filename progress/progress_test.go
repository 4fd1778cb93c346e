package progress

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s3ferry/s3ferry/ferrytypes"
)

// lastRender returns the final status line written to buf, without padding
// or the trailing newline.
func lastRender(t *testing.T, buf *bytes.Buffer) string {
	t.Helper()
	parts := strings.Split(buf.String(), "\r")
	require.Greater(t, len(parts), 1)
	return strings.TrimRight(parts[len(parts)-1], " \n")
}

func TestReporter_RendersCountAndErrors(t *testing.T) {
	buf := &bytes.Buffer{}
	r := NewReporter(buf)
	r.SetTotal(4)

	r.TaskDone(ferrytypes.Outcome{Path: "/a"})
	r.TaskDone(ferrytypes.Outcome{Path: "/b", Err: errors.New("denied")})
	r.TaskDone(ferrytypes.Outcome{Path: "/c"})

	assert.Equal(t, "3/4 files uploaded (1 error)", lastRender(t, buf))
}

func TestReporter_OmitsErrorSegmentWhenZero(t *testing.T) {
	buf := &bytes.Buffer{}
	r := NewReporter(buf)
	r.SetTotal(4)

	r.TaskDone(ferrytypes.Outcome{Path: "/a"})
	r.TaskDone(ferrytypes.Outcome{Path: "/b"})

	line := lastRender(t, buf)
	assert.Equal(t, "2/4 files uploaded", line)
	assert.NotContains(t, line, "error")
}

func TestReporter_PluralizesErrors(t *testing.T) {
	buf := &bytes.Buffer{}
	r := NewReporter(buf)
	r.SetTotal(2)

	r.TaskDone(ferrytypes.Outcome{Path: "/a", Err: errors.New("denied")})
	r.TaskDone(ferrytypes.Outcome{Path: "/b", Err: errors.New("denied")})

	assert.Equal(t, "2/2 files uploaded (2 errors)", lastRender(t, buf))
}

func TestReporter_PadsEveryRenderToWidth(t *testing.T) {
	buf := &bytes.Buffer{}
	r := NewReporter(buf)
	r.SetTotal(2)

	r.TaskDone(ferrytypes.Outcome{Path: "/a"})
	r.TaskDone(ferrytypes.Outcome{Path: "/b"})

	renders := strings.Split(buf.String(), "\r")[1:]
	require.Len(t, renders, 2)
	for _, render := range renders {
		assert.Len(t, render, defaultWidth)
	}
}

func TestReporter_FinishWritesOneNewline(t *testing.T) {
	buf := &bytes.Buffer{}
	r := NewReporter(buf)
	r.SetTotal(1)

	r.TaskDone(ferrytypes.Outcome{Path: "/a"})
	r.Finish()
	r.Finish()

	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestReporter_FinishWithoutRenderIsSilent(t *testing.T) {
	buf := &bytes.Buffer{}
	NewReporter(buf).Finish()
	assert.Zero(t, buf.Len())
}

func TestReporter_ConcurrentTaskDone(t *testing.T) {
	buf := &bytes.Buffer{}
	r := NewReporter(buf)
	r.SetTotal(50)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.TaskDone(ferrytypes.Outcome{Path: "/a"})
		}()
	}
	wg.Wait()

	assert.Equal(t, "50/50 files uploaded", lastRender(t, buf))
}
