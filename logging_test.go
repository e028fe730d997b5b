package bump

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLoggerLevels(t *testing.T) {
	var out, errs bytes.Buffer
	l := NewDefaultLogger("bump test", false)
	l.out = log.New(&out, "", 0)
	l.err = log.New(&errs, "", 0)

	l.Debugf("hidden %d", 1)
	assert.Empty(t, out.String())

	l.SetDebug(true)
	assert.True(t, l.DebugEnabled())
	l.Debugf("shown %d", 2)
	l.Infof("info")
	l.Warnf("lost %d leaves", 3)

	assert.Equal(t, "[bump test] DEBUG: shown 2\n[bump test] INFO: info\n", out.String())
	assert.Equal(t, "[bump test] WARN: lost 3 leaves\n", errs.String())
}

func TestSystemUsesInjectedLogger(t *testing.T) {
	nop := NewNopLogger()
	s := newTestSystem(t, nil, WithLogger(nop))
	assert.Same(t, nop, s.Logger())
}

func TestDefaultLoggerStampsTick(t *testing.T) {
	var out bytes.Buffer
	l := NewDefaultLogger("bump test", false)
	l.out = log.New(&out, "", 0)

	tick := uint64(41)
	l.SetClock(func() uint64 { return tick })
	l.Infof("rebuilt")
	tick++
	l.Infof("rebuilt")

	assert.Equal(t, "[bump test t41] INFO: rebuilt\n[bump test t42] INFO: rebuilt\n", out.String())
}
