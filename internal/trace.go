package internal

import (
	"fmt"
	"io"
	"log"

	"github.com/logrusorgru/aurora"
	"github.com/osuushi/sweepline/internal/dbg"
)

// Event tracing for the sweeps. Silent unless a caller points it somewhere,
// which the CLI does for --trace.

var DebugLog = log.New(io.Discard, "", 0)

var colors = aurora.NewAurora(false)

var tracing bool

// Send traces to w, optionally with terminal colours. A nil writer turns
// tracing back off.
func SetTrace(w io.Writer, color bool) {
	if w == nil {
		DebugLog.SetOutput(io.Discard)
		tracing = false
		return
	}
	DebugLog.SetOutput(w)
	colors = aurora.NewAurora(color)
	tracing = true
}

func tracef(format string, args ...interface{}) {
	if !tracing {
		return
	}
	DebugLog.Output(2, fmt.Sprintf(format, args...))
}

func (kind eventKind) colored() aurora.Value {
	switch kind {
	case eventStart:
		return colors.Green(kind)
	case eventEnd:
		return colors.Red(kind)
	default:
		return colors.Cyan(kind)
	}
}

func (kind pointType) colored() aurora.Value {
	switch kind {
	case pointEnter:
		return colors.Green(kind)
	case pointLeave:
		return colors.Red(kind)
	case pointSplit:
		return colors.Yellow(kind)
	case pointMerge:
		return colors.Magenta(kind)
	default:
		return colors.Cyan(kind)
	}
}

func (s *segmentWrapper) DbgName() string {
	return dbg.Name(s)
}

func (c *chain) DbgName() string {
	return dbg.Name(c)
}
