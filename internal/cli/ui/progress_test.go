package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/capoala/mvvm/pkg/observable"
)

func TestProgressBar_Set(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, ProgressBarOptions{Width: 10, NoColor: true})

	bar.Set(50)

	assert.Equal(t, "\r\033[K[█████░░░░░]  50%", buf.String())
}

func TestProgressBar_Clamps(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, ProgressBarOptions{Width: 4, NoColor: true})

	bar.Set(150)
	assert.True(t, strings.HasSuffix(buf.String(), "[████] 100%"))

	buf.Reset()
	bar.Set(-5)
	assert.True(t, strings.HasSuffix(buf.String(), "[░░░░]   0%"))
}

type fakeProgress struct {
	observable.Store
}

var fakeProgressMetadata = observable.Declare(nil)

func (p *fakeProgress) Status() string { return observable.Get[string](&p.Store, "Status") }

func (p *fakeProgress) CurrentProgressComplete() float64 {
	return observable.Get[float64](&p.Store, "CurrentProgressComplete")
}

func TestWatchProgress(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, ProgressBarOptions{Width: 4, NoColor: true})
	src := &fakeProgress{}
	src.Init(src, fakeProgressMetadata)

	sub := WatchProgress(bar, src)
	observable.Set(&src.Store, "CurrentProgressComplete", 25.0)
	observable.Set(&src.Store, "Status", "Saving... 25%")

	assert.True(t, strings.HasSuffix(buf.String(), "[█░░░]  25% Saving... 25%"))

	sub.Unsubscribe()
	buf.Reset()
	observable.Set(&src.Store, "CurrentProgressComplete", 75.0)
	assert.Empty(t, buf.String())
}
