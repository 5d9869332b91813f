package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/gymapp/internal/snapshot"
)

type recordingExporter struct {
	ctxErr      error
	hasDeadline bool
}

func (r *recordingExporter) ExportAll(ctx context.Context) snapshot.Report {
	r.ctxErr = ctx.Err()
	_, r.hasDeadline = ctx.Deadline()
	return snapshot.Report{Results: []snapshot.Result{{Collection: snapshot.Users, Count: 3}}}
}

func TestExportOnShutdownOutlivesServerShutdown(t *testing.T) {
	e := &recordingExporter{}
	report := exportOnShutdown(e, time.Second)

	require.NoError(t, e.ctxErr)
	assert.True(t, e.hasDeadline)
	assert.Equal(t, 3, report.Total())
}

func TestStartScheduler(t *testing.T) {
	c, err := startScheduler("", nil)
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = startScheduler("not a schedule", nil)
	require.Error(t, err)
}
