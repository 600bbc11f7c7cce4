package strategy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eurora-ai/eurora-core/pkg/activity"
)

func TestNoStrategyIsAllNoOps(t *testing.T) {
	s := (&noStrategyFactory{hostProcessName: "eurora"}).New(ProcessContext{ProcessName: "eurora"})

	reports := make(chan activity.Report, 1)
	require.NoError(t, s.StartTracking(context.Background(), reports))
	select {
	case r := <-reports:
		t.Fatalf("expected no report from NoStrategy, got %+v", r)
	default:
	}
	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())
}

func TestNoStrategyHandleProcessChange(t *testing.T) {
	s := (&noStrategyFactory{hostProcessName: "eurora"}).New(ProcessContext{ProcessName: "eurora"})
	assert.True(t, s.HandleProcessChange(ProcessContext{ProcessName: "eurora"}))
	assert.False(t, s.HandleProcessChange(ProcessContext{ProcessName: "firefox"}))
}

func TestDefaultStrategyEmitsSingleActivity(t *testing.T) {
	f := newDefaultStrategyFactory()
	s := f.New(ProcessContext{ProcessName: "vscode", WindowTitle: "main.go - VS Code"})

	reports := make(chan activity.Report, 1)
	require.NoError(t, s.StartTracking(context.Background(), reports))

	report := <-reports
	require.Equal(t, activity.ReportNewActivity, report.Kind)
	require.NotNil(t, report.Activity)
	assert.Equal(t, "main.go - VS Code", report.Activity.Name)
	assert.Len(t, report.Activity.Assets, 1)
	assert.Empty(t, report.Activity.Snapshots)
}

func TestDefaultStrategyHandleProcessChangeBoundToProcess(t *testing.T) {
	f := newDefaultStrategyFactory()
	s := f.New(ProcessContext{ProcessName: "vscode"})

	assert.True(t, s.HandleProcessChange(ProcessContext{ProcessName: "vscode", WindowTitle: "other file"}))
	assert.False(t, s.HandleProcessChange(ProcessContext{ProcessName: "firefox"}))
}

func TestIsBrowserProcess(t *testing.T) {
	assert.True(t, IsBrowserProcess("firefox"))
	assert.True(t, IsBrowserProcess("Google Chrome"))
	assert.True(t, IsBrowserProcess("MSEDGE.EXE"))
	assert.False(t, IsBrowserProcess("vscode"))
}

func TestBrowserStrategyHandleProcessChangeTracksCategory(t *testing.T) {
	f := newBrowserStrategyFactory()
	s := f.New(ProcessContext{ProcessName: "firefox"})

	assert.True(t, s.HandleProcessChange(ProcessContext{ProcessName: "chrome"}))
	assert.False(t, s.HandleProcessChange(ProcessContext{ProcessName: "vscode"}))
}

func TestBrowserStrategyWithoutBridgeOpenerIsInert(t *testing.T) {
	SetBridgeOpener(nil)
	f := newBrowserStrategyFactory()
	s := f.New(ProcessContext{ProcessName: "firefox"})

	reports := make(chan activity.Report, 1)
	require.NoError(t, s.StartTracking(context.Background(), reports))
	select {
	case r := <-reports:
		t.Fatalf("expected no report without a bridge opener, got %+v", r)
	default:
	}
	require.NoError(t, s.Stop())
}
