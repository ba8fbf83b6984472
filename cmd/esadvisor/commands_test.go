package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dm/esadvisor/internal/client"
	"github.com/dm/esadvisor/internal/client/clienttest"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand("esadvisor")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := NewRootCommand("esadvisor")
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"analyze", "watch", "serve", "version"})
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "esadvisor dev\n", out)
}

func TestAnalyzeCommand_RequiresURI(t *testing.T) {
	_, err := execute(t, "analyze")
	assert.Error(t, err)
}

func TestAnalyzeCommand_RejectsBadOutput(t *testing.T) {
	_, err := execute(t, "analyze", "--output", "yaml", "http://localhost:9200")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--output")
}

func TestAnalyzeCommand_RejectsBadURI(t *testing.T) {
	_, err := execute(t, "analyze", "ftp://localhost:9200")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported scheme")
}

func TestAnalyzeCommand_RejectsNonPositiveTimeout(t *testing.T) {
	_, err := execute(t, "analyze", "--timeout", "0s", "http://localhost:9200")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--timeout")
}

func TestWatchCommand_RejectsNonPositiveInterval(t *testing.T) {
	_, err := execute(t, "watch", "--interval", "0s", "http://localhost:9200")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--interval")
}

func TestServeCommand_MissingConfig(t *testing.T) {
	_, err := execute(t, "serve", "--config", t.TempDir()+"/missing.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestAnalyzeOnce_Success(t *testing.T) {
	report, err := analyzeOnce(context.Background(), &clienttest.MockESClient{})
	require.NoError(t, err)
	require.NotNil(t, report.ClusterHealth)
	assert.Equal(t, "test", report.ClusterHealth.ClusterName)
	assert.Len(t, report.NodeAnalysis, 1)
}

func TestAnalyzeOnce_FetchError(t *testing.T) {
	boom := errors.New("boom")
	mc := &clienttest.MockESClient{
		NodeStatsFn: func(context.Context) (*client.NodeStatsResponse, error) { return nil, boom },
	}
	_, err := analyzeOnce(context.Background(), mc)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "fetch cluster state")
}

func TestWriteReport_JSON(t *testing.T) {
	report, err := analyzeOnce(context.Background(), &clienttest.MockESClient{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, report, "json"))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "recommendations")
	assert.Contains(t, decoded, "summary")
}

func TestWriteReport_Text(t *testing.T) {
	report, err := analyzeOnce(context.Background(), &clienttest.MockESClient{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, report, "text"))
	assert.True(t, strings.Contains(buf.String(), "test"), "report names the cluster")
}

func TestNewLogger(t *testing.T) {
	defer logrus.SetLevel(logrus.InfoLevel)
	defer logrus.SetFormatter(&logrus.TextFormatter{})

	entry, err := newLogger("debug", "json")
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, entry.Logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, entry.Logger.Formatter)
	assert.Equal(t, "esadvisor", entry.Data["component"])

	_, err = newLogger("loud", "text")
	assert.Error(t, err)
}
