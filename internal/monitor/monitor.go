// Package monitor polls the configured clusters on a cron schedule and keeps
// each cluster's latest analysis and sample history in memory.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron"
	"github.com/sirupsen/logrus"

	"github.com/dm/esadvisor/internal/advisor"
	"github.com/dm/esadvisor/internal/client"
	"github.com/dm/esadvisor/internal/config"
	"github.com/dm/esadvisor/internal/engine"
	"github.com/dm/esadvisor/internal/metrics"
	"github.com/dm/esadvisor/internal/model"
	"github.com/dm/esadvisor/internal/notify"
)

var (
	// ErrUnknownCluster is returned for a cluster name not in the config.
	ErrUnknownCluster = errors.New("unknown cluster")
	// ErrNoReport is returned before a cluster's first successful poll.
	ErrNoReport = errors.New("no report yet")
	// ErrClusterUnavailable wraps a failed live request to a cluster.
	ErrClusterUnavailable = errors.New("cluster unavailable")
)

// ClientFactory builds the Elasticsearch client for one cluster.
type ClientFactory func(cfg config.Cluster) (client.ESClient, error)

// DefaultFactory builds a go-elasticsearch backed client.
func DefaultFactory(cfg config.Cluster) (client.ESClient, error) {
	return client.NewDefaultClient(client.ClientConfig{
		BaseURL:            cfg.URL,
		Username:           cfg.Username,
		Password:           cfg.Password,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
		RequestTimeout:     cfg.RequestTimeout,
	})
}

// Result is one successful analysis of a cluster.
type Result struct {
	Cluster   string                   `json:"cluster"`
	FetchedAt time.Time                `json:"fetchedAt"`
	Rates     model.PerformanceMetrics `json:"rates"`
	Report    advisor.Report           `json:"report"`
}

// ClusterStatus is the public view of one cluster's polling state.
type ClusterStatus struct {
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	LastPoll  time.Time `json:"lastPoll"`
	LastError string    `json:"lastError,omitempty"`
	HasReport bool      `json:"hasReport"`
	Critical  int       `json:"critical"`
	Warnings  int       `json:"warnings"`
}

// Averages are the simple means of a cluster's sample history.
type Averages struct {
	Samples      int     `json:"samples"`
	HeapPercent  float64 `json:"avgHeapPercent"`
	CPUPercent   float64 `json:"avgCpuPercent"`
	DiskPercent  float64 `json:"avgDiskPercent"`
	IndexingRate float64 `json:"indexingRate"`
	SearchRate   float64 `json:"searchRate"`
}

type clusterState struct {
	cfg      config.Cluster
	client   client.ESClient
	endpoint string

	// pollMu serializes polls of this cluster (cron and on-demand refresh).
	pollMu sync.Mutex

	// Guarded by Monitor.mu.
	latest   *Result
	prevSnap *model.Snapshot
	history  *model.SampleHistory
	nodes    *model.NodeHistory
	lastErr  error
	lastPoll time.Time
}

// Monitor owns the per-cluster state.
type Monitor struct {
	schedule string
	order    []string
	notifier notify.Notifier
	exporter *metrics.Exporter
	log      *logrus.Entry

	mu       sync.RWMutex
	clusters map[string]*clusterState

	cron    *cron.Cron
	ctx     context.Context
	cancel  context.CancelFunc
	runMu   sync.Mutex
	stopped bool
	wg      sync.WaitGroup
}

// Option customises a Monitor.
type Option func(*Monitor)

// WithNotifier sets the notifier for new critical recommendations.
func WithNotifier(n notify.Notifier) Option {
	return func(m *Monitor) { m.notifier = n }
}

// WithExporter records every poll in e.
func WithExporter(e *metrics.Exporter) Option {
	return func(m *Monitor) { m.exporter = e }
}

// WithLogger sets the log entry used for poll results.
func WithLogger(l *logrus.Entry) Option {
	return func(m *Monitor) { m.log = l }
}

// New creates one client per configured cluster. cfg should already have
// defaults applied.
func New(cfg config.Config, factory ClientFactory, opts ...Option) (*Monitor, error) {
	if factory == nil {
		factory = DefaultFactory
	}
	m := &Monitor{
		schedule: cfg.Poll.Schedule,
		notifier: notify.Nop{},
		log:      logrus.NewEntry(logrus.StandardLogger()),
		clusters: make(map[string]*clusterState, len(cfg.Clusters)),
	}
	if m.schedule == "" {
		m.schedule = config.DefaultSchedule
	}
	for _, opt := range opts {
		opt(m)
	}

	for _, cl := range cfg.Clusters {
		c, err := factory(cl)
		if err != nil {
			return nil, fmt.Errorf("New: cluster %s: %w", cl.Name, err)
		}
		m.clusters[cl.Name] = &clusterState{
			cfg:      cl,
			client:   c,
			endpoint: engine.CommandEndpoint(cl.URL),
			history:  model.NewSampleHistory(cfg.Poll.HistorySize),
			nodes:    model.NewNodeHistory(cfg.Poll.HistorySize),
		}
		m.order = append(m.order, cl.Name)
	}
	return m, nil
}

// Start schedules pollAll on the configured cron schedule and runs one poll
// immediately in the background.
func (m *Monitor) Start() error {
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.cron = cron.New()
	if err := m.cron.AddFunc(m.schedule, m.runPoll); err != nil {
		m.cancel()
		return fmt.Errorf("Start: schedule %q: %w", m.schedule, err)
	}
	m.cron.Start()
	go m.runPoll()
	m.log.WithField("schedule", m.schedule).Info("monitor started")
	return nil
}

// Stop stops the scheduler, cancels in-flight polls and waits for them.
func (m *Monitor) Stop() {
	if m.cron == nil {
		return
	}
	m.runMu.Lock()
	m.stopped = true
	m.runMu.Unlock()
	m.cron.Stop()
	m.cancel()
	m.wg.Wait()
	m.log.Info("monitor stopped")
}

func (m *Monitor) runPoll() {
	m.runMu.Lock()
	if m.stopped {
		m.runMu.Unlock()
		return
	}
	m.wg.Add(1)
	m.runMu.Unlock()
	defer m.wg.Done()
	m.pollAll(m.ctx)
}

// pollAll polls every cluster sequentially in config order. Failures are
// logged and do not stop the remaining clusters.
func (m *Monitor) pollAll(ctx context.Context) {
	for _, name := range m.order {
		if ctx.Err() != nil {
			return
		}
		_, _ = m.PollCluster(ctx, name)
	}
}

// PollCluster fetches and analyzes one cluster, updates its cached result
// and history, records metrics and notifies new critical recommendations.
// On failure the previous result stays cached.
func (m *Monitor) PollCluster(ctx context.Context, name string) (Result, error) {
	m.mu.RLock()
	st, ok := m.clusters[name]
	m.mu.RUnlock()
	if !ok {
		return Result{}, ErrUnknownCluster
	}

	st.pollMu.Lock()
	defer st.pollMu.Unlock()

	start := time.Now()
	log := m.log.WithField("cluster", name)

	snap, err := engine.FetchAll(ctx, st.client)
	if err != nil {
		m.mu.Lock()
		st.lastErr = err
		m.mu.Unlock()
		if m.exporter != nil {
			m.exporter.PollFailed(name)
		}
		log.WithError(err).WithField("duration", time.Since(start)).Warn("poll failed")
		return Result{}, fmt.Errorf("PollCluster %s: %w", name, err)
	}

	m.mu.RLock()
	prevSnap := st.prevSnap
	var prevRecs []model.Recommendation
	if st.latest != nil {
		prevRecs = st.latest.Report.Recommendations
	}
	m.mu.RUnlock()

	var rates model.PerformanceMetrics
	if prevSnap != nil {
		rates = engine.CalcClusterRates(prevSnap, snap, snap.FetchedAt.Sub(prevSnap.FetchedAt))
	}
	report := engine.Analyze(snap, st.endpoint)
	res := Result{Cluster: name, FetchedAt: snap.FetchedAt, Rates: rates, Report: report}

	m.mu.Lock()
	st.latest = &res
	st.prevSnap = snap
	st.lastErr = nil
	st.lastPoll = snap.FetchedAt
	st.history.Push(model.NewSample(res.FetchedAt, res.Report.Summary, res.Rates))
	st.nodes.Push(res.FetchedAt, res.Report.NodeAnalysis)
	m.mu.Unlock()

	if m.exporter != nil {
		m.exporter.Observe(name, report, snap.FetchedAt)
	}

	if fresh := notify.NewCritical(prevRecs, report.Recommendations); len(fresh) > 0 {
		if err := m.notifier.Notify(ctx, name, fresh); err != nil {
			log.WithError(err).Warn("notification failed")
		}
	}

	log.WithFields(logrus.Fields{
		"duration":        time.Since(start),
		"recommendations": len(report.Recommendations),
		"critical":        report.Summary.CriticalIssues,
	}).Info("poll complete")
	return res, nil
}

// Latest returns the cached result for name.
func (m *Monitor) Latest(name string) (Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.clusters[name]
	if !ok {
		return Result{}, ErrUnknownCluster
	}
	if st.latest == nil {
		return Result{}, ErrNoReport
	}
	return *st.latest, nil
}

// History returns name's samples, oldest first.
func (m *Monitor) History(name string) ([]model.Sample, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.clusters[name]
	if !ok {
		return nil, ErrUnknownCluster
	}
	return st.history.Samples(), nil
}

// Averages returns the means over name's lookback window.
func (m *Monitor) Averages(name string) (Averages, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.clusters[name]
	if !ok {
		return Averages{}, ErrUnknownCluster
	}
	h := st.history
	return Averages{
		Samples:      h.Len(),
		HeapPercent:  h.Average("heap"),
		CPUPercent:   h.Average("cpu"),
		DiskPercent:  h.Average("disk"),
		IndexingRate: h.Average("indexingRate"),
		SearchRate:   h.Average("searchRate"),
	}, nil
}

// ProblemNodes returns the nodes of name whose average CPU exceeds cpu or
// whose average heap exceeds heap, over the samples kept for each node.
func (m *Monitor) ProblemNodes(name string, cpu, heap float64) ([]model.NodeAverage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.clusters[name]
	if !ok {
		return nil, ErrUnknownCluster
	}
	return model.ProblemNodes(st.nodes.Averages(), cpu, heap), nil
}

// Recovery returns the shard recoveries active at name's last poll.
func (m *Monitor) Recovery(name string) ([]model.Recovery, error) {
	res, err := m.Latest(name)
	if err != nil {
		return nil, err
	}
	if res.Report.Recoveries == nil {
		return []model.Recovery{}, nil
	}
	return res.Report.Recoveries, nil
}

// HotThreads asks name for its hot threads. The request goes to the cluster
// directly and is not cached.
func (m *Monitor) HotThreads(ctx context.Context, name string) (string, error) {
	m.mu.RLock()
	st, ok := m.clusters[name]
	m.mu.RUnlock()
	if !ok {
		return "", ErrUnknownCluster
	}
	out, err := st.client.GetHotThreads(ctx)
	if err != nil {
		m.log.WithField("cluster", name).WithError(err).Warn("hot threads failed")
		return "", fmt.Errorf("HotThreads %s: %w: %w", name, ErrClusterUnavailable, err)
	}
	return out, nil
}

// Clusters lists every configured cluster in config order.
func (m *Monitor) Clusters() []ClusterStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ClusterStatus, 0, len(m.order))
	for _, name := range m.order {
		st := m.clusters[name]
		cs := ClusterStatus{
			Name:      name,
			URL:       st.endpoint,
			LastPoll:  st.lastPoll,
			HasReport: st.latest != nil,
		}
		if st.lastErr != nil {
			cs.LastError = st.lastErr.Error()
		}
		if st.latest != nil {
			cs.Critical = st.latest.Report.Summary.CriticalIssues
			cs.Warnings = st.latest.Report.Summary.Warnings
		}
		out = append(out, cs)
	}
	return out
}
