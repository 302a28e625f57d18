package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mezonai/vewallet/logx"
)

type TransferResult string

var (
	TransferSucceeded      TransferResult = "succeeded"
	TransferReverted       TransferResult = "reverted"
	TransferSponsorRefused TransferResult = "sponsor_refused"
	TransferSubmitFailed   TransferResult = "submit_failed"
	TransferTimedOut       TransferResult = "timed_out"
	TransferFailedUnknown  TransferResult = "other"
)

type walletPromMetrics struct {
	upUnixSeconds    prometheus.Gauge
	loginCount       *prometheus.CounterVec
	sessionState     *prometheus.GaugeVec
	providerRequests *prometheus.CounterVec
	transferCount    *prometheus.CounterVec
	sponsorLatency   prometheus.Histogram
	receiptWait      prometheus.Histogram
	pendingTransfers prometheus.Gauge
	panicCount       prometheus.Counter
}

func newWalletPromMetrics() *walletPromMetrics {
	return &walletPromMetrics{
		upUnixSeconds: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "vewallet_up_timestamp_unix_seconds",
				Help: "Unix timestamp of the wallet service start",
			},
		),
		loginCount: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vewallet_login_count",
				Help: "The total number of login attempts by result",
			},
			[]string{"result"},
		),
		sessionState: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "vewallet_session_state",
				Help: "1 for the current session state, 0 otherwise",
			},
			[]string{"state"},
		),
		providerRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vewallet_provider_requests",
				Help: "The total number of provider requests by method",
			},
			[]string{"method"},
		),
		transferCount: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vewallet_transfer_count",
				Help: "The total number of sponsored transfers by result",
			},
			[]string{"result"},
		),
		sponsorLatency: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name: "vewallet_sponsor_latency",
				Help: "Latency in second of sponsor co-signing requests",
			},
		),
		receiptWait: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "vewallet_receipt_wait",
				Help:    "Duration in second from submission until the receipt is available",
				Buckets: []float64{1, 5, 10, 20, 30, 60, 120},
			},
		),
		pendingTransfers: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "vewallet_pending_transfers",
				Help: "Number of submitted transfers still waiting for a receipt",
			},
		),
		panicCount: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "vewallet_panic_count",
				Help: "The total number of recovered panics",
			},
		),
	}
}

var (
	walletMetrics *walletPromMetrics
	initOnce      sync.Once
)

// InitMetrics registers the wallet metrics with the default registry. Recorders
// are no-ops until it is called.
func InitMetrics() {
	initOnce.Do(func() {
		walletMetrics = newWalletPromMetrics()
		walletMetrics.upUnixSeconds.SetToCurrentTime()
	})
}

func RegisterMetrics(mux *http.ServeMux) {
	logx.Info("METRICS", "Registering prometheus metrics")
	mux.Handle("/metrics", promhttp.Handler())
}

func RecordLogin(result string) {
	if walletMetrics == nil {
		return
	}
	walletMetrics.loginCount.With(prometheus.Labels{"result": result}).Inc()
}

// SetSessionState flags state as current and clears every other known state.
func SetSessionState(state string, known []string) {
	if walletMetrics == nil {
		return
	}
	for _, s := range known {
		v := 0.0
		if s == state {
			v = 1
		}
		walletMetrics.sessionState.With(prometheus.Labels{"state": s}).Set(v)
	}
}

func IncreaseProviderRequest(method string) {
	if walletMetrics == nil {
		return
	}
	walletMetrics.providerRequests.With(prometheus.Labels{"method": method}).Inc()
}

func RecordTransfer(result TransferResult) {
	if walletMetrics == nil {
		return
	}
	walletMetrics.transferCount.With(prometheus.Labels{"result": string(result)}).Inc()
}

func RecordSponsorLatency(duration time.Duration) {
	if walletMetrics == nil {
		return
	}
	walletMetrics.sponsorLatency.Observe(duration.Seconds())
}

func RecordReceiptWait(duration time.Duration) {
	if walletMetrics == nil {
		return
	}
	walletMetrics.receiptWait.Observe(duration.Seconds())
}

func SetPendingTransfers(count int64) {
	if walletMetrics == nil {
		return
	}
	walletMetrics.pendingTransfers.Set(float64(count))
}

func IncreasePanicCount() {
	if walletMetrics == nil {
		return
	}
	walletMetrics.panicCount.Inc()
}
