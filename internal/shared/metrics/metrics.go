package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	pinsUploadedTotal     atomic.Uint64
	pinsUploadFailedTotal atomic.Uint64
	pinsDeletedTotal      atomic.Uint64
	pinsDeleteFailedTotal atomic.Uint64
	otpSentTotal          atomic.Uint64
	otpVerifiedTotal      atomic.Uint64
	otpRejectedTotal      atomic.Uint64

	pinUploadDuration = newHistogram([]float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000})
)

// IncPinUploaded counts a successful pin upload.
func IncPinUploaded() { pinsUploadedTotal.Add(1) }

// IncPinUploadFailed counts a failed pin upload.
func IncPinUploadFailed() { pinsUploadFailedTotal.Add(1) }

// IncPinDeleted counts a successful unpin.
func IncPinDeleted() { pinsDeletedTotal.Add(1) }

// IncPinDeleteFailed counts a failed unpin.
func IncPinDeleteFailed() { pinsDeleteFailedTotal.Add(1) }

func IncOTPSent()     { otpSentTotal.Add(1) }
func IncOTPVerified() { otpVerifiedTotal.Add(1) }
func IncOTPRejected() { otpRejectedTotal.Add(1) }

// ObservePinUploadDurationMs records a pin upload duration in milliseconds.
func ObservePinUploadDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	pinUploadDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "pins_uploaded_total", "Total files pinned", pinsUploadedTotal.Load())
	writeCounter(&buf, "pins_upload_failed_total", "Total failed pin uploads", pinsUploadFailedTotal.Load())
	writeCounter(&buf, "pins_deleted_total", "Total pins removed", pinsDeletedTotal.Load())
	writeCounter(&buf, "pins_delete_failed_total", "Total failed unpin calls", pinsDeleteFailedTotal.Load())
	writeCounter(&buf, "otp_sent_total", "Total OTP codes sent", otpSentTotal.Load())
	writeCounter(&buf, "otp_verified_total", "Total OTP codes accepted", otpVerifiedTotal.Load())
	writeCounter(&buf, "otp_rejected_total", "Total OTP codes rejected", otpRejectedTotal.Load())
	writeHistogram(&buf, "pin_upload_duration_ms", "Pin upload duration in milliseconds", pinUploadDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
