// SPDX-License-Identifier: BSD-3-Clause

package hidtransport

import (
	"context"

	"github.com/rmkfw/rmk/pkg/hidreport"
	"github.com/rmkfw/rmk/pkg/log"
)

// Writer is implemented once per active transport (USB, BLE). WriteReport
// is awaitable; on disconnect it returns ErrDisconnected and the caller
// drops the report instead of queuing it.
type Writer interface {
	WriteReport(ctx context.Context, r hidreport.Report) error
	Name() string
}

// ReportChannel is the shape of the global KEYBOARD_REPORT_CHANNEL the
// keyboard engine sends into: MPSC, capacity 4-16.
type ReportChannel <-chan hidreport.Report

// NewReportChannel allocates the sender/receiver pair for one process. The
// keyboard engine holds the returned chan<- side; RunnableHidWriter holds
// the <-chan side via ReportChannel.
func NewReportChannel(capacity int) chan hidreport.Report {
	if capacity <= 0 {
		capacity = 8
	}
	return make(chan hidreport.Report, capacity)
}

// RunnableHidWriter drains ReportChannel and writes each report to one or
// more Writers. A disconnected writer's error is logged at debug and the
// report is dropped for that writer only — other active transports still
// receive it (e.g. USB connected, BLE mid-reconnect).
type RunnableHidWriter struct {
	reports <-chan hidreport.Report
	writers []Writer
}

// NewRunnableHidWriter builds a writer loop over reports, fanning out to
// every w in writers.
func NewRunnableHidWriter(reports <-chan hidreport.Report, writers ...Writer) *RunnableHidWriter {
	return &RunnableHidWriter{reports: reports, writers: writers}
}

// Run blocks, writing every report received until ctx is canceled or the
// channel closes.
func (w *RunnableHidWriter) Run(ctx context.Context) error {
	logger := log.GetGlobalLogger().With("component", "hidwriter")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case r, ok := <-w.reports:
			if !ok {
				return nil
			}
			for _, tw := range w.writers {
				if err := tw.WriteReport(ctx, r); err != nil {
					logger.DebugContext(ctx, "report dropped", "transport", tw.Name(), "err", err)
				}
			}
		}
	}
}
