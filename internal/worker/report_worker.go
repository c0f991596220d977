package worker

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/deskhive/support-desk/internal/service"
)

// StartNotificationWorker registers notification handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}

// StartReportWorker schedules pre-generation of both report formats so
// the redis cache is warm when staff request a download.
func StartReportWorker(schedule string, reports *service.ReportService, logger *zap.Logger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx := context.Background()
		for _, format := range []string{service.FormatCSV, service.FormatPDF} {
			if _, err := reports.GenerateRequestReports(ctx, format); err != nil {
				logger.Warn("scheduled report generation failed",
					zap.String("format", format), zap.Error(err))
			}
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	logger.Info("report worker started", zap.String("schedule", schedule))
	return c, nil
}
