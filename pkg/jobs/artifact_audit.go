package jobs

import (
	"context"

	"github.com/booklabs/book-catalog-api/pkg/catalog_api/services"
	"github.com/booklabs/book-catalog-api/pkg/tools"
	"github.com/robfig/cron/v3"
)

// ScheduleDailyArtifactAudit sets up a cron job that backfills missing QR
// code artifacts every day.
func ScheduleDailyArtifactAudit(ctx context.Context, svc *services.BookService) *cron.Cron {
	c := cron.New()
	_, _ = c.AddFunc("@daily", func() {
		tools.Dispatch(context.Background(), "artifact_audit", func(ctx context.Context) error {
			return svc.RegenerateMissingArtifacts(ctx)
		})
	})
	c.Start()

	go func() {
		<-ctx.Done()
		c.Stop()
	}()
	return c
}
