package journal

import (
	"time"

	"go.uber.org/zap"
	"helmetwatch.xyz/alert-console/pkg/common"
	"helmetwatch.xyz/alert-console/pkg/db"
	"helmetwatch.xyz/alert-console/pkg/models"
)

const defaultListLimit = 100

// Journal keeps the local audit trail of surfaced alerts and relayed
// acknowledgments. It never feeds back into alert selection.
type Journal struct {
	Db db.DB
}

func (j *Journal) Record(entry *models.JournalEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	if err := j.Db.Conn.Create(entry).Error; err != nil {
		return err
	}

	common.GetCategoryLogger(common.LoggerNameConsole, common.LoggerCategoryNotify).
		Debug("Journal entry saved", zap.Reflect("entry", entry))
	return nil
}

func (j *Journal) List(limit int) ([]models.JournalEntry, error) {
	if limit <= 0 || limit > 1000 {
		limit = defaultListLimit
	}

	var entries []models.JournalEntry
	err := j.Db.Conn.
		Order("created_at desc").
		Order("id desc").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (j *Journal) ListForAlert(alertID string) ([]models.JournalEntry, error) {
	var entries []models.JournalEntry
	err := j.Db.Conn.
		Where("alert_id = ?", alertID).
		Order("created_at desc").
		Order("id desc").
		Find(&entries).Error
	return entries, err
}
