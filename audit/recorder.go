package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/lumabank/chequer/db/models"
	"github.com/lumabank/chequer/internal/strutil"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// maxContextBytes caps the stored conversation context; utterances are
// unbounded on input but the audit row is not.
const maxContextBytes = 2048

// Entry describes one attempted operation, successful or not.
type Entry struct {
	UserID           int64
	Operation        string
	Success          bool
	CounterpartyID   *int64
	Amount           *decimal.Decimal
	Context          string
	IntentConfidence float64
}

// Recorder appends one immutable TransactionRecord per processed
// utterance. An optional JSONL sink mirrors every row; mirror failures
// are logged and never fail the operation.
type Recorder struct {
	db   *gorm.DB
	sink *JSONLSink
	log  *slog.Logger
}

func NewRecorder(gdb *gorm.DB, sink *JSONLSink, log *slog.Logger) *Recorder {
	if log == nil {
		log = slog.Default()
	}
	return &Recorder{db: gdb, sink: sink, log: log}
}

func (r *Recorder) Record(ctx context.Context, e Entry) (models.TransactionRecord, error) {
	status := models.RecordFailure
	if e.Success {
		status = models.RecordSuccess
	}
	row := models.TransactionRecord{
		UserID:              e.UserID,
		OperationType:       e.Operation,
		Status:              status,
		CounterpartyID:      e.CounterpartyID,
		Amount:              e.Amount,
		ConversationContext: strutil.TruncateUTF8(e.Context, maxContextBytes),
		IntentConfidence:    e.IntentConfidence,
		CreatedAt:           time.Now().Unix(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return models.TransactionRecord{}, err
	}
	if r.sink != nil {
		if err := r.sink.Emit(ctx, eventFromRecord(row)); err != nil {
			r.log.Warn("audit mirror write failed", "error", err)
		}
	}
	return row, nil
}

// History returns the newest records for a user, newest first.
func (r *Recorder) History(ctx context.Context, userID int64, limit int) ([]models.TransactionRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	var rows []models.TransactionRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
