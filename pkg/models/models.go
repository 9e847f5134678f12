package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Millis is an epoch timestamp in milliseconds. The feed writes numbers, but
// older writers put RFC3339 strings, so both are accepted when decoding.
type Millis int64

func MillisOf(t time.Time) Millis {
	return Millis(t.UnixMilli())
}

func (m Millis) Time() time.Time {
	return time.UnixMilli(int64(m))
}

func (m *Millis) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*m = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*m = 0
			return nil
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			*m = Millis(n)
			return nil
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("timestamp %q is neither epoch millis nor RFC3339: %w", s, err)
		}
		*m = MillisOf(t)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("invalid timestamp %s: %w", string(data), err)
	}
	*m = Millis(int64(f))
	return nil
}

type AlertType string

const (
	AlertTypeHelmetEmergency AlertType = "Helmet Emergency Button"
	AlertTypeEnvironmental   AlertType = "Environmental Alert"
)

// Alert is a safety event as delivered by the realtime feed.
type Alert struct {
	ID           string    `json:"id"`
	Message      string    `json:"message"`
	HelmetID     string    `json:"helmetId,omitempty"`
	Location     string    `json:"location,omitempty"`
	Type         AlertType `json:"type,omitempty"`
	MinerID      string    `json:"minerId,omitempty"`
	Severity     string    `json:"severity,omitempty"`
	Timestamp    Millis    `json:"timestamp"`
	Acknowledged bool      `json:"acknowledged"`
	ResolvedBy   string    `json:"resolvedBy,omitempty"`
}

type NotificationKind string

const (
	NotificationKindAlert NotificationKind = "alert"
	NotificationKindError NotificationKind = "error"
)

const NotificationActionAcknowledge = "acknowledge"

// Notification is a transient operator notice. A zero Duration never auto-dismisses.
type Notification struct {
	Key       string           `json:"key"`
	Kind      NotificationKind `json:"kind"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	AlertID   string           `json:"alertId,omitempty"`
	HelmetID  string           `json:"helmetId,omitempty"`
	Location  string           `json:"location,omitempty"`
	Actions   []string         `json:"actions,omitempty"`
	Duration  time.Duration    `json:"duration"`
	CreatedAt time.Time        `json:"createdAt"`
}

type JournalKind string

const (
	JournalKindShown        JournalKind = "shown"
	JournalKindCleared      JournalKind = "cleared"
	JournalKindAcknowledged JournalKind = "acknowledged"
	JournalKindAckFailed    JournalKind = "ack_failed"
)

// JournalEntry is the local audit trail of what the console surfaced and relayed.
type JournalEntry struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	AlertID   string      `gorm:"index" json:"alertId"`
	Kind      JournalKind `gorm:"type:varchar(20);check:kind IN ('shown','cleared','acknowledged','ack_failed')" json:"kind"`
	Message   string      `json:"message"`
	HelmetID  string      `json:"helmetId"`
	Location  string      `json:"location"`
	Actor     string      `json:"actor"`
	Detail    string      `json:"detail"`
	CreatedAt time.Time   `gorm:"index" json:"createdAt"`
}

// AcknowledgeRequest is the body of PUT /alerts/{alertId}/acknowledge.
type AcknowledgeRequest struct {
	ResolvedBy string `json:"resolvedBy"`
}

type AcknowledgeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
