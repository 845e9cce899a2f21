package models

import (
	"encoding/json"
	"time"
)

// EmailReport archives a report that was successfully emailed.
type EmailReport struct {
	ID          int64           `db:"id" json:"id"`
	PrincipalID int64           `db:"principal_id" json:"principal_id"`
	ReportDate  time.Time       `db:"report_date" json:"report_date"`
	Recipients  string          `db:"recipients" json:"recipients"`
	ReportData  json.RawMessage `db:"report_data" json:"report_data"`
	SentAt      time.Time       `db:"sent_at" json:"sent_at"`
}
