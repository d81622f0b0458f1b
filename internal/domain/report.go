package domain

import "time"

type ReportType string

const (
	ReportTypeMember ReportType = "member"
	ReportTypeEvent  ReportType = "event"
)

func (t ReportType) Valid() bool {
	return t == ReportTypeMember || t == ReportTypeEvent
}

type Report struct {
	ID          string           `json:"id"`
	ClubID      string           `json:"club_id"`
	Type        ReportType       `json:"type"`
	Data        map[string]int32 `json:"data"`
	GeneratedAt time.Time        `json:"generated_at"`
	GeneratedBy string           `json:"generated_by"`
}
