package sysupdate

import (
	"strings"
	"time"

	"github.com/frahmantamala/helpdesk-console/internal/core/common/validation"
)

type ScheduleRequest struct {
	ScheduledAt string `json:"scheduled_at"`
}

func (r ScheduleRequest) Validate() error {
	v := validation.NewValidator()
	v.Field("scheduled_at", r.ScheduledAt).Required().Timestamp()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (r ScheduleRequest) At() time.Time {
	at, _ := time.Parse(time.RFC3339, strings.TrimSpace(r.ScheduledAt))
	return at
}
