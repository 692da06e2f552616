package dto

import (
	"time"

	reminderdto "standwatch/internal/modules/reminder/dto"
)

type SnapshotOutput struct {
	Check     reminderdto.CheckOutput
	HasResult bool
	Status    string
	UpdatedAt time.Time
	LastError string
	Trigger   string
	Cycles    int
}
