package domain

import "time"

// TrackingUpdateType тип записи трекинга
type TrackingUpdateType string

const (
	UpdateTypeStatus  TrackingUpdateType = "status"
	UpdateTypePayment TrackingUpdateType = "payment"
)

// TrackingUpdate запись журнала бронирования. Только добавляется, никогда не меняется.
type TrackingUpdate struct {
	ID            int64
	BookingID     int64
	Status        string
	Location      *string
	Coordinates   *Coordinates
	Notes         *string
	UpdatedBy     *int64 // nil для системных записей
	UpdatedByName *string
	UpdateType    TrackingUpdateType
	IsPublic      bool
	CreatedAt     time.Time
}
