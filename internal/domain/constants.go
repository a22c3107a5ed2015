package domain

// AllStatuses все статусы жизненного цикла бронирования в порядке продвижения
var AllStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusAssigned,
	StatusPickedUp,
	StatusInTransit,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
	StatusFailed,
}

// ActiveStatuses статусы, в которых груз находится в работе у водителя
var ActiveStatuses = []BookingStatus{
	StatusAssigned,
	StatusPickedUp,
	StatusInTransit,
	StatusOutForDelivery,
}

// InWorkStatuses статусы, которые статистика считает активными
var InWorkStatuses = []BookingStatus{
	StatusConfirmed,
	StatusAssigned,
	StatusPickedUp,
	StatusInTransit,
	StatusOutForDelivery,
}

// InactiveStatuses терминальные статусы
var InactiveStatuses = []BookingStatus{
	StatusDelivered,
	StatusCancelled,
	StatusFailed,
}

const (
	// MaxNotesLength максимальная длина комментария к бронированию
	MaxNotesLength = 1000

	// MaxAddressLength максимальная длина адреса
	MaxAddressLength = 500

	// MaxDescriptionLength максимальная длина описания груза
	MaxDescriptionLength = 255

	// CustomerStatsWindowDays окно подсчета уникальных клиентов для админской статистики
	CustomerStatsWindowDays = 30
)

// Тексты записей трекинга
const (
	TrackingLabelCreated        = "Booking Created"
	TrackingLabelDriverAssigned = "Driver Assigned"

	TrackingNotesCreated        = "Your booking has been created successfully and is pending driver assignment"
	TrackingNotesDriverAssigned = "A professional driver has been assigned to your delivery"
)
