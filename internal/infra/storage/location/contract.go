package location

import "github.com/m04kA/LogiFlow-BookingService/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
