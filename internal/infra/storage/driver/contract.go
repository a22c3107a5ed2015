package driver

import "github.com/m04kA/LogiFlow-BookingService/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
