package db

import (
	"context"
	"errors"
	"net"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
)

// connectivityCodes are SQLSTATE codes that mean the server went away rather
// than the statement being wrong.
var connectivityCodes = map[string]struct{}{
	"08000": {}, // connection_exception
	"08001": {}, // sqlclient_unable_to_establish_sqlconnection
	"08003": {}, // connection_does_not_exist
	"08004": {}, // sqlserver_rejected_establishment_of_sqlconnection
	"08006": {}, // connection_failure
	"57P01": {}, // admin_shutdown
	"57P02": {}, // crash_shutdown
	"57P03": {}, // cannot_connect_now
}

var connectivityErrnos = []syscall.Errno{
	syscall.ECONNREFUSED,
	syscall.ECONNRESET,
	syscall.ETIMEDOUT,
	syscall.EHOSTUNREACH,
	syscall.ENETUNREACH,
}

// ConnectionError reports that the database server could not be reached.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return "unable to reach the database server: " + e.Err.Error()
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// QueryError reports a failure that happened after a connection existed.
type QueryError struct {
	Err error
}

func (e *QueryError) Error() string {
	return "database query failed: " + e.Err.Error()
}

func (e *QueryError) Unwrap() error { return e.Err }

// Classify wraps err into a ConnectionError or QueryError. Already classified
// errors and nil pass through unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var connErr *ConnectionError
	var queryErr *QueryError
	if errors.As(err, &connErr) || errors.As(err, &queryErr) {
		return err
	}
	if IsConnectivity(err) {
		return &ConnectionError{Err: err}
	}
	return &QueryError{Err: err}
}

// IsConnectivity reports whether err is a network or server availability
// problem.
func IsConnectivity(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		_, ok := connectivityCodes[pgErr.Code]
		return ok
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	for _, errno := range connectivityErrnos {
		if errors.Is(err, errno) {
			return true
		}
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}
