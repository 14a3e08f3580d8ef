package enums

import "strings"

// SessionStatus - состояние сессии работы или крафта.
//
// Жизненный цикл: PREPARING -> IN_PROGRESS -> (COMPLETED | CANCELLED | FAILED).
// Завершенные сессии уходят в историю и больше не меняются.
type SessionStatus uint8

const (
	SessionUnknown SessionStatus = iota
	SessionPreparing
	SessionInProgress
	SessionCompleted
	SessionCancelled
	SessionFailed
)

var sessionStatusToString = map[SessionStatus]string{
	SessionPreparing:  "PREPARING",
	SessionInProgress: "IN_PROGRESS",
	SessionCompleted:  "COMPLETED",
	SessionCancelled:  "CANCELLED",
	SessionFailed:     "FAILED",
}

var sessionStatusStringToType = map[string]SessionStatus{
	"PREPARING":   SessionPreparing,
	"IN_PROGRESS": SessionInProgress,
	"COMPLETED":   SessionCompleted,
	"CANCELLED":   SessionCancelled,
	"FAILED":      SessionFailed,
}

func (s SessionStatus) String() string {
	if val, ok := sessionStatusToString[s]; ok {
		return val
	}
	return "UNKNOWN"
}

func ParseSessionStatus(s string) SessionStatus {
	upper := strings.ToUpper(s)
	if val, ok := sessionStatusStringToType[upper]; ok {
		return val
	}
	return SessionUnknown
}

// IsSettled возвращает true для терминальных статусов.
func (s SessionStatus) IsSettled() bool {
	return s == SessionCompleted || s == SessionCancelled || s == SessionFailed
}
