package domain

// Level is the severity of a Notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification is a transient message shown once on the next rendered page.
type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

func Success(msg string) Notification { return Notification{Level: LevelSuccess, Message: msg} }
func Failure(msg string) Notification { return Notification{Level: LevelError, Message: msg} }
func Info(msg string) Notification    { return Notification{Level: LevelInfo, Message: msg} }
