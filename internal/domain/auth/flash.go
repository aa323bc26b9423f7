package auth

// FlashLevel is the visual category of a one-shot notice.
type FlashLevel string

const (
	FlashInfo    FlashLevel = "info"
	FlashSuccess FlashLevel = "success"
	FlashWarning FlashLevel = "warning"
	FlashDanger  FlashLevel = "danger"
)

// Flash is a message shown once on the next rendered page.
type Flash struct {
	Level   FlashLevel `json:"level"`
	Message string     `json:"message"`
}

// Info, Success, Warning and Danger build flashes of the matching level.
func Info(msg string) Flash    { return Flash{Level: FlashInfo, Message: msg} }
func Success(msg string) Flash { return Flash{Level: FlashSuccess, Message: msg} }
func Warning(msg string) Flash { return Flash{Level: FlashWarning, Message: msg} }
func Danger(msg string) Flash  { return Flash{Level: FlashDanger, Message: msg} }
