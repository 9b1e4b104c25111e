package models

// Step is the stage of an order conversation, each awaiting one field.
type Step int

const (
	StepName Step = iota
	StepPhone
	StepServiceType
	StepFromLocation
	StepToLocation
	StepItemDescription
	StepContactPhone
	StepConfirm
)

// Session is the in-progress state of one user's conversation. Fields past
// the current step are empty. A session exists only while a conversation is
// running: cancel and confirm both remove it.
type Session struct {
	ChatID          int64
	Step            Step
	Name            string
	Phone           string
	ServiceType     string
	FromLocation    string
	ToLocation      string
	ItemDescription string
	ContactPhone    string
}
