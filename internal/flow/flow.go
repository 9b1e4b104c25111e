// Package flow is the order conversation state machine. It consumes inputs
// already normalized by the channel adapter and answers with a prompt and
// the keyboard that should accompany it; all Telegram specifics stay outside.
package flow

import (
	"fmt"
	"log"
	"strings"
	"time"

	"telegram-delivery-bot/internal/models"
	"telegram-delivery-bot/internal/session"
	"telegram-delivery-bot/internal/validation"
)

// Kind tags a normalized inbound event.
type Kind int

const (
	KindText Kind = iota
	KindContact
	KindLocation
	KindCommand
)

// Input is one inbound event. For KindCommand Text is the bare command name;
// for KindContact it is the shared phone number; for KindLocation the
// coordinates rendered as "GPS: <lat>, <lon>".
type Input struct {
	ChatID int64
	Kind   Kind
	Text   string
}

// Keyboard names the reply markup the adapter should attach.
type Keyboard int

const (
	KeyboardNone Keyboard = iota
	KeyboardRemove
	KeyboardCancel
	KeyboardContact
	KeyboardLocation
	KeyboardServices
	KeyboardConfirm
)

// Reply is the outbound message for one input. An empty Text means nothing
// should be sent.
type Reply struct {
	Text     string
	Keyboard Keyboard
	HTML     bool
}

// Repository is the slice of storage the conversation needs.
type Repository interface {
	SaveOrder(u *models.User, o *models.Order) (int64, error)
	ListRecentOrders(chatID int64, limit int) ([]models.Order, error)
}

const recentOrdersLimit = 5

type Engine struct {
	sessions session.Store
	orders   Repository
}

func NewEngine(sessions session.Store, orders Repository) *Engine {
	return &Engine{sessions: sessions, orders: orders}
}

// Handle advances one chat's conversation by one input. The caller must not
// feed the same chat concurrently; distinct chats are safe in parallel.
func (e *Engine) Handle(in Input) Reply {
	if in.Kind == KindCommand {
		return e.handleCommand(in)
	}

	sess, ok := e.sessions.Get(in.ChatID)

	// The cancel button wins over everything, whatever the step.
	if in.Text == BtnCancel {
		if ok {
			e.sessions.Delete(in.ChatID)
		}
		return Reply{Text: msgCancelled, Keyboard: KeyboardRemove}
	}

	// No conversation yet: any message opens one, same as /start.
	if !ok {
		return e.start(in.ChatID)
	}

	switch sess.Step {
	case models.StepName:
		return e.stepName(sess, in)
	case models.StepPhone:
		return e.stepPhone(sess, in)
	case models.StepServiceType:
		return e.stepServiceType(sess, in)
	case models.StepFromLocation:
		return e.stepFromLocation(sess, in)
	case models.StepToLocation:
		return e.stepToLocation(sess, in)
	case models.StepItemDescription:
		return e.stepItemDescription(sess, in)
	case models.StepContactPhone:
		return e.stepContactPhone(sess, in)
	case models.StepConfirm:
		return e.stepConfirm(sess, in)
	}
	// unreachable with a well-formed session
	e.sessions.Delete(in.ChatID)
	return Reply{Text: msgCancelled, Keyboard: KeyboardRemove}
}

// ---------- commands --------------------------------------------------------

func (e *Engine) handleCommand(in Input) Reply {
	switch in.Text {
	case "start":
		return e.start(in.ChatID)
	case "help":
		return Reply{Text: msgHelp, HTML: true}
	case "myorders":
		return e.listOrders(in.ChatID)
	}
	return Reply{}
}

// start opens a fresh conversation, discarding any previous one.
func (e *Engine) start(chatID int64) Reply {
	e.sessions.Put(&models.Session{ChatID: chatID, Step: models.StepName})
	return Reply{Text: msgGreeting + promptName, Keyboard: KeyboardCancel}
}

func (e *Engine) listOrders(chatID int64) Reply {
	orders, err := e.orders.ListRecentOrders(chatID, recentOrdersLimit)
	if err != nil {
		log.Printf("список заказов для %d: %v", chatID, err)
		return Reply{Text: msgOrdersFailed}
	}
	if len(orders) == 0 {
		return Reply{Text: msgNoOrders}
	}

	lines := []string{ordersHeader}
	for _, o := range orders {
		created := time.Unix(o.CreatedAt, 0).Format("02.01.2006 15:04")
		lines = append(lines, fmt.Sprintf("🔹 #%d %s - %s (%s)",
			o.ID, o.ServiceType, created, o.Status))
	}
	return Reply{Text: strings.Join(lines, "\n"), HTML: true}
}

// ---------- steps -----------------------------------------------------------

func (e *Engine) stepName(sess *models.Session, in Input) Reply {
	if !validation.ValidName(in.Text) {
		return Reply{Text: errName + "\n\n" + promptName, Keyboard: KeyboardCancel}
	}
	sess.Name = in.Text
	sess.Step = models.StepPhone
	e.sessions.Put(sess)
	return Reply{Text: promptPhone, Keyboard: KeyboardContact}
}

func (e *Engine) stepPhone(sess *models.Session, in Input) Reply {
	// A shared contact card is trusted as-is, free text goes through the
	// pattern check.
	if in.Kind != KindContact && !validation.ValidPhone(in.Text) {
		return Reply{Text: errPhone + "\n\n" + promptPhone, Keyboard: KeyboardContact}
	}
	sess.Phone = in.Text
	sess.Step = models.StepServiceType
	e.sessions.Put(sess)
	return Reply{Text: promptService, Keyboard: KeyboardServices}
}

func (e *Engine) stepServiceType(sess *models.Session, in Input) Reply {
	switch in.Text {
	case models.ServiceFood, models.ServiceParcel:
		sess.ServiceType = in.Text
		sess.Step = models.StepFromLocation
		e.sessions.Put(sess)
		return Reply{Text: promptFromLocation, Keyboard: KeyboardLocation}
	case models.ServiceCourier:
		// courier tasks have no pickup/destination
		sess.ServiceType = in.Text
		sess.Step = models.StepItemDescription
		e.sessions.Put(sess)
		return Reply{Text: promptCourierTask, Keyboard: KeyboardCancel}
	}
	return Reply{Text: errService + "\n\n" + promptService, Keyboard: KeyboardServices}
}

func (e *Engine) stepFromLocation(sess *models.Session, in Input) Reply {
	if !validation.ValidLocation(in.Text) {
		return Reply{Text: errLocation + "\n\n" + promptFromLocation, Keyboard: KeyboardLocation}
	}
	sess.FromLocation = in.Text
	sess.Step = models.StepToLocation
	e.sessions.Put(sess)
	return Reply{Text: promptToLocation, Keyboard: KeyboardLocation}
}

func (e *Engine) stepToLocation(sess *models.Session, in Input) Reply {
	if !validation.ValidLocation(in.Text) {
		return Reply{Text: errLocation + "\n\n" + promptToLocation, Keyboard: KeyboardLocation}
	}
	sess.ToLocation = in.Text
	sess.Step = models.StepItemDescription
	e.sessions.Put(sess)
	return Reply{Text: promptDescription, Keyboard: KeyboardCancel}
}

func (e *Engine) stepItemDescription(sess *models.Session, in Input) Reply {
	prompt := promptDescription
	if sess.ServiceType == models.ServiceCourier {
		prompt = promptCourierTask
	}
	if !validation.ValidDescription(in.Text) {
		return Reply{Text: errDescription + "\n\n" + prompt, Keyboard: KeyboardCancel}
	}
	sess.ItemDescription = in.Text
	sess.Step = models.StepContactPhone
	e.sessions.Put(sess)
	return Reply{Text: promptContactPhone, Keyboard: KeyboardContact}
}

func (e *Engine) stepContactPhone(sess *models.Session, in Input) Reply {
	if in.Kind != KindContact && !validation.ValidPhone(in.Text) {
		return Reply{Text: errPhone + "\n\n" + promptContactPhone, Keyboard: KeyboardContact}
	}
	sess.ContactPhone = in.Text
	sess.Step = models.StepConfirm
	e.sessions.Put(sess)
	return Reply{Text: summary(sess), Keyboard: KeyboardConfirm, HTML: true}
}

func (e *Engine) stepConfirm(sess *models.Session, in Input) Reply {
	switch in.Text {
	case BtnConfirm:
		return e.commit(sess)
	case BtnReject:
		e.sessions.Delete(sess.ChatID)
		return Reply{Text: msgRejected, Keyboard: KeyboardRemove}
	}
	return Reply{Text: errConfirm, Keyboard: KeyboardConfirm}
}

// commit persists the confirmed order. The profile keeps the phone collected
// at the start of the flow; the order carries the contact phone confirmed
// last. On a storage failure the session survives so the user can retry.
func (e *Engine) commit(sess *models.Session) Reply {
	order := &models.Order{
		ChatID:          sess.ChatID,
		ServiceType:     sess.ServiceType,
		ItemDescription: sess.ItemDescription,
		ContactPhone:    sess.ContactPhone,
	}
	if sess.ServiceType != models.ServiceCourier {
		order.FromLocation = &sess.FromLocation
		order.ToLocation = &sess.ToLocation
	}

	_, err := e.orders.SaveOrder(&models.User{
		ChatID: sess.ChatID,
		Name:   sess.Name,
		Phone:  sess.Phone,
	}, order)
	if err != nil {
		log.Printf("сохранение заказа для %d: %v", sess.ChatID, err)
		return Reply{Text: msgCommitFailed, Keyboard: KeyboardConfirm}
	}

	e.sessions.Delete(sess.ChatID)
	return Reply{Text: msgAccepted, Keyboard: KeyboardRemove, HTML: true}
}

func summary(s *models.Session) string {
	var b strings.Builder
	b.WriteString("📝 <b>Проверьте данные заказа:</b>\n\n")
	fmt.Fprintf(&b, "👤 <b>Имя:</b> %s\n", s.Name)
	fmt.Fprintf(&b, "📱 <b>Телефон:</b> %s\n", s.Phone)
	fmt.Fprintf(&b, "🔧 <b>Услуга:</b> %s\n", s.ServiceType)
	if s.FromLocation != "" {
		fmt.Fprintf(&b, "📍 <b>Откуда:</b> %s\n", s.FromLocation)
	}
	if s.ToLocation != "" {
		fmt.Fprintf(&b, "🏁 <b>Куда:</b> %s\n", s.ToLocation)
	}
	if s.ItemDescription != "" {
		fmt.Fprintf(&b, "📦 <b>Описание:</b> %s\n", s.ItemDescription)
	}
	fmt.Fprintf(&b, "📞 <b>Контактный телефон:</b> %s\n\n", s.ContactPhone)
	b.WriteString("Все верно?")
	return b.String()
}
