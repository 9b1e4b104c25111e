// Package bot is the Telegram side of the ordering flow: it turns updates
// into normalized inputs, feeds them to the engine and sends the replies
// back with the right keyboard.
package bot

import (
	"fmt"
	"log"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-delivery-bot/internal/flow"
)

type Bot struct {
	api    *tgbotapi.BotAPI
	engine *flow.Engine

	mu     sync.Mutex
	queues map[int64]chan *tgbotapi.Message
}

func New(api *tgbotapi.BotAPI, engine *flow.Engine) *Bot {
	return &Bot{
		api:    api,
		engine: engine,
		queues: make(map[int64]chan *tgbotapi.Message),
	}
}

// Run consumes updates until the channel closes. Each chat gets its own
// queue and goroutine, so one user's messages are processed in order while
// distinct chats run in parallel.
func (b *Bot) Run() {
	log.Printf("Bot started: @%s", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	for upd := range updates {
		if upd.Message == nil {
			continue
		}
		b.queueFor(upd.Message.Chat.ID) <- upd.Message
	}
}

func (b *Bot) queueFor(chatID int64) chan *tgbotapi.Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	q, ok := b.queues[chatID]
	if !ok {
		q = make(chan *tgbotapi.Message, 16)
		b.queues[chatID] = q
		go func() {
			for msg := range q {
				b.handle(msg)
			}
		}()
	}
	return q
}

// handle processes one message. A panic is contained to this chat.
func (b *Bot) handle(msg *tgbotapi.Message) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("паника при обработке чата %d: %v", msg.Chat.ID, r)
		}
	}()
	b.send(msg.Chat.ID, b.engine.Handle(ToInput(msg)))
}

// ToInput normalizes a Telegram message into the flow's input alphabet:
// a shared contact becomes its phone number, a shared location becomes a
// "GPS: <lat>, <lon>" string.
func ToInput(msg *tgbotapi.Message) flow.Input {
	in := flow.Input{ChatID: msg.Chat.ID}
	switch {
	case msg.IsCommand():
		in.Kind = flow.KindCommand
		in.Text = msg.Command()
	case msg.Contact != nil:
		in.Kind = flow.KindContact
		in.Text = msg.Contact.PhoneNumber
	case msg.Location != nil:
		in.Kind = flow.KindLocation
		in.Text = fmt.Sprintf("GPS: %v, %v", msg.Location.Latitude, msg.Location.Longitude)
	default:
		in.Kind = flow.KindText
		in.Text = msg.Text
	}
	return in
}

func (b *Bot) send(chatID int64, r flow.Reply) {
	if r.Text == "" {
		return
	}
	msg := tgbotapi.NewMessage(chatID, r.Text)
	if r.HTML {
		msg.ParseMode = tgbotapi.ModeHTML
	}
	if mk := Markup(r.Keyboard); mk != nil {
		msg.ReplyMarkup = mk
	}
	if _, err := b.api.Send(msg); err != nil {
		// the session already reflects the transition, nothing to roll back
		log.Printf("отправка сообщения в чат %d: %v", chatID, err)
	}
}
