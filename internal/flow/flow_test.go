package flow_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"telegram-delivery-bot/internal/flow"
	"telegram-delivery-bot/internal/models"
	"telegram-delivery-bot/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo records commits in memory and can be told to fail.
type fakeRepo struct {
	users   map[int64]models.User
	orders  []models.Order
	saveErr error
	listErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[int64]models.User)}
}

func (f *fakeRepo) SaveOrder(u *models.User, o *models.Order) (int64, error) {
	if f.saveErr != nil {
		return 0, f.saveErr
	}
	f.users[u.ChatID] = *u
	saved := *o
	saved.ID = int64(len(f.orders) + 1)
	if saved.CreatedAt == 0 {
		saved.CreatedAt = time.Now().Unix()
	}
	if saved.Status == "" {
		saved.Status = models.StatusNew
	}
	f.orders = append(f.orders, saved)
	return saved.ID, nil
}

func (f *fakeRepo) ListRecentOrders(chatID int64, limit int) ([]models.Order, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var res []models.Order
	for i := len(f.orders) - 1; i >= 0 && len(res) < limit; i-- {
		if f.orders[i].ChatID == chatID {
			res = append(res, f.orders[i])
		}
	}
	return res, nil
}

func newEngine() (*flow.Engine, *session.MemoryStore, *fakeRepo) {
	st := session.NewMemoryStore()
	repo := newFakeRepo()
	return flow.NewEngine(st, repo), st, repo
}

func text(chatID int64, s string) flow.Input {
	return flow.Input{ChatID: chatID, Kind: flow.KindText, Text: s}
}

func command(chatID int64, s string) flow.Input {
	return flow.Input{ChatID: chatID, Kind: flow.KindCommand, Text: s}
}

// drive feeds the inputs in order and returns the last reply.
func drive(e *flow.Engine, inputs ...flow.Input) flow.Reply {
	var r flow.Reply
	for _, in := range inputs {
		r = e.Handle(in)
	}
	return r
}

const chat = int64(100)

func foodFlowThroughPhone(e *flow.Engine) {
	drive(e,
		command(chat, "start"),
		text(chat, "Anna"),
		text(chat, "+1 555 123 4567"),
	)
}

func TestStartCreatesSession(t *testing.T) {
	e, st, _ := newEngine()

	r := e.Handle(command(chat, "start"))
	assert.Contains(t, r.Text, "введите ваше имя")
	assert.Equal(t, flow.KeyboardCancel, r.Keyboard)

	sess, ok := st.Get(chat)
	require.True(t, ok)
	assert.Equal(t, models.StepName, sess.Step)
}

func TestStartDiscardsExistingSession(t *testing.T) {
	e, st, _ := newEngine()
	drive(e, command(chat, "start"), text(chat, "Anna"))

	e.Handle(command(chat, "start"))
	sess, ok := st.Get(chat)
	require.True(t, ok)
	assert.Equal(t, models.StepName, sess.Step)
	assert.Empty(t, sess.Name)
}

func TestFirstMessageOpensConversation(t *testing.T) {
	e, st, _ := newEngine()

	r := e.Handle(text(chat, "привет"))
	assert.Contains(t, r.Text, "введите ваше имя")

	sess, ok := st.Get(chat)
	require.True(t, ok)
	assert.Equal(t, models.StepName, sess.Step)
}

func TestCancelFromEveryStep(t *testing.T) {
	// inputs that bring a fresh conversation up to each step
	paths := map[string][]flow.Input{
		"name":         {},
		"phone":        {text(chat, "Anna")},
		"service":      {text(chat, "Anna"), text(chat, "5551234567")},
		"from":         {text(chat, "Anna"), text(chat, "5551234567"), text(chat, models.ServiceFood)},
		"to":           {text(chat, "Anna"), text(chat, "5551234567"), text(chat, models.ServiceFood), text(chat, "123 Main Street")},
		"description":  {text(chat, "Anna"), text(chat, "5551234567"), text(chat, models.ServiceCourier)},
		"contactPhone": {text(chat, "Anna"), text(chat, "5551234567"), text(chat, models.ServiceCourier), text(chat, "Pick up keys")},
		"confirm":      {text(chat, "Anna"), text(chat, "5551234567"), text(chat, models.ServiceCourier), text(chat, "Pick up keys"), text(chat, "5551234567")},
	}

	for name, path := range paths {
		t.Run(name, func(t *testing.T) {
			e, st, repo := newEngine()
			drive(e, command(chat, "start"))
			drive(e, path...)

			r := e.Handle(text(chat, flow.BtnCancel))
			assert.Contains(t, r.Text, "Заказ отменен")
			assert.Equal(t, flow.KeyboardRemove, r.Keyboard)

			_, ok := st.Get(chat)
			assert.False(t, ok, "session must be deleted")
			assert.Empty(t, repo.orders)
			assert.Empty(t, repo.users)
		})
	}
}

func TestInvalidInputIsIdempotent(t *testing.T) {
	tests := []struct {
		name    string
		setup   []flow.Input
		invalid flow.Input
		step    models.Step
	}{
		{"bad name", nil, text(chat, "A1"), models.StepName},
		{"bad phone", []flow.Input{text(chat, "Anna")}, text(chat, "nope"), models.StepPhone},
		{"bad service", []flow.Input{text(chat, "Anna"), text(chat, "5551234567")}, text(chat, "пешком"), models.StepServiceType},
		{"bad location", []flow.Input{text(chat, "Anna"), text(chat, "5551234567"), text(chat, models.ServiceFood)}, text(chat, "дом"), models.StepFromLocation},
		{"bad description", []flow.Input{text(chat, "Anna"), text(chat, "5551234567"), text(chat, models.ServiceCourier)}, text(chat, "ok"), models.StepItemDescription},
		{"bad confirm", []flow.Input{text(chat, "Anna"), text(chat, "5551234567"), text(chat, models.ServiceCourier), text(chat, "Pick up keys"), text(chat, "5551234567")}, text(chat, "maybe"), models.StepConfirm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, st, _ := newEngine()
			drive(e, command(chat, "start"))
			drive(e, tt.setup...)

			before, ok := st.Get(chat)
			require.True(t, ok)
			snapshot := *before

			r := e.Handle(tt.invalid)
			assert.Contains(t, r.Text, "Пожалуйста")

			after, ok := st.Get(chat)
			require.True(t, ok)
			assert.Equal(t, snapshot, *after, "session must be unchanged")
			assert.Equal(t, tt.step, after.Step)
		})
	}
}

func TestServiceTypeBranching(t *testing.T) {
	t.Run("courier skips locations", func(t *testing.T) {
		e, st, _ := newEngine()
		foodFlowThroughPhone(e)

		r := e.Handle(text(chat, models.ServiceCourier))
		assert.Contains(t, r.Text, "курьеру")

		sess, ok := st.Get(chat)
		require.True(t, ok)
		assert.Equal(t, models.StepItemDescription, sess.Step)
	})

	for _, svc := range []string{models.ServiceFood, models.ServiceParcel} {
		t.Run("delivery asks pickup "+svc, func(t *testing.T) {
			e, st, _ := newEngine()
			foodFlowThroughPhone(e)

			r := e.Handle(text(chat, svc))
			assert.Equal(t, flow.KeyboardLocation, r.Keyboard)

			sess, ok := st.Get(chat)
			require.True(t, ok)
			assert.Equal(t, models.StepFromLocation, sess.Step)
		})
	}
}

func TestFoodDeliveryEndToEnd(t *testing.T) {
	e, st, repo := newEngine()

	r := drive(e,
		command(chat, "start"),
		text(chat, "Anna"),
		text(chat, "+1 555 123 4567"),
		text(chat, models.ServiceFood),
		text(chat, "123 Main Street"),
		text(chat, "456 Oak Avenue"),
		text(chat, "2 pizzas"),
		text(chat, "5551234567"),
	)
	assert.Contains(t, r.Text, "Проверьте данные заказа")
	assert.Equal(t, flow.KeyboardConfirm, r.Keyboard)
	assert.Contains(t, r.Text, "Anna")
	assert.Contains(t, r.Text, "123 Main Street")

	r = e.Handle(text(chat, flow.BtnConfirm))
	assert.Contains(t, r.Text, "Ваш заказ принят")
	assert.Contains(t, r.Text, "/myorders")

	_, ok := st.Get(chat)
	assert.False(t, ok, "session cleared after confirm")

	u := repo.users[chat]
	assert.Equal(t, "Anna", u.Name)
	assert.Equal(t, "+1 555 123 4567", u.Phone, "profile keeps the first phone")

	require.Len(t, repo.orders, 1)
	o := repo.orders[0]
	assert.Equal(t, models.ServiceFood, o.ServiceType)
	require.NotNil(t, o.FromLocation)
	assert.Equal(t, "123 Main Street", *o.FromLocation)
	require.NotNil(t, o.ToLocation)
	assert.Equal(t, "456 Oak Avenue", *o.ToLocation)
	assert.Equal(t, "2 pizzas", o.ItemDescription)
	assert.Equal(t, "5551234567", o.ContactPhone)
	assert.Equal(t, models.StatusNew, o.Status)
}

func TestCourierTaskEndToEnd(t *testing.T) {
	e, _, repo := newEngine()

	drive(e,
		command(chat, "start"),
		text(chat, "Anna"),
		text(chat, "+1 555 123 4567"),
		text(chat, models.ServiceCourier),
		text(chat, "Pick up keys from office"),
		text(chat, "5551234567"),
		text(chat, flow.BtnConfirm),
	)

	require.Len(t, repo.orders, 1)
	o := repo.orders[0]
	assert.Equal(t, models.ServiceCourier, o.ServiceType)
	assert.Nil(t, o.FromLocation)
	assert.Nil(t, o.ToLocation)
	assert.Equal(t, "Pick up keys from office", o.ItemDescription)
}

func TestCancelMidFlow(t *testing.T) {
	e, st, repo := newEngine()

	drive(e,
		command(chat, "start"),
		text(chat, "Bob"),
		text(chat, flow.BtnCancel),
	)

	_, ok := st.Get(chat)
	assert.False(t, ok)
	assert.Empty(t, repo.users)
	assert.Empty(t, repo.orders)
}

func TestRejectAtConfirm(t *testing.T) {
	e, st, repo := newEngine()

	r := drive(e,
		command(chat, "start"),
		text(chat, "Anna"),
		text(chat, "5551234567"),
		text(chat, models.ServiceCourier),
		text(chat, "Pick up keys"),
		text(chat, "5551234567"),
		text(chat, flow.BtnReject),
	)
	assert.Contains(t, r.Text, "Заказ отменен")

	_, ok := st.Get(chat)
	assert.False(t, ok)
	assert.Empty(t, repo.users, "reject must not write the profile")
	assert.Empty(t, repo.orders, "reject must not write the order")
}

func TestCommitFailureKeepsSessionForRetry(t *testing.T) {
	e, st, repo := newEngine()
	drive(e,
		command(chat, "start"),
		text(chat, "Anna"),
		text(chat, "5551234567"),
		text(chat, models.ServiceCourier),
		text(chat, "Pick up keys"),
		text(chat, "5551234567"),
	)

	repo.saveErr = errors.New("disk full")
	r := e.Handle(text(chat, flow.BtnConfirm))
	assert.Contains(t, r.Text, "Не удалось сохранить заказ")
	assert.Equal(t, flow.KeyboardConfirm, r.Keyboard)

	sess, ok := st.Get(chat)
	require.True(t, ok, "session must survive a failed commit")
	assert.Equal(t, models.StepConfirm, sess.Step)
	assert.Empty(t, repo.orders)

	// retry succeeds once storage recovers
	repo.saveErr = nil
	r = e.Handle(text(chat, flow.BtnConfirm))
	assert.Contains(t, r.Text, "Ваш заказ принят")
	_, ok = st.Get(chat)
	assert.False(t, ok)
	assert.Len(t, repo.orders, 1)
}

func TestSharedContactAndLocation(t *testing.T) {
	e, _, repo := newEngine()

	drive(e,
		command(chat, "start"),
		text(chat, "Anna"),
		flow.Input{ChatID: chat, Kind: flow.KindContact, Text: "+79991234567"},
		text(chat, models.ServiceParcel),
		flow.Input{ChatID: chat, Kind: flow.KindLocation, Text: "GPS: 55.7558, 37.6173"},
		flow.Input{ChatID: chat, Kind: flow.KindLocation, Text: "GPS: 55.76, 37.64"},
		text(chat, "a big box"),
		flow.Input{ChatID: chat, Kind: flow.KindContact, Text: "+79991234567"},
		text(chat, flow.BtnConfirm),
	)

	require.Len(t, repo.orders, 1)
	o := repo.orders[0]
	require.NotNil(t, o.FromLocation)
	assert.Equal(t, "GPS: 55.7558, 37.6173", *o.FromLocation)
	assert.Equal(t, "+79991234567", repo.users[chat].Phone)
}

func TestMyOrders(t *testing.T) {
	e, _, repo := newEngine()

	t.Run("empty", func(t *testing.T) {
		r := e.Handle(command(chat, "myorders"))
		assert.Equal(t, "У вас пока нет заказов.", r.Text)
	})

	t.Run("bounded to five newest first", func(t *testing.T) {
		base := time.Now().Unix() - 100
		for i := 0; i < 7; i++ {
			repo.orders = append(repo.orders, models.Order{
				ID: int64(i + 1), ChatID: chat,
				ServiceType: models.ServiceFood,
				CreatedAt:   base + int64(i),
				Status:      models.StatusNew,
			})
		}

		r := e.Handle(command(chat, "myorders"))
		assert.Contains(t, r.Text, "Ваши последние заказы")
		assert.Contains(t, r.Text, "#7")
		assert.Contains(t, r.Text, "#3")
		assert.NotContains(t, r.Text, "#2", "only the five most recent")
		assert.Contains(t, r.Text, time.Unix(base+6, 0).Format("02.01.2006 15:04"))
		assert.Contains(t, r.Text, fmt.Sprintf("(%s)", models.StatusNew))
	})

	t.Run("does not touch a live session", func(t *testing.T) {
		e2, st, _ := newEngine()
		drive(e2, command(chat, "start"), text(chat, "Anna"))
		e2.Handle(command(chat, "myorders"))
		sess, ok := st.Get(chat)
		require.True(t, ok)
		assert.Equal(t, models.StepPhone, sess.Step)
	})

	t.Run("storage failure", func(t *testing.T) {
		repo.listErr = errors.New("db gone")
		r := e.Handle(command(chat, "myorders"))
		assert.Contains(t, r.Text, "попробуйте позже")
		repo.listErr = nil
	})
}

func TestHelpIsStateless(t *testing.T) {
	e, st, _ := newEngine()

	r := e.Handle(command(chat, "help"))
	assert.Contains(t, r.Text, "/myorders")
	_, ok := st.Get(chat)
	assert.False(t, ok, "help must not open a session")
}

func TestUnknownCommandIsIgnored(t *testing.T) {
	e, st, _ := newEngine()
	r := e.Handle(command(chat, "frobnicate"))
	assert.Empty(t, r.Text)
	_, ok := st.Get(chat)
	assert.False(t, ok)
}
