package flow

// Button labels. Service labels live in models, they are persisted as-is.
const (
	BtnCancel        = "❌ Отменить заказ"
	BtnConfirm       = "✅ Подтвердить"
	BtnReject        = "❌ Отменить"
	BtnSharePhone    = "📱 Отправить номер"
	BtnShareLocation = "📍 Отправить местоположение"
)

const (
	msgGreeting = "👋 Добро пожаловать в сервис доставки OhanGo!\n" +
		"Для оформления заказа нам потребуется некоторая информация.\n"

	promptName         = "Пожалуйста, введите ваше имя:"
	promptPhone        = "Теперь введите ваш номер телефона или нажмите кнопку ниже:"
	promptService      = "Выберите тип услуги:"
	promptFromLocation = "Откуда нужно забрать? (укажите адрес или нажмите кнопку для отправки местоположения):"
	promptToLocation   = "Куда нужно доставить? (укажите адрес или нажмите кнопку для отправки местоположения):"
	promptDescription  = "Опишите, что нужно доставить (например, '2 пиццы и напитки'):"
	promptCourierTask  = "Пожалуйста, опишите, что нужно сделать курьеру:"
	promptContactPhone = "Введите номер телефона для связи (можно тот же):"

	errName        = "Пожалуйста, введите корректное имя (только буквы и пробелы, 2-50 символов)."
	errPhone       = "Пожалуйста, введите корректный номер телефона."
	errService     = "Пожалуйста, выберите тип услуги из предложенных вариантов."
	errLocation    = "Пожалуйста, укажите более точное местоположение (минимум 5 символов)."
	errDescription = "Пожалуйста, укажите более подробное описание."
	errConfirm     = "Пожалуйста, выберите один из предложенных вариантов."

	msgCancelled = "Заказ отменен. Вы можете начать новый заказ с команды /start"
	msgRejected  = "Заказ отменен. Вы можете начать заново с команды /start"
	msgAccepted  = "✅ <b>Ваш заказ принят!</b>\n\n" +
		"Мы свяжемся с вами в ближайшее время.\n" +
		"Вы можете посмотреть свои заказы с помощью команды /myorders"
	msgCommitFailed = "⚠️ Не удалось сохранить заказ. Нажмите «" + BtnConfirm + "» ещё раз, чтобы повторить."

	msgHelp = "📌 <b>Доступные команды:</b>\n" +
		"/start - начать новый заказ\n" +
		"/help - показать справку\n" +
		"/myorders - показать мои заказы\n\n" +
		"Вы можете отменить заказ в любой момент, нажав соответствующую кнопку."

	msgNoOrders     = "У вас пока нет заказов."
	msgOrdersFailed = "Не удалось получить список заказов, попробуйте позже."
	ordersHeader    = "📋 <b>Ваши последние заказы:</b>"
)
