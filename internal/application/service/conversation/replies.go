package conversation

// Reply texts keep the bot's original Russian voice.
const (
	replyStart = "Привет! Я твой календарь-бот 📅.\n" +
		"Моя задача — помочь тебе планировать события и напомнить о них 😊\n\n" +
		replyHelp

	replyHelp = "Вот мои команды:\n\n" +
		"▫️ /addevent — добавить новое событие\n" +
		"▫️ /addtodo — добавить заметку\n" +
		"▫️ /delete — удалить событие или заметку\n" +
		"▫️ /day — показать события на сегодня или на любую дату (например, /day 28.03.2025)\n" +
		"▫️ /list — показать все твои события и заметки\n" +
		"▫️ /help — показать этот список команд"

	replyAskEventDate  = "Укажи дату и время события 📅 (например, 'завтра в 15:00')"
	replyAskTodoDate   = "Укажи дату заметки 📅 (например, 'завтра')"
	replyAskDeleteDate = "Укажи дату события, которое хочешь удалить (например, 'завтра')"

	replyBadDate       = "Не понял дату 🥲. Попробуй ещё раз"
	replyAskName       = "✍️ Теперь напиши название"
	replyBadName       = "Название не может быть пустым 🥲. Попробуй ещё раз"
	replyNotUnderstood = "Не понимаю ничего... 🥲 Используй команды. /help — список команд"

	replySaveFailed   = "Ошибка при добавлении 🛠️ Попробуй позже"
	replyDeleteFailed = "Ошибка при удалении 🛠️ Попробуй позже"
	replyInternal     = "Что-то пошло не так на моей стороне 🛠️ Начни заново"

	replyNothingOnDate = "На этот день ничего нет 😌"
	replyBadChoice     = "Неверный номер! Введи цифру из списка 🧐"
)
