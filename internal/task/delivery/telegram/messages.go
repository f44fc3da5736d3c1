package telegram

const (
	cmdStart   = "/start"
	cmdHelp    = "/help"
	cmdNewTask = "/newtask"
	cmdMyTasks = "/mytasks"
	cmdCancel  = "/cancel"
)

const (
	msgWelcome = "👋 Привет! Я TaskMaster Bot - твой личный помощник для управления задачами.\n\n" +
		"Используй команды:\n" +
		"/newtask - создать новую задачу\n" +
		"/mytasks - просмотреть свои задачи\n\n" +
		"Или выбери действие ниже:"
	msgHelp = "*Как пользоваться:*\n\n" +
		"/newtask - создать задачу\n" +
		"/mytasks - показать задачи по фильтру\n" +
		"/cancel - отменить текущее действие\n\n" +
		"Дедлайн можно указать так: `сегодня в 9:00`, `завтра 18:00`, `через 2 дня`, `через 3 часа`, `5 марта 14:30`, `31.12.2025 23:59`."
	msgMainMenu      = "Главное меню:"
	msgNothingCancel = "Нечего отменять."
	msgCancelled     = "❎ Действие отменено."

	msgChooseFilter   = "🔍 Выберите фильтр для отображения задач:"
	msgChooseCategory = "Введите категорию из списка:\n"
	msgChooseTag      = "Введите тег из списка:\n"
	msgNoCategories   = "Нет категорий."
	msgNoTags         = "Нет тегов."
	msgNoTasks        = "📭 Нет задач по выбранному фильтру."
	msgNoTasksInCat   = "📭 Нет задач в этой категории."
	msgNoTasksWithTag = "📭 Нет задач с таким тегом."
	msgEmptyChoice    = "❌ Значение не может быть пустым."
	msgListFailed     = "❌ Ошибка при загрузке задач."

	msgTaskCreated      = "✅ Задача создана!"
	msgTaskUpdated      = "✅ Задача обновлена!"
	msgDeadlineUpdated  = "🔄 Дедлайн обновлён!"
	msgTaskCompleted    = "✅ Задача завершена!\n\n"
	msgTaskDeleted      = "🗑 Задача '%s' удалена"
	msgBadCallback      = "❌ Некорректный идентификатор задачи"
	msgRateLimited      = "⏳ Слишком много запросов. Попробуйте позже."
	msgTaskNotFound     = "❌ Задача не найдена"
	msgEmptyTitle       = "❌ Название не может быть пустым"
	msgStoreUnavailable = "❌ Хранилище задач недоступно. Попробуйте позже."
	msgGenericError     = "❌ Произошла ошибка. Попробуйте ещё раз."
)
