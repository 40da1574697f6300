package vocabulary

import "visual-mapper/internal/catalog"

// BuiltinVersion tags the compiled-in vocabulary.
const BuiltinVersion = "builtin-1"

// Builtin returns the compiled-in vocabulary. It is used when no other
// source is configured and as the base that file overrides merge onto.
func Builtin() *Snapshot {
	return &Snapshot{
		Version: BuiltinVersion,
		Components: []Component{
			{Name: catalog.Hero, Category: "branding", Terms: []string{"герои", "hero", "баннер", "banner", "заголовок"}},
			{Name: catalog.Navbar, Category: "navigation", Terms: []string{"меню", "навигация", "navbar", "шапка", "header"}},
			{Name: catalog.Search, Category: "navigation", Terms: []string{"поиск", "search", "поиск работы", "поиск вакансий", "трудоустройство"}},
			{Name: catalog.Footer, Category: "meta", Terms: []string{"подвал", "футер", "footer", "низ", "bottom"}},
			{Name: catalog.ProductGrid, Category: "commerce", Terms: []string{"каталог", "catalog", "сетка", "grid", "товары"}},
			{Name: catalog.Filters, Category: "commerce", Terms: []string{"фильтры", "фильтр", "filters"}},
			{Name: catalog.Cart, Category: "commerce", Terms: []string{"корзина", "cart", "basket", "покупки"}},
			{Name: catalog.Cards, Category: "content", Terms: []string{"карточки", "cards", "портфолио", "portfolio"}},
			{Name: catalog.SectionBlock, Category: "layout", Terms: []string{"секция", "section", "блок", "block", "раздел"}},
			{Name: catalog.Heading, Category: "content", Terms: []string{"заголовок", "title", "heading", "h1", "h2", "h3"}},
			{Name: catalog.Text, Category: "content", Terms: []string{"текст", "text", "параграф", "paragraph", "описание"}},
			{Name: catalog.Button, Category: "action", Terms: []string{
				"кнопка", "button", "btn", "ссылка", "link",
				"отклик", "откликнуться", "подать заявку", "отправить резюме",
			}},
			{Name: catalog.Form, Category: "form", Terms: []string{
				"форма", "form", "поля", "fields", "input",
				"резюме", "cv", "анкета", "профиль",
				"регистрация", "запись", "регистрироваться", "участие",
				"заявка", "заявление", "подача заявки", "оформление",
			}},
			{Name: catalog.CTA, Category: "action", Terms: []string{"призыв", "cta", "call to action"}},
			{Name: catalog.ProductCard, Category: "commerce", Terms: []string{"товар", "product", "карточка", "card"}},
			{Name: catalog.Container, Category: "layout", Terms: []string{"контейнер", "container", "обертка", "wrapper"}},
			{Name: catalog.ServicesGrid, Category: "services", Terms: []string{
				"клиника", "медицинская клиника", "поликлиника", "больница",
				"медицинский центр", "медцентр", "медицинское учреждение",
				"лечение", "терапия", "медицинская помощь", "оздоровление",
				"анализы", "лабораторные анализы", "исследования", "диагностика",
				"здоровье", "медицина", "здоровый образ жизни", "профилактика",
				"банк", "банковское учреждение", "финансовое учреждение",
				"кредит", "займ", "ссуда", "кредитование",
				"ипотека", "ипотечное кредитование", "жилищный кредит",
				"инвестиции", "вложения", "инвестирование", "капиталовложения",
				"страховка", "страхование", "страховой полис",
				"финансы", "денежные средства", "финансовые услуги",
			}},
			{Name: catalog.DoctorsList, Category: "medical", Description: "Список врачей", Terms: []string{"врач", "доктор", "медик", "специалист"}},
			{Name: catalog.AppointmentForm, Category: "medical", Description: "Форма записи на приём", Terms: []string{
				"запись", "записаться", "запись на приём", "бронирование",
				"приём", "приём врача", "консультация", "осмотр",
			}},
			{Name: catalog.CourseList, Category: "education", Description: "Список курсов", Terms: []string{
				"обучение", "образование", "учёба", "развитие",
				"курс", "программа обучения", "учебный курс", "дисциплина",
				"программа", "учебная программа", "курс обучения", "образовательная программа",
				"урок", "занятие", "лекция", "семинар",
			}},
			{Name: catalog.FeaturesList, Category: "education", Terms: []string{
				"преподаватель", "учитель", "инструктор", "тренер",
				"школа", "учебное заведение", "образовательное учреждение",
			}},
			{Name: catalog.Testimonials, Category: "content", Terms: []string{"отзывы", "отзыв", "студенты", "учащиеся", "обучающиеся", "слушатели"}},
			{Name: catalog.JobList, Category: "job", Description: "Список вакансий", Terms: []string{
				"работа", "трудоустройство", "занятость", "деятельность",
				"вакансии", "открытые позиции", "трудовые места", "должности",
				"карьера", "профессиональный рост", "развитие карьеры",
			}},
			{Name: catalog.Countdown, Category: "event", Description: "Обратный отсчёт", Terms: []string{"обратный отсчёт", "таймер", "countdown"}},
			{Name: catalog.Schedule, Category: "event", Description: "Расписание мероприятий", Terms: []string{
				"мероприятие", "событие", "акция", "встреча",
				"конференция", "симпозиум", "форум", "съезд",
				"фестиваль", "праздник", "фест", "празднование",
				"расписание", "программа", "план", "график",
			}},
			{Name: catalog.Speakers, Category: "event", Description: "Список спикеров", Terms: []string{"спикеры", "докладчики", "speakers"}},
			{Name: catalog.Tickets, Category: "event", Description: "Билеты", Terms: []string{"билеты", "входные билеты", "пропуски", "вход"}},
			{Name: catalog.Gallery, Category: "event", Description: "Галерея", Terms: []string{"фото", "фотографии", "gallery"}},
			{Name: catalog.Calculator, Category: "finance", Terms: []string{"калькулятор", "проценты", "процентная ставка", "доходность"}},
			{Name: catalog.Contacts, Category: "contact", Description: "Контакты", Terms: []string{"контакты", "адрес", "телефон", "contacts"}},
			{Name: catalog.SocialLinks, Category: "contact", Terms: []string{"соцсети", "социальные сети", "social"}},
		},
		ExactRules: []ExactRule{
			{Key: "заголовок", Component: catalog.Heading},
			{Key: "кнопка", Component: catalog.Button},
			{Key: "форма", Component: catalog.Form},
			{Key: "герои", Component: catalog.Hero},
			{Key: "подвал", Component: catalog.Footer},
			{Key: "футер", Component: catalog.Footer},
			{Key: "текст", Component: catalog.Text},
			{Key: "товар", Component: catalog.ProductCard},
			{Key: "каталог", Component: catalog.ProductGrid},
			{Key: "корзина", Component: catalog.Cart},
			{Key: "меню", Component: catalog.Navbar},
			{Key: "навигация", Component: catalog.Navbar},
			{Key: "шапка", Component: catalog.Navbar},
			{Key: "лендинг", Component: catalog.SectionBlock},
			{Key: "промо", Component: catalog.SectionBlock},
			{Key: "одностраничный", Component: catalog.SectionBlock},
			{Key: "страница секциями", Component: catalog.SectionBlock},
			{Key: "landing", Component: catalog.SectionBlock},
			{Key: "портфолио", Component: catalog.Cards},
			{Key: "кейсы", Component: catalog.Cards},
			{Key: "наши работы", Component: catalog.Cards},
			{Key: "галерея", Component: catalog.Cards},
			{Key: "проекты", Component: catalog.Cards},
			{Key: "работы", Component: catalog.Cards},
			{Key: "интернет-магазин", Component: catalog.ProductGrid},
			{Key: "ecommerce", Component: catalog.ProductGrid},
			{Key: "сайт", Component: catalog.Container},
			{Key: "страница", Component: catalog.Container},
		},
		ContextTriggers: map[catalog.ComponentType][]string{
			catalog.Hero:            {"главный экран", "баннер", "приветствие"},
			catalog.Navbar:          {"меню", "навигация"},
			catalog.Search:          {"поиск", "найти"},
			catalog.Footer:          {"подвал", "футер"},
			catalog.ProductGrid:     {"каталог", "товары", "интернет-магазин"},
			catalog.Cart:            {"корзина", "покупки", "оформить заказ"},
			catalog.Cards:           {"портфолио", "кейсы", "наши работы", "проекты"},
			catalog.Form:            {"заявка", "обратная связь", "регистрация", "анкета", "резюме"},
			catalog.Button:          {"купить", "заказать", "отправить", "подробнее"},
			catalog.ServicesGrid:    {"услуги", "клиника", "банк", "лечение"},
			catalog.DoctorsList:     {"врач", "доктор", "специалист", "клиника"},
			catalog.AppointmentForm: {"запись", "приём", "записаться", "клиника"},
			catalog.CourseList:      {"курс", "обучение", "программа"},
			catalog.JobList:         {"вакансии", "работа", "карьера"},
			catalog.Schedule:        {"расписание", "программа", "мероприятие"},
			catalog.Tickets:         {"билеты", "регистрация"},
			catalog.Calculator:      {"кредит", "ипотека", "проценты"},
			catalog.Testimonials:    {"отзывы", "студенты", "пациенты"},
			catalog.Contacts:        {"контакты", "адрес", "телефон"},
		},
		PositionTriggers: map[catalog.Section][]string{
			catalog.SectionHero:   {"вверху", "сверху", "в начале"},
			catalog.SectionMain:   {"в центре", "посередине"},
			catalog.SectionFooter: {"внизу", "снизу", "в конце"},
		},
		PositionKeywords: []string{"вверху", "сверху", "внизу", "снизу", "в центре", "посередине", "в начале", "в конце"},
		GenericTerms:     []string{"сайт", "страница", "элемент", "компонент", "часть"},
	}
}
