package props

import (
	"visual-mapper/internal/catalog"
	"visual-mapper/internal/mapping/layout"
)

// FormType is one keyword-triggered form preset. Presets are tried in order.
type FormType struct {
	Name     string        `mapstructure:"name"`
	Title    string        `mapstructure:"title"`
	Keywords []string      `mapstructure:"keywords"`
	Fields   []interface{} `mapstructure:"fields"`
}

// GeneratorConfig tunes the generator of one component type. Zero-valued
// fields fall back to the built-in literals.
type GeneratorConfig struct {
	DefaultProps   map[string]interface{} `mapstructure:"default_props"`
	ActionKeywords []string               `mapstructure:"action_keywords"`
	FormTypes      []FormType             `mapstructure:"form_types"`
	DefaultFields  []interface{}          `mapstructure:"default_fields"`
	DefaultItems   []interface{}          `mapstructure:"default_items"`
	DefaultLinks   []string               `mapstructure:"default_links"`
	DefaultText    string                 `mapstructure:"default_text"`
	DefaultLevel   int                    `mapstructure:"default_level"`
}

// Config controls props synthesis. Generator keys may be written as
// "ui.button", "button" or in any letter case.
type Config struct {
	Enabled           bool                       `mapstructure:"enabled"`
	ValidationEnabled bool                       `mapstructure:"validation_enabled"`
	SchemasPath       string                     `mapstructure:"schemas_path"`
	Generators        map[string]GeneratorConfig `mapstructure:"generators"`
}

// DefaultConfig enables synthesis and validation against ./schemas.
func DefaultConfig() Config {
	return Config{
		Enabled:           true,
		ValidationEnabled: true,
		SchemasPath:       "schemas",
	}
}

func field(name, label, typ string, required bool) map[string]interface{} {
	return map[string]interface{}{"name": name, "label": label, "type": typ, "required": required}
}

func list(items ...interface{}) []interface{} { return items }

func titleOnly(title string) GeneratorConfig {
	return GeneratorConfig{DefaultProps: map[string]interface{}{"title": title}}
}

// DefaultGenerators holds every built-in fallback literal of the synthesizer.
// Each call returns fresh values.
func DefaultGenerators() map[catalog.ComponentType]GeneratorConfig {
	contactFields := list(
		field("name", "Имя", "text", true),
		field("phone", "Телефон", "tel", true),
		field("email", "Email", "email", false),
	)

	return map[catalog.ComponentType]GeneratorConfig{
		catalog.Button: {
			DefaultProps: map[string]interface{}{"text": "Подробнее", "variant": "primary"},
			ActionKeywords: []string{
				"купить", "заказать", "записаться", "зарегистрироваться",
				"подписаться", "отправить", "скачать", "связаться",
			},
		},
		catalog.Form: {
			DefaultProps: map[string]interface{}{
				"title":  "Форма",
				"fields": list(field("name", "Имя", "text", true), field("email", "Email", "email", true)),
			},
			DefaultFields: list(field("name", "Имя", "text", true), field("email", "Email", "email", true)),
			FormTypes: []FormType{
				{
					Name:     "запись",
					Title:    "Запись на приём",
					Keywords: []string{"запись", "записаться", "приём", "прием"},
					Fields: list(
						field("name", "Имя", "text", true),
						field("phone", "Телефон", "tel", true),
						field("date", "Дата", "date", true),
					),
				},
				{
					Name:     "регистрация",
					Title:    "Регистрация",
					Keywords: []string{"регистрац", "зарегистрироваться", "билет"},
					Fields: list(
						field("name", "Имя", "text", true),
						field("email", "Email", "email", true),
					),
				},
				{
					Name:     "заявка",
					Title:    "Заявка",
					Keywords: []string{"заявк", "кредит", "ипотек"},
					Fields: list(
						field("name", "Имя", "text", true),
						field("phone", "Телефон", "tel", true),
						field("amount", "Сумма", "number", false),
					),
				},
				{
					Name:     "контакты",
					Title:    "Связаться с нами",
					Keywords: []string{"контакт", "связаться", "обратн"},
					Fields:   contactFields,
				},
			},
		},
		catalog.Hero: {
			DefaultProps: map[string]interface{}{
				"title":    "Добро пожаловать",
				"subtitle": "Наш сайт",
				"cta_text": "Начать",
			},
		},
		catalog.Cards: {
			DefaultItems: list(map[string]interface{}{"title": "Пример карточки", "description": "Описание карточки"}),
			DefaultProps: map[string]interface{}{
				"items":   list(map[string]interface{}{"title": "Пример карточки", "description": "Описание карточки"}),
				"layout":  "grid",
				"columns": 3,
			},
		},
		catalog.ProductGrid: {
			DefaultItems: list(map[string]interface{}{"title": "Товар 1", "description": "Описание товара", "price": "1000 ₽"}),
			DefaultProps: map[string]interface{}{
				"items":        list(map[string]interface{}{"title": "Товар 1", "description": "Описание товара", "price": "1000 ₽"}),
				"layout":       "grid",
				"columns":      3,
				"show_filters": true,
			},
		},
		catalog.Footer: {
			DefaultLinks: []string{"Контакты", "Политика конфиденциальности", "Соцсети", "О нас"},
			DefaultProps: map[string]interface{}{
				"links": list("Контакты", "Политика конфиденциальности", "Соцсети", "О нас"),
			},
		},
		catalog.Text: {
			DefaultText:  "Описание раздела",
			DefaultProps: map[string]interface{}{"text": "Описание раздела"},
		},
		catalog.Heading: {
			DefaultText:  "Заголовок",
			DefaultLevel: 1,
			DefaultProps: map[string]interface{}{"text": "Заголовок", "level": 1},
		},
		catalog.Navbar: {
			DefaultLinks: []string{"Главная", "О нас", "Контакты"},
			DefaultProps: map[string]interface{}{"links": list("Главная", "О нас", "Контакты")},
		},
		catalog.Search: {
			DefaultProps: map[string]interface{}{"placeholder": "Поиск...", "button_text": "Найти"},
		},
		catalog.CTA: {
			DefaultProps: map[string]interface{}{"text": "Узнать больше", "variant": "primary"},
		},
		catalog.ProductCard: {
			DefaultProps: map[string]interface{}{"title": "Товар", "description": "Описание товара", "price": "1000 ₽"},
		},

		catalog.ServicesGrid:    titleOnly("Наши услуги"),
		catalog.DoctorsList:     titleOnly("Наши врачи"),
		catalog.AppointmentForm: {DefaultProps: map[string]interface{}{"title": "Запись на приём", "fields": contactFields}},
		catalog.CourseList:      titleOnly("Наши курсы"),
		catalog.FeaturesList:    titleOnly("Преимущества"),
		catalog.JobList:         titleOnly("Актуальные вакансии"),
		catalog.Schedule:        titleOnly("Программа"),
		catalog.Speakers:        titleOnly("Спикеры"),
		catalog.Tickets:         titleOnly("Билеты"),
		catalog.Gallery:         titleOnly("Галерея"),
		catalog.Calculator:      titleOnly("Калькулятор"),
		catalog.Testimonials:    titleOnly("Отзывы"),
		catalog.Contacts:        titleOnly("Контакты"),
		catalog.SocialLinks:     titleOnly("Социальные сети"),
		catalog.Filters:         titleOnly("Фильтры"),
		catalog.Countdown:       titleOnly("До начала"),
		catalog.Cart:            titleOnly("Корзина"),
		catalog.SectionBlock:    titleOnly("Секция"),
	}
}

// resolveGenerators merges configured generator settings over the defaults.
// Keys that name no catalog type are returned separately.
func resolveGenerators(configured map[string]GeneratorConfig) (map[catalog.ComponentType]GeneratorConfig, []string) {
	out := DefaultGenerators()
	var unknown []string
	for key, override := range configured {
		t, ok := catalog.Lookup(key)
		if !ok {
			unknown = append(unknown, key)
			continue
		}
		out[t] = mergeGenerator(out[t], override)
	}
	return out, unknown
}

func mergeGenerator(base, override GeneratorConfig) GeneratorConfig {
	if override.DefaultProps != nil {
		base.DefaultProps = layout.CloneProps(override.DefaultProps)
	}
	if override.ActionKeywords != nil {
		base.ActionKeywords = override.ActionKeywords
	}
	if override.FormTypes != nil {
		base.FormTypes = override.FormTypes
	}
	if override.DefaultFields != nil {
		base.DefaultFields = override.DefaultFields
	}
	if override.DefaultItems != nil {
		base.DefaultItems = override.DefaultItems
	}
	if override.DefaultLinks != nil {
		base.DefaultLinks = override.DefaultLinks
	}
	if override.DefaultText != "" {
		base.DefaultText = override.DefaultText
	}
	if override.DefaultLevel != 0 {
		base.DefaultLevel = override.DefaultLevel
	}
	return base
}
