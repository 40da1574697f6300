package template

import (
	"visual-mapper/internal/catalog"
	"visual-mapper/internal/mapping/layout"
)

// SkeletonConfidence is the fixed confidence of every skeleton instance.
const SkeletonConfidence = 0.51

type props = map[string]interface{}

func skel(t catalog.ComponentType, term string, p props) layout.ComponentInstance {
	return layout.ComponentInstance{
		Component:  t,
		Props:      p,
		Confidence: SkeletonConfidence,
		MatchType:  layout.MatchTemplateSkeleton,
		Term:       term,
	}
}

func hero(title, subtitle string) layout.ComponentInstance {
	return skel(catalog.Hero, "template-hero", props{"title": title, "subtitle": subtitle})
}

func navbar(links ...string) layout.ComponentInstance {
	return skel(catalog.Navbar, "template-navbar", props{"links": stringList(links)})
}

func footer(links ...string) layout.ComponentInstance {
	return skel(catalog.Footer, "template-footer", props{"links": stringList(links)})
}

func titled(t catalog.ComponentType, term, title string) layout.ComponentInstance {
	return skel(t, term, props{"title": title})
}

func action(t catalog.ComponentType, term, text string) layout.ComponentInstance {
	return skel(t, term, props{"text": text, "variant": "primary"})
}

func contacts() layout.ComponentInstance {
	return titled(catalog.Contacts, "template-contacts", "Контакты")
}

func stringList(items []string) []interface{} {
	out := make([]interface{}, len(items))
	for i, s := range items {
		out[i] = s
	}
	return out
}

// skeletons builds the hand-authored default sections of every template.
// Each call returns fresh values.
func skeletons() map[string]layout.Sections {
	return map[string]layout.Sections{
		"ecommerce-landing": {
			Hero: []layout.ComponentInstance{
				hero("Интернет-магазин", "Добро пожаловать в наш магазин"),
				skel(catalog.Search, "template-search", props{"placeholder": "Поиск товаров"}),
			},
			Main: []layout.ComponentInstance{
				titled(catalog.ProductGrid, "template-products", "Каталог товаров"),
				titled(catalog.Filters, "template-filters", "Фильтры"),
				action(catalog.CTA, "template-cta", "Оформить заказ"),
			},
			Footer: []layout.ComponentInstance{
				footer("О нас", "Контакты", "Доставка"),
			},
		},
		"hero-main-footer": {
			Hero: []layout.ComponentInstance{
				hero("Добро пожаловать", "Наш сайт"),
				navbar("Главная", "О нас", "Контакты"),
			},
			Main: []layout.ComponentInstance{
				skel(catalog.Text, "template-text", props{"text": "Основной контент"}),
				action(catalog.Button, "template-button", "Действие"),
				skel(catalog.Form, "template-form", props{"fields": []interface{}{
					map[string]interface{}{"name": "contact", "label": "Контакт", "type": "text"},
				}}),
			},
			Footer: []layout.ComponentInstance{
				footer("О нас", "Контакты", "Помощь"),
			},
		},
		"cards-landing": {
			Hero: []layout.ComponentInstance{
				hero("Наши работы", "Портфолио"),
			},
			Main: []layout.ComponentInstance{
				skel(catalog.Cards, "template-cards", props{"title": "Проекты", "layout": "grid"}),
				skel(catalog.Text, "template-text", props{"text": "Описание работ"}),
			},
			Footer: []layout.ComponentInstance{
				footer("О нас", "Контакты", "Услуги"),
			},
		},
		"one-column": {
			Hero: []layout.ComponentInstance{
				hero("Лендинг", "Промо страница"),
			},
			Main: []layout.ComponentInstance{
				titled(catalog.SectionBlock, "template-section1", "Секция 1"),
				skel(catalog.Text, "template-text", props{"text": "Описание"}),
				action(catalog.Button, "template-button", "Призыв к действию"),
			},
			Footer: []layout.ComponentInstance{
				footer("Контакты", "Политика"),
			},
		},
		"medical-clinic": {
			Hero: []layout.ComponentInstance{
				hero("Медицинская клиника", "Забота о вашем здоровье"),
				navbar("Главная", "Услуги", "Врачи", "Контакты"),
			},
			Main: []layout.ComponentInstance{
				titled(catalog.ServicesGrid, "template-services", "Наши услуги"),
				titled(catalog.DoctorsList, "template-doctors", "Наши врачи"),
				titled(catalog.AppointmentForm, "template-appointment", "Запись на приём"),
				titled(catalog.Testimonials, "template-testimonials", "Отзывы пациентов"),
			},
			Footer: []layout.ComponentInstance{
				footer("О клинике", "Лицензии", "Контакты"),
				contacts(),
			},
		},
		"education-portal": {
			Hero: []layout.ComponentInstance{
				hero("Образовательная платформа", "Обучение нового поколения"),
				navbar("Главная", "Курсы", "Преподаватели", "Контакты"),
			},
			Main: []layout.ComponentInstance{
				titled(catalog.CourseList, "template-courses", "Наши курсы"),
				titled(catalog.FeaturesList, "template-features", "Преимущества обучения"),
				titled(catalog.Testimonials, "template-testimonials", "Отзывы студентов"),
				action(catalog.CTA, "template-cta", "Начать обучение"),
			},
			Footer: []layout.ComponentInstance{
				footer("О платформе", "Помощь", "Контакты"),
				titled(catalog.SocialLinks, "template-social", "Социальные сети"),
			},
		},
		"job-board": {
			Hero: []layout.ComponentInstance{
				hero("Поиск работы", "Найдите работу своей мечты"),
				skel(catalog.Search, "template-search", props{"placeholder": "Поиск вакансий"}),
			},
			Main: []layout.ComponentInstance{
				titled(catalog.JobList, "template-jobs", "Актуальные вакансии"),
				titled(catalog.Filters, "template-filters", "Фильтры поиска"),
				action(catalog.CTA, "template-cta", "Разместить резюме"),
			},
			Footer: []layout.ComponentInstance{
				footer("О компании", "Работодателям", "Контакты"),
				contacts(),
			},
		},
		"event-landing": {
			Hero: []layout.ComponentInstance{
				hero("Мероприятие", "Присоединяйтесь к нам"),
				action(catalog.CTA, "template-cta", "Зарегистрироваться"),
				titled(catalog.Countdown, "template-countdown", "До начала мероприятия"),
			},
			Main: []layout.ComponentInstance{
				titled(catalog.Schedule, "template-schedule", "Программа мероприятия"),
				titled(catalog.Speakers, "template-speakers", "Спикеры"),
				titled(catalog.Tickets, "template-tickets", "Билеты"),
				titled(catalog.Gallery, "template-gallery", "Галерея"),
			},
			Footer: []layout.ComponentInstance{
				footer("О мероприятии", "Спонсоры", "Контакты"),
				contacts(),
			},
		},
		"finance-services": {
			Hero: []layout.ComponentInstance{
				hero("Финансовые услуги", "Надёжные финансовые решения"),
				navbar("Главная", "Услуги", "Калькулятор", "Контакты"),
			},
			Main: []layout.ComponentInstance{
				titled(catalog.ServicesGrid, "template-services", "Наши услуги"),
				titled(catalog.Calculator, "template-calculator", "Калькулятор"),
				action(catalog.CTA, "template-cta", "Подать заявку"),
				titled(catalog.Testimonials, "template-testimonials", "Отзывы клиентов"),
			},
			Footer: []layout.ComponentInstance{
				footer("О компании", "Лицензии", "Контакты"),
				contacts(),
			},
		},
	}
}
