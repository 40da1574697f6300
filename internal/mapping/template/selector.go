// Package template selects a page template from keyword evidence and supplies
// its default section skeleton.
package template

import (
	"fmt"
	"strings"

	"visual-mapper/internal/common/textnorm"
	"visual-mapper/internal/mapping/layout"
)

// Default is used when no template trigger matches.
const Default = "hero-main-footer"

// Definition is one named template with its trigger keywords.
type Definition struct {
	Name     string
	Triggers []string
}

// Catalog lists the templates in declaration order.
var Catalog = []Definition{
	{Name: "ecommerce-landing", Triggers: []string{"интернет-магазин", "каталог", "товары", "корзина", "товар", "продажа", "магазин", "ecommerce", "покупка", "заказ", "доставка", "оплата"}},
	{Name: "medical-clinic", Triggers: []string{"клиника", "врач", "медицинский центр", "запись", "приём", "лечение", "анализы", "здоровье", "медицина", "доктор", "поликлиника"}},
	{Name: "education-portal", Triggers: []string{"обучение", "курс", "программа", "преподаватель", "урок", "школа", "студенты", "образование", "учебный", "дисциплина"}},
	{Name: "job-board", Triggers: []string{"работа", "вакансии", "карьера", "резюме", "отклик", "поиск работы", "трудоустройство", "должность"}},
	{Name: "event-landing", Triggers: []string{"мероприятие", "событие", "конференция", "фестиваль", "регистрация", "билеты", "расписание", "встреча", "акция"}},
	{Name: "finance-services", Triggers: []string{"банк", "кредит", "ипотека", "инвестиции", "страховка", "финансы", "проценты", "заявка", "финансовые услуги"}},
	{Name: "hero-main-footer", Triggers: []string{"меню", "навигация", "navbar", "шапка", "сайт", "страница"}},
	{Name: "cards-landing", Triggers: []string{"портфолио", "кейсы", "наши работы", "галерея", "проекты", "работы"}},
	{Name: "one-column", Triggers: []string{"лендинг", "промо", "одностраничный", "страница секциями", "landing"}},
}

// Priority breaks ties between equally matched templates; earlier wins.
var Priority = []string{
	"ecommerce-landing",
	"medical-clinic",
	"education-portal",
	"job-board",
	"event-landing",
	"finance-services",
	"hero-main-footer",
	"cards-landing",
	"one-column",
}

// Selection is the outcome of template selection.
type Selection struct {
	Template    string
	Matched     []string
	Explanation string
}

// Selector picks templates and hands out their skeletons.
type Selector struct {
	definitions []Definition
	rank        map[string]int
	skeletons   map[string]layout.Sections
}

// NewSelector builds a selector over the template catalog.
func NewSelector() *Selector {
	rank := make(map[string]int, len(Priority))
	for i, name := range Priority {
		rank[name] = i
	}
	return &Selector{
		definitions: Catalog,
		rank:        rank,
		skeletons:   skeletons(),
	}
}

// Select counts trigger keywords found in the joined, lower-cased input and
// returns the best template.
func (s *Selector) Select(entities, keyphrases []string) Selection {
	text := textnorm.Lower(strings.Join(append(append([]string{}, entities...), keyphrases...), " "))

	best := Selection{}
	bestCount := 0
	for _, def := range s.definitions {
		var matched []string
		for _, kw := range def.Triggers {
			if strings.Contains(text, kw) {
				matched = append(matched, kw)
			}
		}
		switch {
		case len(matched) == 0:
			continue
		case len(matched) > bestCount,
			len(matched) == bestCount && s.outranks(def.Name, best.Template):
			best = Selection{Template: def.Name, Matched: matched}
			bestCount = len(matched)
		}
	}

	if bestCount == 0 {
		return Selection{
			Template:    Default,
			Explanation: fmt.Sprintf("default template %s selected (no triggers found)", Default),
		}
	}
	best.Explanation = fmt.Sprintf("template %s selected by triggers: %s", best.Template, strings.Join(best.Matched, ", "))
	return best
}

// Resolve applies an explicit template override. A known override bypasses
// selection; an unknown one is ignored and noted in the explanation.
func (s *Selector) Resolve(override string, entities, keyphrases []string) Selection {
	override = strings.TrimSpace(override)
	if override == "" {
		return s.Select(entities, keyphrases)
	}
	if s.Known(override) {
		return Selection{
			Template:    override,
			Explanation: fmt.Sprintf("template %s selected by explicit override", override),
		}
	}
	sel := s.Select(entities, keyphrases)
	sel.Explanation = fmt.Sprintf("unknown template override %q ignored; %s", override, sel.Explanation)
	return sel
}

func (s *Selector) outranks(candidate, current string) bool {
	c, ok := s.rank[candidate]
	if !ok {
		return false
	}
	cur, ok := s.rank[current]
	if !ok {
		return true
	}
	return c < cur
}

// Known reports whether name is a catalog template.
func (s *Selector) Known(name string) bool {
	_, ok := s.skeletons[name]
	return ok
}

// Names lists the templates in catalog order.
func (s *Selector) Names() []string {
	out := make([]string, len(s.definitions))
	for i, d := range s.definitions {
		out[i] = d.Name
	}
	return out
}

// Skeleton returns a deep copy of the template's default sections. Unknown
// names yield the default template's skeleton.
func (s *Selector) Skeleton(name string) layout.Layout {
	sections, ok := s.skeletons[name]
	if !ok {
		name = Default
		sections = s.skeletons[Default]
	}
	return layout.New(name, sections.Clone())
}
