package props

import (
	"strings"

	"visual-mapper/internal/catalog"
	"visual-mapper/internal/common/textnorm"
	"visual-mapper/internal/mapping/layout"
)

const maxTextRunes = 100

// Generator builds props for one component type from the lower-cased request
// text and that type's settings.
type Generator func(text string, cfg GeneratorConfig) map[string]interface{}

// Generators maps every type with dedicated generation logic to its generator.
// Types missing here receive their configured default props.
func Generators() map[catalog.ComponentType]Generator {
	return map[catalog.ComponentType]Generator{
		catalog.Button:      buttonProps,
		catalog.Form:        formProps,
		catalog.Hero:        heroProps,
		catalog.Cards:       cardsProps,
		catalog.ProductGrid: productGridProps,
		catalog.Footer:      linksProps,
		catalog.Text:        textProps,
		catalog.Heading:     headingProps,
		catalog.Navbar:      linksProps,
		catalog.Search:      defaultsProps,
		catalog.CTA:         defaultsProps,
		catalog.ProductCard: defaultsProps,
	}
}

func buttonProps(text string, cfg GeneratorConfig) map[string]interface{} {
	for _, kw := range cfg.ActionKeywords {
		if textnorm.Contains(text, kw) {
			return map[string]interface{}{"text": textnorm.Title(kw), "variant": "primary"}
		}
	}
	return defaultsProps(text, cfg)
}

func formProps(text string, cfg GeneratorConfig) map[string]interface{} {
	for _, ft := range cfg.FormTypes {
		for _, kw := range ft.Keywords {
			if !textnorm.Contains(text, kw) {
				continue
			}
			fields := ft.Fields
			if fields == nil {
				fields = cfg.DefaultFields
			}
			title := ft.Title
			if title == "" {
				title = textnorm.Title(ft.Name)
			}
			return map[string]interface{}{"fields": cloneList(fields), "title": title}
		}
	}
	return map[string]interface{}{"fields": cloneList(cfg.DefaultFields), "title": "Форма"}
}

func heroProps(text string, cfg GeneratorConfig) map[string]interface{} {
	words := firstWords(text, 3)
	if len(words) == 0 {
		return defaultsProps(text, cfg)
	}
	return map[string]interface{}{
		"title":    textnorm.Title(strings.Join(words, " ")),
		"subtitle": stringOr(cfg.DefaultProps["subtitle"], "Наш сайт"),
		"cta_text": stringOr(cfg.DefaultProps["cta_text"], "Начать"),
	}
}

func cardsProps(_ string, cfg GeneratorConfig) map[string]interface{} {
	return map[string]interface{}{
		"items":   itemsOr(cfg.DefaultItems, map[string]interface{}{"title": "Пример карточки", "description": "Описание карточки"}),
		"layout":  "grid",
		"columns": 3,
	}
}

func productGridProps(_ string, cfg GeneratorConfig) map[string]interface{} {
	return map[string]interface{}{
		"items":        itemsOr(cfg.DefaultItems, map[string]interface{}{"title": "Товар 1", "description": "Описание товара", "price": "1000 ₽"}),
		"layout":       "grid",
		"columns":      3,
		"show_filters": true,
	}
}

func linksProps(_ string, cfg GeneratorConfig) map[string]interface{} {
	links := make([]interface{}, len(cfg.DefaultLinks))
	for i, l := range cfg.DefaultLinks {
		links[i] = l
	}
	return map[string]interface{}{"links": links}
}

func textProps(text string, cfg GeneratorConfig) map[string]interface{} {
	trimmed := strings.TrimSpace(text)
	runes := []rune(trimmed)
	if len(runes) > 3 {
		if len(runes) > maxTextRunes {
			runes = runes[:maxTextRunes]
		}
		return map[string]interface{}{"text": string(runes)}
	}
	return map[string]interface{}{"text": stringOr(cfg.DefaultText, "Описание раздела")}
}

func headingProps(text string, cfg GeneratorConfig) map[string]interface{} {
	level := cfg.DefaultLevel
	if level == 0 {
		level = 1
	}
	words := firstWords(text, 2)
	if len(words) == 0 {
		return map[string]interface{}{"text": stringOr(cfg.DefaultText, "Заголовок"), "level": level}
	}
	return map[string]interface{}{"text": textnorm.Title(strings.Join(words, " ")), "level": level}
}

// defaultsProps returns a copy of the configured default props.
func defaultsProps(_ string, cfg GeneratorConfig) map[string]interface{} {
	if cfg.DefaultProps == nil {
		return map[string]interface{}{}
	}
	return layout.CloneProps(cfg.DefaultProps)
}

func firstWords(text string, n int) []string {
	words := strings.Fields(text)
	if len(words) > n {
		words = words[:n]
	}
	return words
}

func stringOr(v interface{}, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func itemsOr(items []interface{}, fallback map[string]interface{}) []interface{} {
	if len(items) == 0 {
		return []interface{}{fallback}
	}
	return cloneList(items)
}

func cloneList(items []interface{}) []interface{} {
	if items == nil {
		return []interface{}{}
	}
	return layout.CloneValue(items).([]interface{})
}
