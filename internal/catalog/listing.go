package catalog

// Entry is one row of the component listing.
type Entry struct {
	Name         ComponentType          `json:"name"`
	Category     string                 `json:"category"`
	Section      Section                `json:"section"`
	ExampleProps map[string]interface{} `json:"example_props"`
}

// Listing returns the static component listing. Each call builds fresh maps
// so callers may mutate the result.
func Listing() []Entry {
	entries := []Entry{
		{
			Name:     Hero,
			Category: "branding",
			ExampleProps: map[string]interface{}{
				"title":    "Добро пожаловать",
				"subtitle": "Демо приложение",
				"ctas": []interface{}{
					map[string]interface{}{"text": "Начать", "variant": "primary"},
				},
			},
		},
		{
			Name:     Heading,
			Category: "content",
			ExampleProps: map[string]interface{}{
				"text":  "Заголовок страницы",
				"level": 1,
			},
		},
		{
			Name:     Button,
			Category: "action",
			ExampleProps: map[string]interface{}{
				"text":    "Отправить",
				"variant": "primary",
			},
		},
		{
			Name:     Form,
			Category: "form",
			ExampleProps: map[string]interface{}{
				"fields": []interface{}{
					map[string]interface{}{
						"name":     "email",
						"label":    "Email",
						"type":     "email",
						"required": true,
					},
				},
				"submit_text": "Отправить",
			},
		},
		{
			Name:     Footer,
			Category: "meta",
			ExampleProps: map[string]interface{}{
				"links": []interface{}{"О нас", "Контакты"},
			},
		},
	}
	for i := range entries {
		entries[i].Section = SectionFor(entries[i].Name)
	}
	return entries
}
