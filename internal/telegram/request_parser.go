package telegram

import (
	"strconv"
	"strings"

	"prato-pronto/internal/ingredient"
	"prato-pronto/internal/plan"
)

// parseRequestMessage turns a chat message into a plan request. Messages use
// one "campo: valor" line per field:
//
//	ingredientes: 2kg de frango, 1kg de arroz, 3 cenouras
//	porções: 12
//	pratos: 4
//	exclusões: pimentão, cebola
//	dieta: low carb
//	calorias: 600
//	tempo: 2h
//	novos: sim
//
// A message without any recognized field is treated as a bare ingredient
// list. Unset fields keep the engine's defaults.
func parseRequestMessage(text string) plan.Request {
	req := plan.Request{Servings: defaultServings}

	recognized := false
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, ok := splitField(line)
		if !ok {
			continue
		}
		recognized = true

		switch key {
		case "ingredientes":
			req.AvailableIngredients = splitList(value)
		case "porcoes":
			if n, err := strconv.Atoi(value); err == nil {
				req.Servings = n
			}
		case "pratos", "variedades":
			if n, err := strconv.Atoi(value); err == nil {
				req.Varieties = n
			}
		case "exclusoes", "sem":
			req.Exclusions = splitList(value)
		case "dieta":
			req.DietType = value
		case "objetivo":
			req.Objective = value
		case "calorias":
			if n, err := strconv.Atoi(value); err == nil {
				req.CalorieLimit = n
			}
		case "tempo":
			req.AvailableTime = parseHours(value)
		case "novos":
			req.AllowNewIngredients = value == "sim" || value == "s"
		case "gosto":
			req.UserFavorites = splitList(value)
		case "naogosto":
			req.UserDislikes = splitList(value)
		}
	}

	if !recognized {
		req.AvailableIngredients = splitList(text)
	}
	return req
}

func splitField(line string) (string, string, bool) {
	idx := strings.Index(line, ":")
	if idx <= 0 {
		return "", "", false
	}
	key := strings.ReplaceAll(ingredient.Fold(line[:idx]), " ", "")
	value := strings.TrimSpace(line[idx+1:])
	if key == "" || value == "" {
		return "", "", false
	}
	return key, value, true
}

func splitList(value string) []string {
	var items []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			items = append(items, part)
		}
	}
	return items
}

// parseHours accepts "2", "2h", "1.5h", "1,5" and "90min".
func parseHours(value string) float64 {
	v := strings.ToLower(strings.TrimSpace(value))
	minutes := false
	switch {
	case strings.HasSuffix(v, "min"):
		v = strings.TrimSuffix(v, "min")
		minutes = true
	case strings.HasSuffix(v, "h"):
		v = strings.TrimSuffix(v, "h")
	}
	v = strings.ReplaceAll(strings.TrimSpace(v), ",", ".")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0
	}
	if minutes {
		return f / 60
	}
	return f
}
