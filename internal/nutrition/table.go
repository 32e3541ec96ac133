// Package nutrition provides the built-in calorie table used to enrich plans.
// Values are kcal per 100 g / 100 ml, or kcal per unit for countable items.
// The table is a keyword lookup, not a nutrition database: unknown ingredients
// simply report no data and the engine flags them instead of guessing.
package nutrition

import (
	"prato-pronto/internal/ingredient"
)

// Info is the calorie datum for one known ingredient keyword.
type Info struct {
	KcalPer100 float64
	// KcalPerUnit is used when the ingredient is measured in "unidade".
	KcalPerUnit float64
}

var table = map[string]Info{
	"frango":       {KcalPer100: 165, KcalPerUnit: 250},
	"carne moida":  {KcalPer100: 240, KcalPerUnit: 0},
	"carne":        {KcalPer100: 250, KcalPerUnit: 0},
	"peixe":        {KcalPer100: 120, KcalPerUnit: 150},
	"ovo":          {KcalPer100: 155, KcalPerUnit: 70},
	"arroz":        {KcalPer100: 130, KcalPerUnit: 0},
	"feijao":       {KcalPer100: 95, KcalPerUnit: 0},
	"batata":       {KcalPer100: 86, KcalPerUnit: 130},
	"batata doce":  {KcalPer100: 90, KcalPerUnit: 115},
	"macarrao":     {KcalPer100: 158, KcalPerUnit: 0},
	"pao":          {KcalPer100: 265, KcalPerUnit: 135},
	"farinha":      {KcalPer100: 364, KcalPerUnit: 0},
	"tomate":       {KcalPer100: 18, KcalPerUnit: 22},
	"cebola":       {KcalPer100: 40, KcalPerUnit: 44},
	"alho":         {KcalPer100: 149, KcalPerUnit: 5},
	"cenoura":      {KcalPer100: 41, KcalPerUnit: 30},
	"abobrinha":    {KcalPer100: 17, KcalPerUnit: 33},
	"brocolis":     {KcalPer100: 34, KcalPerUnit: 0},
	"couve":        {KcalPer100: 32, KcalPerUnit: 0},
	"alface":       {KcalPer100: 15, KcalPerUnit: 21},
	"pimentao":     {KcalPer100: 26, KcalPerUnit: 31},
	"leite":        {KcalPer100: 61, KcalPerUnit: 0},
	"queijo":       {KcalPer100: 350, KcalPerUnit: 0},
	"manteiga":     {KcalPer100: 717, KcalPerUnit: 0},
	"azeite":       {KcalPer100: 884, KcalPerUnit: 0},
	"oleo":         {KcalPer100: 884, KcalPerUnit: 0},
	"acucar":       {KcalPer100: 387, KcalPerUnit: 0},
	"banana":       {KcalPer100: 89, KcalPerUnit: 105},
	"laranja":      {KcalPer100: 47, KcalPerUnit: 62},
	"maca":         {KcalPer100: 52, KcalPerUnit: 95},
	"milho":        {KcalPer100: 86, KcalPerUnit: 0},
	"lentilha":     {KcalPer100: 116, KcalPerUnit: 0},
	"grao de bico": {KcalPer100: 164, KcalPerUnit: 0},
	"tofu":         {KcalPer100: 76, KcalPerUnit: 0},
	"quinoa":       {KcalPer100: 120, KcalPerUnit: 0},
	"aveia":        {KcalPer100: 389, KcalPerUnit: 0},
}

// longest-match keyword order avoids "carne" shadowing "carne moida".
var keywordOrder = buildKeywordOrder()

func buildKeywordOrder() []string {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	// insertion sort by descending length, table is small
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && len(keys[j]) > len(keys[j-1]); j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	return keys
}

// Lookup finds calorie data for an ingredient name by folded keyword match.
// The boolean is false when the table has no entry for the name.
func Lookup(name string) (Info, bool) {
	folded := ingredient.Fold(name)
	if folded == "" {
		return Info{}, false
	}
	for _, keyword := range keywordOrder {
		if ingredient.ContainsFold(folded, keyword) {
			return table[keyword], true
		}
	}
	return Info{}, false
}
