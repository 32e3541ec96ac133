// Package importer turns a recipe or grocery-list web page into inventory
// lines the planner understands.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"prato-pronto/internal/llm"
	"prato-pronto/internal/shared"
)

// Importer fetches a URL and extracts its ingredient list.
type Importer struct {
	httpClient *http.Client
	textGen    llm.TextGenerator
}

// ExtractedList is the structured result of the extraction.
type ExtractedList struct {
	Title       string   `json:"title"`
	Ingredients []string `json:"ingredients"`
}

// NewImporter creates an Importer using the given generative backend.
func NewImporter(textGen llm.TextGenerator) *Importer {
	return &Importer{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		textGen:    textGen,
	}
}

// ImportURL fetches the page, strips markup noise and asks the generative
// backend for the ingredient lines. Each returned line is free text in the
// same shape the planner accepts directly ("500g de frango", "3 cenouras").
func (i *Importer) ImportURL(ctx context.Context, url string) (*ExtractedList, *shared.AgentMeta, error) {
	content, err := i.fetchAndCleanHTML(ctx, url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch content: %w", err)
	}

	prompt := fmt.Sprintf(`Você extrai listas de ingredientes de páginas de receitas.
Leia o conteúdo abaixo e responda APENAS com um objeto JSON nesta estrutura:
{
  "title": "título da receita ou lista",
  "ingredients": ["500g de frango", "2 cebolas", "1kg de arroz"]
}
Cada ingrediente deve vir com quantidade e unidade quando a página informar.

Conteúdo:
%s`, content)

	start := time.Now()
	resp, err := i.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, nil, fmt.Errorf("ingredient extraction failed: %w", err)
	}

	meta := &shared.AgentMeta{
		AgentName: "IngredientImporter",
		Usage:     resp.Usage,
		Latency:   time.Since(start),
	}

	var extracted ExtractedList
	if err := json.Unmarshal([]byte(llm.ExtractJSON(resp.Content)), &extracted); err != nil {
		return nil, meta, fmt.Errorf("failed to parse extraction response: %w", err)
	}
	if len(extracted.Ingredients) == 0 {
		return nil, meta, fmt.Errorf("no ingredients found at %s", url)
	}

	return &extracted, meta, nil
}

func (i *Importer) fetchAndCleanHTML(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	// remove noise so the page fits the model's context cheaply
	doc.Find("script, style, nav, footer, iframe, ads, .ads, #ads").Each(func(_ int, s *goquery.Selection) {
		s.Remove()
	})

	return doc.Find("body").Text(), nil
}
