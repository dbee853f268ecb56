package navigator

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// NextData is the JSON document the site embeds in its __NEXT_DATA__ script
// tag. Field set follows the deployed build's static export output.
type NextData struct {
	Page       string         `json:"page"`
	BuildID    string         `json:"buildId"`
	IsFallback bool           `json:"isFallback"`
	NextExport bool           `json:"nextExport"`
	AutoExport bool           `json:"autoExport"`
	Query      map[string]any `json:"query"`
	Props      NextProps      `json:"props"`
}

// NextProps holds the per-page props of the NextData document.
type NextProps struct {
	PageProps map[string]any `json:"pageProps"`
}

// ParseNextData decodes a raw __NEXT_DATA__ payload.
func ParseNextData(raw string) (NextData, error) {
	if strings.TrimSpace(raw) == "" {
		return NextData{}, errors.New("empty __NEXT_DATA__ payload")
	}
	var nd NextData
	if err := json.Unmarshal([]byte(raw), &nd); err != nil {
		return NextData{}, fmt.Errorf("parse __NEXT_DATA__: %w", err)
	}
	return nd, nil
}

// PageNextData extracts and parses the __NEXT_DATA__ blob from a live page.
func PageNextData(page playwright.Page) (NextData, error) {
	raw, err := page.Locator("script#__NEXT_DATA__").TextContent()
	if err != nil {
		return NextData{}, fmt.Errorf("locate __NEXT_DATA__: %w", err)
	}
	return ParseNextData(raw)
}
