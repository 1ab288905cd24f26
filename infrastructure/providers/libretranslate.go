package providers

import (
	"chat-relay/errors"
	"chat-relay/translation"
	"context"
	"net/http"
	"strings"
)

const libreTranslateName = "libretranslate"

// LibreTranslate calls a LibreTranslate server (self-hosted or public).
type LibreTranslate struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewLibreTranslate(client *http.Client, baseURL, apiKey string) *LibreTranslate {
	return &LibreTranslate{client: client, baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey}
}

type libreTranslateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type libreTranslateResponse struct {
	TranslatedText string `json:"translatedText"`
}

func (l *LibreTranslate) Name() string { return libreTranslateName }

func (l *LibreTranslate) Translate(ctx context.Context, text, from, to string) (string, error) {
	source := from
	if !translation.IsConcrete(source) {
		source = translation.AutoLanguage
	}
	var response libreTranslateResponse
	err := postJSON(ctx, l.client, l.baseURL+"/translate", nil, libreTranslateRequest{
		Q:      text,
		Source: source,
		Target: to,
		Format: "text",
		APIKey: l.apiKey,
	}, &response, libreTranslateName)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(response.TranslatedText) == "" {
		return "", errors.ErrNoTranslation
	}
	return response.TranslatedText, nil
}
