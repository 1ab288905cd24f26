package providers

import (
	"chat-relay/errors"
	"chat-relay/translation"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	myMemoryName = "mymemory"
	// quotaWarning prefixes the text MyMemory returns instead of a translation once the
	// daily free quota is used up, sometimes with a 200 status.
	quotaWarning = "MYMEMORY WARNING"
)

// MyMemory calls the MyMemory public translation API. The contact email raises the
// anonymous daily quota.
type MyMemory struct {
	client  *http.Client
	baseURL string
	email   string
}

func NewMyMemory(client *http.Client, baseURL, email string) *MyMemory {
	return &MyMemory{client: client, baseURL: strings.TrimRight(baseURL, "/"), email: email}
}

type myMemoryResponse struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
	// ResponseStatus is a number on success and sometimes a string on failure.
	ResponseStatus  json.RawMessage `json:"responseStatus"`
	ResponseDetails string          `json:"responseDetails"`
}

func (m *MyMemory) Name() string { return myMemoryName }

func (m *MyMemory) Translate(ctx context.Context, text, from, to string) (string, error) {
	// MyMemory has no auto-detection.
	source := from
	if !translation.IsConcrete(source) {
		source = translation.DetectLanguage(text)
	}
	if !translation.IsConcrete(source) {
		return "", fmt.Errorf("%s: source language undetectable: %w", myMemoryName, errors.ErrNoTranslation)
	}
	if source == to {
		return "", errors.ErrNoTranslation
	}

	query := url.Values{}
	query.Set("q", text)
	query.Set("langpair", source+"|"+to)
	if m.email != "" {
		query.Set("de", m.email)
	}

	var response myMemoryResponse
	if err := getJSON(ctx, m.client, m.baseURL+"/get?"+query.Encode(), &response, myMemoryName); err != nil {
		return "", err
	}

	status := parseStatus(response.ResponseStatus)
	translated := response.ResponseData.TranslatedText
	if strings.HasPrefix(translated, quotaWarning) {
		status = http.StatusTooManyRequests
	}
	if status != http.StatusOK {
		return "", &ProviderError{Provider: myMemoryName, StatusCode: status, Message: response.ResponseDetails}
	}
	if strings.TrimSpace(translated) == "" {
		return "", errors.ErrNoTranslation
	}
	return translated, nil
}

func parseStatus(raw json.RawMessage) int {
	status, err := strconv.Atoi(strings.Trim(string(raw), `"`))
	if err != nil {
		return 0
	}
	return status
}
