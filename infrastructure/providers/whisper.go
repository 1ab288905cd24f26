package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const whisperName = "whisper"

// Whisper calls an OpenAI-compatible /v1/audio/transcriptions endpoint
// (OpenAI, Groq, faster-whisper-server, whisper.cpp server).
type Whisper struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

func NewWhisper(client *http.Client, baseURL, apiKey, model string) *Whisper {
	return &Whisper{client: client, baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, model: model}
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe returns the transcript of audio, possibly empty for silent recordings.
func (w *Whisper) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	body, contentType, err := w.multipartBody(audio, mimeType)
	if err != nil {
		return "", fmt.Errorf("%s: building form: %w", whisperName, err)
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, w.baseURL+"/v1/audio/transcriptions", body)
	if err != nil {
		return "", fmt.Errorf("%s: creating request: %w", whisperName, err)
	}
	request.Header.Set("Content-Type", contentType)
	for key, value := range bearer(w.apiKey) {
		request.Header.Set(key, value)
	}

	response, err := do(w.client, request, whisperName)
	if err != nil {
		return "", err
	}
	defer response.Body.Close()

	var transcription transcriptionResponse
	if err = json.NewDecoder(response.Body).Decode(&transcription); err != nil {
		return "", fmt.Errorf("%s: decoding response: %w", whisperName, err)
	}
	return strings.TrimSpace(transcription.Text), nil
}

func (w *Whisper) multipartBody(audio []byte, mimeType string) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := writer.WriteField("model", w.model); err != nil {
		return nil, "", err
	}
	if err := writer.WriteField("response_format", "json"); err != nil {
		return nil, "", err
	}

	// The provider infers the container from the file name extension.
	extension := ".bin"
	if detected := mimetype.Lookup(mimeType); detected != nil && detected.Extension() != "" {
		extension = detected.Extension()
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="audio%s"`, extension))
	header.Set("Content-Type", mimeType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err = part.Write(audio); err != nil {
		return nil, "", err
	}
	if err = writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}
