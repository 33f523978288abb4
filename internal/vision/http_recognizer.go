package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"time"

	_ "image/jpeg"
	_ "image/png"
)

// HTTPRecognizer calls an external OCR service over HTTP. The service takes
// raw image bytes and answers with JSON {"text": "..."} where text is the
// recognized content with newline-separated lines.
type HTTPRecognizer struct {
	baseURL string
	client  *http.Client
}

func NewHTTPRecognizer(baseURL string) *HTTPRecognizer {
	return &HTTPRecognizer{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type recognizeResponse struct {
	Text string `json:"text"`
}

// RecognizeText validates the image locally, then sends it to the OCR
// service and splits the result into non-empty lines.
func (r *HTTPRecognizer) RecognizeText(ctx context.Context, img []byte) ([]string, error) {
	if _, _, err := image.Decode(bytes.NewReader(img)); err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/recognize", bytes.NewReader(img))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call ocr service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("ocr service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out recognizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode ocr response: %w", err)
	}

	var lines []string
	for _, line := range strings.Split(out.Text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines, nil
}
