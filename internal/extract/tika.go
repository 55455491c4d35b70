package extract

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"
)

// TikaClient extracts text from word-processor formats through an Apache
// Tika server (PUT /tika with the file body, Accept: text/plain).
type TikaClient struct {
	serverURL  string
	httpClient *http.Client
}

func NewTikaClient(serverURL string) *TikaClient {
	return &TikaClient{
		serverURL:  serverURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *TikaClient) ExtractText(filename string, data []byte) (string, error) {
	req, err := http.NewRequest(http.MethodPut, c.serverURL+"/tika", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("build tika request failed: %w", err)
	}
	req.Header.Set("Accept", "text/plain")
	req.Header.Set("Content-Type", detectMimeType(filename))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call tika failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("tika returned status %d: %s", resp.StatusCode, string(body))
	}

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read tika response failed: %w", err)
	}
	return string(out), nil
}

func detectMimeType(filename string) string {
	ext := NormalizeExt(filename)
	if ext == "" {
		return "application/octet-stream"
	}
	if mimeType := mime.TypeByExtension(ext); mimeType != "" {
		return mimeType
	}
	return "application/octet-stream"
}
