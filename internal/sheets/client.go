package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const driveBaseURL = "https://www.googleapis.com/drive/v3"

// maxDownloadSize bounds an exported spreadsheet.
const maxDownloadSize = 64 << 20

// SourcePrefix marks a command-line source as a Google Drive file ID.
const SourcePrefix = "gsheet:"

// ExportFormat is the file format a native Google Sheet is exported as.
type ExportFormat string

const (
	ExportXLSX ExportFormat = "xlsx"
	ExportCSV  ExportFormat = "csv"
)

const (
	mimeGoogleSheet = "application/vnd.google-apps.spreadsheet"
	mimeXLSX        = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeCSV         = "text/csv"
)

func (f ExportFormat) mimeType() (string, error) {
	switch f {
	case "", ExportXLSX:
		return mimeXLSX, nil
	case ExportCSV:
		return mimeCSV, nil
	}
	return "", fmt.Errorf("unknown export format %q (want xlsx or csv)", f)
}

// ParseSource returns the file ID of a "gsheet:<id>" source.
func ParseSource(source string) (fileID string, ok bool) {
	id, found := strings.CutPrefix(source, SourcePrefix)
	if !found || strings.TrimSpace(id) == "" {
		return "", false
	}
	return strings.TrimSpace(id), true
}

// Download is a spreadsheet fetched from Drive.
type Download struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Client reads spreadsheets through the Google Drive API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a Drive client. httpClient must add credentials, e.g. the
// one returned by Authenticator.HTTPClient. An empty baseURL selects the
// public Drive endpoint.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = driveBaseURL
	}
	return &Client{httpClient: httpClient, baseURL: strings.TrimRight(baseURL, "/")}
}

type fileMetadata struct {
	Name     string `json:"name"`
	MIMEType string `json:"mimeType"`
}

// Export downloads the file. Native Google Sheets are converted to format;
// uploaded CSV or Excel files are downloaded unchanged.
func (c *Client) Export(ctx context.Context, fileID string, format ExportFormat) (Download, error) {
	exportMIME, err := format.mimeType()
	if err != nil {
		return Download{}, err
	}

	var meta fileMetadata
	metaURL := fmt.Sprintf("%s/files/%s?fields=name,mimeType&supportsAllDrives=true", c.baseURL, url.PathEscape(fileID))
	body, err := c.get(ctx, metaURL)
	if err != nil {
		return Download{}, err
	}
	if err := json.Unmarshal(body, &meta); err != nil {
		return Download{}, fmt.Errorf("decoding drive metadata: %w", err)
	}

	if meta.MIMEType != mimeGoogleSheet {
		data, err := c.get(ctx, fmt.Sprintf("%s/files/%s?alt=media&supportsAllDrives=true", c.baseURL, url.PathEscape(fileID)))
		if err != nil {
			return Download{}, err
		}
		return Download{Name: meta.Name, MIMEType: meta.MIMEType, Data: data}, nil
	}

	exportURL := fmt.Sprintf("%s/files/%s/export?mimeType=%s", c.baseURL, url.PathEscape(fileID), url.QueryEscape(exportMIME))
	data, err := c.get(ctx, exportURL)
	if err != nil {
		return Download{}, err
	}
	ext := string(format)
	if ext == "" {
		ext = string(ExportXLSX)
	}
	return Download{Name: meta.Name + "." + ext, MIMEType: exportMIME, Data: data}, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("drive API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("drive API error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if len(body) > maxDownloadSize {
		return nil, fmt.Errorf("drive file exceeds %d MiB", maxDownloadSize>>20)
	}
	return body, nil
}
