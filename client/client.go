// Package client speaks the cutter backend's HTTP API. Every endpoint
// gets one method; all server-reported failure shapes are normalized
// into *APIError so callers handle exactly one error form.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"cutplot/models"
)

// Generous cap for downloaded packages; JSON bodies stay tiny.
const maxResponseBytes = 64 * 1024 * 1024

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// APIError is a failure the server itself reported, as opposed to a
// transport or decoding failure. Messages holds the server text
// verbatim, whether it arrived as "error" or as an "errors" list.
type APIError struct {
	Endpoint string
	Status   int
	Messages []string
}

func (e *APIError) Error() string {
	if len(e.Messages) > 0 {
		return strings.Join(e.Messages, "; ")
	}
	if e.Status == 0 {
		return fmt.Sprintf("%s: server reported failure", e.Endpoint)
	}
	return fmt.Sprintf("%s failed with status %d", e.Endpoint, e.Status)
}

func serverMessages(errStr string, errList []string) []string {
	var msgs []string
	if errStr != "" {
		msgs = append(msgs, errStr)
	}
	for _, e := range errList {
		if e != "" {
			msgs = append(msgs, e)
		}
	}
	return msgs
}

func (c *Client) postJSON(endpoint string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("reach server: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		if resp.StatusCode >= 400 {
			return &APIError{Endpoint: endpoint, Status: resp.StatusCode}
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// SendPackage asks the server to wrap gcode into a 3MF named after
// filename and start printing it.
func (c *Client) SendPackage(gcodeText, filename string) (models.SendPackageResponse, error) {
	const endpoint = "/api/gcode/send-all-3mf"
	var out models.SendPackageResponse

	payload := map[string]string{"gcode": gcodeText, "filename": filename}
	if err := c.postJSON(endpoint, payload, &out); err != nil {
		return out, err
	}
	if !out.Success {
		return out, &APIError{
			Endpoint: endpoint,
			Messages: serverMessages(out.Error, out.Errors),
		}
	}
	return out, nil
}

// SendRaw streams gcode to the printer line by line, unpackaged.
func (c *Client) SendRaw(gcodeText string) (models.SendRawResponse, error) {
	const endpoint = "/api/gcode/send-all"
	var out models.SendRawResponse

	payload := map[string]string{"gcode": gcodeText}
	if err := c.postJSON(endpoint, payload, &out); err != nil {
		return out, err
	}
	if !out.Success {
		return out, &APIError{
			Endpoint: endpoint,
			Messages: serverMessages(out.Error, out.Errors),
		}
	}
	return out, nil
}

// CreatePackage builds the 3MF server-side and returns its bytes. A
// JSON body in the reply always means the server refused.
func (c *Client) CreatePackage(gcodeText, filename string) ([]byte, error) {
	const endpoint = "/api/gcode/create-3mf"

	body, err := json.Marshal(map[string]string{"gcode": gcodeText, "filename": filename})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reach server: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		var failure models.SendPackageResponse
		if err := json.Unmarshal(data, &failure); err != nil {
			return nil, &APIError{Endpoint: endpoint, Status: resp.StatusCode}
		}
		return nil, &APIError{
			Endpoint: endpoint,
			Status:   resp.StatusCode,
			Messages: serverMessages(failure.Error, failure.Errors),
		}
	}
	if resp.StatusCode >= 400 {
		return nil, &APIError{Endpoint: endpoint, Status: resp.StatusCode}
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty package body")
	}
	return data, nil
}

// Convert uploads a vector drawing and returns the generated G-code.
// fileType is the server's discriminator, "svg" or "dxf".
func (c *Client) Convert(filename string, content []byte, fileType string) (models.ConvertResponse, error) {
	const endpoint = "/api/convert-to-gcode"
	var out models.ConvertResponse

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return out, fmt.Errorf("build upload: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return out, fmt.Errorf("build upload: %w", err)
	}
	if err := writer.WriteField("file_type", fileType); err != nil {
		return out, fmt.Errorf("build upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return out, fmt.Errorf("build upload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+endpoint, &buf)
	if err != nil {
		return out, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return out, fmt.Errorf("reach server: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return out, fmt.Errorf("read response: %w", err)
	}

	if err := json.Unmarshal(data, &out); err != nil {
		if resp.StatusCode >= 400 {
			return out, &APIError{Endpoint: endpoint, Status: resp.StatusCode}
		}
		return out, fmt.Errorf("decode response: %w", err)
	}
	if !out.Success {
		return out, &APIError{
			Endpoint: endpoint,
			Status:   resp.StatusCode,
			Messages: serverMessages(out.Error, nil),
		}
	}
	return out, nil
}

// Validate runs the server-side lint. A verdict of valid=false is a
// successful call; findings live in the response, not the error.
func (c *Client) Validate(gcodeText string) (models.ValidateResponse, error) {
	var out models.ValidateResponse
	payload := map[string]string{"gcode": gcodeText}
	if err := c.postJSON("/api/gcode/validate", payload, &out); err != nil {
		return out, err
	}
	return out, nil
}

// Format asks the server to reflow gcode and returns the new text.
func (c *Client) Format(gcodeText string) (string, error) {
	const endpoint = "/api/gcode/format"
	var out models.FormatResponse

	payload := map[string]string{"gcode": gcodeText}
	if err := c.postJSON(endpoint, payload, &out); err != nil {
		return "", err
	}
	if out.Error != "" {
		return "", &APIError{Endpoint: endpoint, Messages: serverMessages(out.Error, nil)}
	}
	return out.Formatted, nil
}

// Status probes backend reachability. Any failure means disconnected.
func (c *Client) Status() (bool, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/api/status", nil)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("reach server: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode != http.StatusOK {
		return false, &APIError{Endpoint: "/api/status", Status: resp.StatusCode}
	}
	return true, nil
}
