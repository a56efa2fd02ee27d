// Package client es el cliente HTTP tipado del daemon steam-fetchd.
// Lo usan la CLI y la TUI de watch; no depende de paquetes internos
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"
)

// DefaultBaseURL es la URL del daemon en una instalación local
const DefaultBaseURL = "http://localhost:7860"

// BaseURLFromEnv retorna la URL del daemon desde SF_DAEMON_URL, o el
// default local
func BaseURLFromEnv() string {
	if v := os.Getenv("SF_DAEMON_URL"); v != "" {
		return v
	}
	return DefaultBaseURL
}

// Client habla con la API del daemon
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient crea un cliente contra la URL dada
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Minute},
	}
}

// NewDefaultClient crea un cliente contra el daemon local (o el que
// indique SF_DAEMON_URL)
func NewDefaultClient() *Client {
	return NewClient(BaseURLFromEnv())
}

// APIError es una respuesta de error del daemon con su código HTTP
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Health es la respuesta de /api/health
type Health struct {
	Status    string `json:"status"`
	Installed bool   `json:"installed"`
}

// StartRequest es el pedido de descarga
type StartRequest struct {
	App       string `json:"app"`
	Username  string `json:"username,omitempty"`
	Password  string `json:"password,omitempty"`
	Anonymous bool   `json:"anonymous,omitempty"`
}

// Link es un enlace público de una descarga completada
type Link struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Report es el estado de la sesión de descarga tal como lo publica el
// daemon
type Report struct {
	App       string   `json:"app"`
	SessionID string   `json:"session_id"`
	Status    string   `json:"status"`
	Percent   float64  `json:"percent"`
	DoneMB    float64  `json:"done_mb"`
	TotalMB   float64  `json:"total_mb"`
	SpeedMBps float64  `json:"speed_mbps"`
	Elapsed   string   `json:"elapsed"`
	Remaining string   `json:"remaining"`
	Log       []string `json:"log"`
	Links     []Link   `json:"links"`
	Error     string   `json:"error"`
}

// Health consulta la salud del daemon
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// Install pide la instalación de SteamCMD y retorna el mensaje del daemon
func (c *Client) Install(ctx context.Context) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/install", nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Start pide una descarga y retorna el reporte inicial
func (c *Client) Start(ctx context.Context, req StartRequest) (*Report, error) {
	var r Report
	if err := c.do(ctx, http.MethodPost, "/api/download", req, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Cancel cancela la descarga activa
func (c *Client) Cancel(ctx context.Context) (*Report, error) {
	var r Report
	if err := c.do(ctx, http.MethodPost, "/api/download/cancel", nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Status trae el reporte de estado actual. tail limita las líneas de
// log (0 pide todas); con tail negativo decide el daemon
func (c *Client) Status(ctx context.Context, tail int) (*Report, error) {
	path := "/api/status"
	if tail >= 0 {
		path += "?log_tail=" + url.QueryEscape(strconv.Itoa(tail))
	}
	var r Report
	if err := c.do(ctx, http.MethodGet, path, nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("connect to daemon: %w (is steam-fetchd running?)", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Error == "" {
			return &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
