// Package client talks to the dispatch HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"wastewise-backend/internal/logger"
	"wastewise-backend/internal/models"
)

// APIError is returned by mutating calls the server rejected.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client is a thin JSON client for the dispatch API. List calls never
// fail: on any error they log a warning and return an empty collection.
type Client struct {
	baseURL string
	http    *http.Client
	log     logger.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     logger.New("api-client"),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) Bins(ctx context.Context) []models.Bin {
	return list(ctx, c, "/api/bins", []models.Bin{})
}

func (c *Client) Drivers(ctx context.Context) []models.Driver {
	return list(ctx, c, "/api/drivers", []models.Driver{})
}

func (c *Client) Stations(ctx context.Context) models.StationsByType {
	return list(ctx, c, "/api/stations", models.StationsByType{})
}

// Trips returns trips most recent first.
func (c *Client) Trips(ctx context.Context) []models.Trip {
	return list(ctx, c, "/api/trips", []models.Trip{})
}

// Candidates asks the server to rank drivers and stations for a bin.
func (c *Client) Candidates(ctx context.Context, binID string) (models.CandidatesResponse, error) {
	var res models.CandidatesResponse
	err := c.do(ctx, http.MethodGet, "/api/bins/"+url.PathEscape(binID)+"/candidates", nil, &res)
	return res, err
}

func (c *Client) Dispatch(ctx context.Context, binID, driverID, stationID string) (models.Trip, error) {
	var trip models.Trip
	err := c.do(ctx, http.MethodPost, "/api/dispatch", models.DispatchRequest{
		BinID:     binID,
		DriverID:  driverID,
		StationID: stationID,
	}, &trip)
	return trip, err
}

func (c *Client) UpdateTripStatus(ctx context.Context, tripID, status string) (models.Trip, error) {
	var trip models.Trip
	err := c.do(ctx, http.MethodPatch, "/api/trips/"+url.PathEscape(tripID), models.UpdateTripRequest{Status: status}, &trip)
	return trip, err
}

// list GETs a collection. Any failure, including a body that only partly
// decodes, yields empty.
func list[T any](ctx context.Context, c *Client, path string, empty T) T {
	var out T
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		c.log.Warnf("GET %s failed, using empty result: %v", path, err)
		return empty
	}
	return out
}

func (c *Client) do(ctx context.Context, method, path string, body, dst interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			msg = apiErr.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if dst == nil {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
