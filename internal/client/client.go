// Package client reads the property collection from a running Milhouse API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"milhouse/internal/app/dto"
	domainproperties "milhouse/internal/domain/properties"
)

const (
	propertiesPath = "/api/properties"
	defaultTimeout = 10 * time.Second
)

var (
	ErrBaseURLRequired = errors.New("client: base url is required")
	ErrUnexpectedShape = errors.New("client: response is neither a list nor a wrapped list")
)

// wrapperKeys are the envelope fields older deployments used around the list.
var wrapperKeys = []string{"items", "results", "properties"}

type Client struct {
	http   *resty.Client
	logger *slog.Logger
}

type Options struct {
	BaseURL string
	Timeout time.Duration
	Logger  *slog.Logger
}

func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, ErrBaseURLRequired
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	rc := resty.New().
		SetBaseURL(base).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond)
	return &Client{http: rc, logger: opts.Logger}, nil
}

// FetchProperties downloads the whole collection once.
func (c *Client) FetchProperties(ctx context.Context) ([]domainproperties.Property, error) {
	resp, err := c.http.R().SetContext(ctx).Get(propertiesPath)
	if err != nil {
		return nil, fmt.Errorf("client: get properties: %w", err)
	}
	if resp.IsError() {
		snippet := strings.TrimSpace(string(resp.Body()))
		if len(snippet) > 256 {
			snippet = snippet[:256]
		}
		return nil, fmt.Errorf("client: get properties: status %d: %s", resp.StatusCode(), snippet)
	}
	return DecodeProperties(resp.Body(), c.logger)
}

// DecodeProperties turns a list body into properties. Documents that cannot be
// decoded are skipped; documents without a usable id are kept with an empty ID
// and dropped later by the query engine.
func DecodeProperties(body []byte, logger *slog.Logger) ([]domainproperties.Property, error) {
	docs, err := DecodeCollection(body)
	if err != nil {
		return nil, err
	}
	out := make([]domainproperties.Property, 0, len(docs))
	for i, doc := range docs {
		p, err := propertyFromDocument(doc)
		if err != nil {
			if logger != nil {
				logger.Warn("property document skipped", "index", i, "error", err)
			}
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// DecodeCollection accepts a bare JSON array or an object wrapping the array
// under one of the known envelope keys.
func DecodeCollection(body []byte) ([]json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, ErrUnexpectedShape
	}
	switch body[0] {
	case '[':
		var docs []json.RawMessage
		if err := json.Unmarshal(body, &docs); err != nil {
			return nil, fmt.Errorf("client: decode list: %w", err)
		}
		return docs, nil
	case '{':
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, fmt.Errorf("client: decode envelope: %w", err)
		}
		for _, key := range wrapperKeys {
			raw, ok := envelope[key]
			if !ok || len(bytes.TrimSpace(raw)) == 0 || bytes.TrimSpace(raw)[0] != '[' {
				continue
			}
			var docs []json.RawMessage
			if err := json.Unmarshal(raw, &docs); err != nil {
				return nil, fmt.Errorf("client: decode %s: %w", key, err)
			}
			return docs, nil
		}
	}
	return nil, ErrUnexpectedShape
}

func propertyFromDocument(raw json.RawMessage) (domainproperties.Property, error) {
	var input dto.PropertyInput
	if err := json.Unmarshal(raw, &input); err != nil {
		return domainproperties.Property{}, err
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domainproperties.Property{}, err
	}
	p := input.ToDomain()
	p.Normalize()
	p.ID = domainproperties.IdentifierFromDocument(doc).PropertyID()
	return p, nil
}
