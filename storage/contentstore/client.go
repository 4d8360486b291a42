// Copyright 2026 The swarm-genesis Authors
// This file is part of the swarm-genesis library.
//
// The swarm-genesis library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The swarm-genesis library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the swarm-genesis library. If not, see <http://www.gnu.org/licenses/>.

// Package contentstore talks to the content-addressed blob store over its
// HTTP API. Blobs are opaque JSON documents addressed by content identifier.
package contentstore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/pkg/errors"
	"github.com/valyala/fasthttp"

	"github.com/SudoSuOps/swarm-genesis/common"
	"github.com/SudoSuOps/swarm-genesis/log"
)

var logger = log.NewModuleLogger(log.StorageContentStore)

const (
	defaultTimeout   = 10 * time.Second
	defaultCacheSize = 32 * 1024 * 1024
)

var (
	ErrNotFound   = errors.New("contentstore: blob not found")
	ErrBadGateway = errors.New("contentstore: gateway error")
)

// Client is a thin fasthttp wrapper with a read-through byte cache for
// fetches. Content identifiers are immutable, so cached blobs never expire.
type Client struct {
	api     string
	http    *fasthttp.Client
	cache   *fastcache.Cache
	timeout time.Duration
}

func NewClient(api string) *Client {
	logger.Info("Content store client ready", "api", api)
	return &Client{
		api:     api,
		http:    &fasthttp.Client{Name: "swarmpool"},
		cache:   fastcache.New(defaultCacheSize),
		timeout: defaultTimeout,
	}
}

// FetchJSON retrieves and decodes the blob at cid. A missing or non-JSON
// blob yields an error; the caller drops the message.
func (c *Client) FetchJSON(cid string) (map[string]interface{}, error) {
	var raw []byte
	if cached := c.cache.GetBig(nil, []byte(cid)); len(cached) > 0 {
		raw = cached
	} else {
		body, status, err := c.do("POST", fmt.Sprintf("%s/api/v0/cat?arg=%s", c.api, cid), nil)
		if err != nil {
			return nil, errors.Wrap(err, "cat")
		}
		if status == fasthttp.StatusNotFound {
			return nil, ErrNotFound
		}
		if status != fasthttp.StatusOK {
			return nil, errors.Wrapf(ErrBadGateway, "status %d", status)
		}
		raw = body
		c.cache.SetBig([]byte(cid), raw)
	}

	// numbers must survive verbatim for canonical re-serialization
	obj, err := common.DecodeJSON(raw)
	if err != nil {
		return nil, errors.Wrap(err, "decode blob")
	}
	return obj, nil
}

// UploadJSON stores obj and returns its content identifier.
func (c *Client) UploadJSON(obj interface{}) (string, error) {
	data, err := json.Marshal(obj)
	if err != nil {
		return "", errors.Wrap(err, "encode blob")
	}
	body, status, err := c.do("POST", c.api+"/api/v0/add", data)
	if err != nil {
		return "", errors.Wrap(err, "add")
	}
	if status != fasthttp.StatusOK {
		return "", errors.Wrapf(ErrBadGateway, "status %d", status)
	}
	var resp struct {
		Hash string `json:"Hash"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", errors.Wrap(err, "decode add response")
	}
	if resp.Hash == "" {
		return "", errors.New("contentstore: add returned no identifier")
	}
	c.cache.SetBig([]byte(resp.Hash), data)
	return resp.Hash, nil
}

// Pin asks the store to retain the blob at cid.
func (c *Client) Pin(cid string) error {
	_, status, err := c.do("POST", fmt.Sprintf("%s/api/v0/pin/add?arg=%s", c.api, cid), nil)
	if err != nil {
		return errors.Wrap(err, "pin")
	}
	if status != fasthttp.StatusOK {
		return errors.Wrapf(ErrBadGateway, "pin status %d", status)
	}
	return nil
}

func (c *Client) do(method, uri string, body []byte) ([]byte, int, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod(method)
	req.SetRequestURI(uri)
	if body != nil {
		req.Header.SetContentType("application/json")
		req.SetBody(body)
	}
	if err := c.http.DoTimeout(req, resp, c.timeout); err != nil {
		return nil, 0, err
	}
	out := make([]byte, len(resp.Body()))
	copy(out, resp.Body())
	return out, resp.StatusCode(), nil
}
