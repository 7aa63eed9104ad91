// Package api is the HTTP client the CLI uses to talk to the registry
// server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/dmitrijs2005/odsregistry/internal/common"
)

type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type CompanyRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Address string `json:"address"`
	CNPJ    string `json:"cnpj"`
	Area    string `json:"area"`
	Email   string `json:"email,omitempty"`
	ODS     string `json:"ods"`
}

type Company struct {
	ID            int64   `json:"id"`
	CNPJ          string  `json:"cnpj"`
	Name          string  `json:"name"`
	Contact       string  `json:"contact"`
	Address       string  `json:"adress"`
	CompanySector string  `json:"company_sector"`
	IsPartner     int     `json:"is_partner"`
	ODSName       *string `json:"ods_name"`
	UserEmail     *string `json:"user_email"`
}

type Category struct {
	ID                int64  `json:"stg_id"`
	Name              string `json:"name"`
	CompaniesQuantity int64  `json:"companies_quantity"`
}

type Status struct {
	Valid bool   `json:"valid"`
	Email string `json:"email,omitempty"`
}

// Client calls the REST API. A bearer token, once set, is sent on every
// request; session cookies are kept in a per-client jar.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout, Jar: jar},
	}
}

func (c *Client) SetToken(token string) { c.token = token }
func (c *Client) Token() string         { return c.token }

type messageResponse struct {
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var m messageResponse
		_ = json.Unmarshal(data, &m)
		return &Error{Status: resp.StatusCode, Message: m.Message}
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) Register(ctx context.Context, email, password string) (*User, error) {
	var resp struct {
		Result User `json:"result"`
	}
	if err := c.do(ctx, http.MethodPost, "/register", credentials{email, password}, &resp); err != nil {
		return nil, err
	}
	return &resp.Result, nil
}

// Login authenticates and stores the bearer token when the server hands
// one out. Under the session strategy the token stays empty and the
// cookie jar carries the session.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/login", credentials{email, password}, &resp); err != nil {
		return "", err
	}
	c.token = resp.Token
	return resp.Token, nil
}

func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/logout", nil, nil)
	c.token = ""
	return err
}

func (c *Client) RegisterCompany(ctx context.Context, req CompanyRequest) error {
	return c.do(ctx, http.MethodPost, "/register-company", req, nil)
}

func (c *Client) ListCompanies(ctx context.Context) ([]Company, error) {
	var out []Company
	if err := c.do(ctx, http.MethodGet, "/list-companies", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListODS(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := c.do(ctx, http.MethodGet, "/list-ods", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) WhoAmI(ctx context.Context) (*Status, error) {
	var out Status
	if err := c.do(ctx, http.MethodGet, "/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
