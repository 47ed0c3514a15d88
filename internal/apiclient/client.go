package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"safari/internal/auth"
	"safari/internal/domain/models"

	"github.com/google/uuid"
)

// APIError is a non-success envelope or an unexpected HTTP status.
type APIError struct {
	Status    int
	Code      string
	Message   string
	Field     string
	RequestID string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.RequestID != "" {
		return fmt.Sprintf("api %d %s: %s (request_id=%s)", e.Status, e.Code, msg, e.RequestID)
	}
	return fmt.Sprintf("api %d %s: %s", e.Status, e.Code, msg)
}

type apiResponse struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	Code      string          `json:"code"`
	Field     string          `json:"field"`
	RequestID string          `json:"request_id"`
}

// Client talks to the booking API. HTTP has no timeout of its own; callers
// bound requests with their context.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Tokens  auth.TokenStore
}

func New(baseURL string, tokens auth.TokenStore) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{},
		Tokens:  tokens,
	}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) authorize(req *http.Request) error {
	if c.Tokens == nil {
		return auth.ErrNoToken
	}
	tok, err := c.Tokens.Load()
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	return nil
}

// do sends req and decodes the envelope's data into out (when non-nil).
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var ar apiResponse
	if err := json.Unmarshal(body, &ar); err != nil {
		return &APIError{Status: resp.StatusCode, Code: "bad_response", Message: "response is not a JSON envelope"}
	}
	if resp.StatusCode >= 300 || !ar.Success {
		return &APIError{
			Status:    resp.StatusCode,
			Code:      ar.Code,
			Message:   ar.Error,
			Field:     ar.Field,
			RequestID: ar.RequestID,
		}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(ar.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

func (c *Client) call(ctx context.Context, method, path string, body, out any, authed bool) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if authed {
		if err := c.authorize(req); err != nil {
			return err
		}
	}
	return c.do(req, out)
}

// PackageDeals posts {package_id} the way the booking site does.
func (c *Client) PackageDeals(ctx context.Context, packageID int64) ([]models.Deal, error) {
	var deals []models.Deal
	err := c.call(ctx, http.MethodPost, "/api/public/package-deals", map[string]int64{"package_id": packageID}, &deals, false)
	return deals, err
}

func (c *Client) Addons(ctx context.Context) ([]models.Addon, error) {
	var addons []models.Addon
	err := c.call(ctx, http.MethodGet, "/api/public/addons", nil, &addons, false)
	return addons, err
}

func (c *Client) Packages(ctx context.Context) ([]models.Package, error) {
	var pkgs []models.Package
	err := c.call(ctx, http.MethodGet, "/api/public/packages", nil, &pkgs, false)
	return pkgs, err
}

func (c *Client) Package(ctx context.Context, slug string) (models.Package, error) {
	var p models.Package
	err := c.call(ctx, http.MethodGet, "/api/public/packages/"+url.PathEscape(slug), nil, &p, false)
	return p, err
}

// CreateBooking sends one booking with a fresh Idempotency-Key.
func (c *Client) CreateBooking(ctx context.Context, in models.CreateBookingRequest) (models.CreateBookingResult, error) {
	var res models.CreateBookingResult
	req, err := c.newRequest(ctx, http.MethodPost, "/api/public/bookings", in)
	if err != nil {
		return res, err
	}
	req.Header.Set("Idempotency-Key", uuid.NewString())
	err = c.do(req, &res)
	return res, err
}

func (c *Client) GetBooking(ctx context.Context, id int64) (models.BookingRecord, error) {
	var rec models.BookingRecord
	err := c.call(ctx, http.MethodGet, "/api/public/bookings/"+strconv.FormatInt(id, 10), nil, &rec, false)
	return rec, err
}

// Voucher downloads the booking voucher PDF and its suggested file name.
func (c *Client) Voucher(ctx context.Context, id int64) ([]byte, string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/public/bookings/"+strconv.FormatInt(id, 10)+"/voucher", nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Accept", "application/pdf")
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{Status: resp.StatusCode}
		var ar apiResponse
		if json.Unmarshal(body, &ar) == nil {
			apiErr.Code, apiErr.Message, apiErr.RequestID = ar.Code, ar.Error, ar.RequestID
		}
		return nil, "", apiErr
	}
	return body, filenameFrom(resp.Header.Get("Content-Disposition"), id), nil
}

func filenameFrom(disposition string, id int64) string {
	const key = "filename="
	if i := strings.Index(disposition, key); i >= 0 {
		name := strings.Trim(disposition[i+len(key):], `"; `)
		if name != "" {
			return name
		}
	}
	return fmt.Sprintf("voucher_%d.pdf", id)
}

// AdminLogin stores the issued token for later admin calls.
func (c *Client) AdminLogin(ctx context.Context, email, password string) (models.Admin, error) {
	var out struct {
		Token string       `json:"token"`
		Admin models.Admin `json:"admin"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.call(ctx, http.MethodPost, "/api/admin/auth/login", body, &out, false); err != nil {
		return models.Admin{}, err
	}
	if out.Token == "" {
		return models.Admin{}, errors.New("login response has no token")
	}
	if c.Tokens == nil {
		return models.Admin{}, errors.New("no token store configured")
	}
	if err := c.Tokens.Save(out.Token); err != nil {
		return models.Admin{}, fmt.Errorf("save token: %w", err)
	}
	return out.Admin, nil
}

func (c *Client) AdminLogout() error {
	if c.Tokens == nil {
		return nil
	}
	return c.Tokens.Clear()
}

func (c *Client) AdminBookings(ctx context.Context, status string, page, pageSize int) (models.BookingPage, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("page_size", strconv.Itoa(pageSize))
	}
	path := "/api/admin/bookings"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out models.BookingPage
	err := c.call(ctx, http.MethodGet, path, nil, &out, true)
	return out, err
}

func (c *Client) AdminUpdateStatus(ctx context.Context, id int64, status string) (models.BookingRecord, error) {
	var rec models.BookingRecord
	path := "/api/admin/bookings/" + strconv.FormatInt(id, 10) + "/status"
	err := c.call(ctx, http.MethodPut, path, map[string]string{"status": status}, &rec, true)
	return rec, err
}

// VoucherCheck is the result of verifying a scanned voucher.
type VoucherCheck struct {
	Valid   bool                 `json:"valid"`
	Booking models.BookingRecord `json:"booking"`
}

func (c *Client) AdminVerifyVoucher(ctx context.Context, code string) (VoucherCheck, error) {
	var out VoucherCheck
	err := c.call(ctx, http.MethodPost, "/api/admin/vouchers/verify", map[string]string{"code": code}, &out, true)
	return out, err
}
