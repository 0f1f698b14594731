package gateway

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

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"travelagent/entity"
)

// RemoteError is returned for any response the client does not expect and
// cannot map to a sentinel error. It carries the HTTP status so callers can
// tell a rejected request from an unavailable service.
type RemoteError struct {
	Status int
	Op     string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("booking service returned status %d on %s", e.Status, e.Op)
}

// BookingServiceClient talks to one remote booking service (flight, taxi or
// hotel — they all expose the same API). Every call is a single attempt:
// no retries, timeout comes from the configured http.Client.
type BookingServiceClient struct {
	httpClient *http.Client
	baseURL    string
}

func NewBookingServiceClient(baseURL string, timeout time.Duration) BookingServiceClient {
	return BookingServiceClient{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (c BookingServiceClient) FindCustomerByEmail(ctx context.Context, email string) (entity.Customer, error) {
	var customer entity.Customer
	err := c.do(ctx, http.MethodGet, "/customers/email/"+url.PathEscape(email), nil, http.StatusOK, &customer)
	if err != nil {
		return entity.Customer{}, err
	}

	return customer, nil
}

func (c BookingServiceClient) CreateCustomer(ctx context.Context, customer entity.Customer) (entity.Customer, error) {
	var created entity.Customer
	err := c.do(ctx, http.MethodPost, "/customers", customer, http.StatusCreated, &created)
	if err != nil {
		return entity.Customer{}, err
	}

	return created, nil
}

func (c BookingServiceClient) CreateBooking(ctx context.Context, request entity.BookingRequest) (entity.Booking, error) {
	var booking entity.Booking
	err := c.do(ctx, http.MethodPost, "/bookings", request, http.StatusCreated, &booking)
	if err != nil {
		return entity.Booking{}, err
	}

	return booking, nil
}

func (c BookingServiceClient) GetBookingByID(ctx context.Context, bookingID string) (entity.Booking, error) {
	var booking entity.Booking
	err := c.do(ctx, http.MethodGet, "/bookings/"+bookingID, nil, http.StatusOK, &booking)
	if err != nil {
		return entity.Booking{}, err
	}

	return booking, nil
}

func (c BookingServiceClient) UpdateBooking(ctx context.Context, bookingID string, request entity.BookingRequest) (entity.Booking, error) {
	var booking entity.Booking
	err := c.do(ctx, http.MethodPut, "/bookings/"+bookingID, request, http.StatusOK, &booking)
	if err != nil {
		return entity.Booking{}, err
	}

	return booking, nil
}

func (c BookingServiceClient) DeleteBooking(ctx context.Context, bookingID string) error {
	return c.do(ctx, http.MethodDelete, "/bookings/"+bookingID, nil, http.StatusNoContent, nil)
}

func (c BookingServiceClient) do(ctx context.Context, method, path string, body any, expectedStatus int, out any) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("could not marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Correlation-ID", log.CorrelationIDFromContext(ctx))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("could not call booking service: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case expectedStatus:
	case http.StatusNotFound:
		return entity.ErrNotFound
	case http.StatusConflict:
		return entity.ErrConflict
	default:
		return &RemoteError{Status: resp.StatusCode, Op: method + " " + path}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("could not decode response: %w", err)
		}
	}

	return nil
}
