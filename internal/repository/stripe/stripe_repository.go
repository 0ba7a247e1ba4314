package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hossain-shifat/TaskNest-sub000/domain"
)

type StripeConfig struct {
	SecretKey  string
	BaseUrl    string
	SuccessUrl string
	CancelUrl  string
}

type StripeRepository struct {
	stripeConfig StripeConfig
	client       *http.Client
}

func NewStripeRepository(cfg StripeConfig) *StripeRepository {
	return &StripeRepository{
		stripeConfig: cfg,
		client:       &http.Client{Timeout: 10 * time.Second},
	}
}

// CreateCheckoutSession opens a Stripe checkout session for a coin package
// and returns the session id plus the hosted checkout URL.
func (r *StripeRepository) CreateCheckoutSession(ctx context.Context, buyerEmail, clientRef string, pkg domain.CoinPackage) (domain.StripeSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("client_reference_id", clientRef)
	form.Set("customer_email", buyerEmail)
	form.Set("success_url", r.stripeConfig.SuccessUrl+"?session_id={CHECKOUT_SESSION_ID}")
	form.Set("cancel_url", r.stripeConfig.CancelUrl)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", "usd")
	form.Set("line_items[0][price_data][unit_amount]", strconv.Itoa(int(pkg.Dollars*100)))
	form.Set("line_items[0][price_data][product_data][name]", fmt.Sprintf("%d TaskNest coins", pkg.Coin))

	endpoint := r.stripeConfig.BaseUrl + "/v1/checkout/sessions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return domain.StripeSession{}, err
	}
	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(r.stripeConfig.SecretKey, "")

	return r.do(req)
}

// GetCheckoutSession retrieves a session so finalization can verify the
// provider actually collected the payment.
func (r *StripeRepository) GetCheckoutSession(ctx context.Context, sessionID string) (domain.StripeSession, error) {
	endpoint := r.stripeConfig.BaseUrl + "/v1/checkout/sessions/" + url.PathEscape(sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.StripeSession{}, err
	}
	req.SetBasicAuth(r.stripeConfig.SecretKey, "")

	return r.do(req)
}

func (r *StripeRepository) do(req *http.Request) (domain.StripeSession, error) {
	res, err := r.client.Do(req)
	if err != nil {
		return domain.StripeSession{}, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return domain.StripeSession{}, err
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var stripeErr domain.StripeError
		if err := json.Unmarshal(body, &stripeErr); err == nil && stripeErr.Error.Message != "" {
			return domain.StripeSession{}, fmt.Errorf("stripe returned %d: %s", res.StatusCode, stripeErr.Error.Message)
		}
		return domain.StripeSession{}, fmt.Errorf("stripe returned %d", res.StatusCode)
	}

	var session domain.StripeSession
	if err := json.Unmarshal(body, &session); err != nil {
		return domain.StripeSession{}, err
	}

	return session, nil
}
