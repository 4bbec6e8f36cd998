/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	pkgerrors "github.com/pkg/errors"
	"github.com/sony/gobreaker"

	"github.com/hollyandmorty/advisor-console/internal/profile/model"
	"github.com/hollyandmorty/advisor-console/internal/system/authn"
	"github.com/hollyandmorty/advisor-console/internal/system/config"
	"github.com/hollyandmorty/advisor-console/internal/system/constants"
	hmcontext "github.com/hollyandmorty/advisor-console/internal/system/context"
	errors2 "github.com/hollyandmorty/advisor-console/internal/system/errors"
	"github.com/hollyandmorty/advisor-console/internal/system/log"
	"github.com/hollyandmorty/advisor-console/internal/system/metrics"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

type operation struct {
	name string
	err  errors2.ErrorMessage
}

var (
	opGetProfile       = operation{"get_profile", errors2.FETCH_PROFILE_FAILED}
	opListProfiles     = operation{"list_profiles", errors2.LIST_PROFILES_FAILED}
	opCreateProfile    = operation{"create_profile", errors2.CREATE_PROFILE_FAILED}
	opUpdateProfile    = operation{"update_profile", errors2.UPDATE_PROFILE_FAILED}
	opSearchName       = operation{"search_by_name", errors2.SEARCH_PROFILES_FAILED}
	opSearchStatus     = operation{"search_by_status", errors2.SEARCH_PROFILES_FAILED}
	opSearchEmployment = operation{"search_by_employment", errors2.SEARCH_PROFILES_FAILED}
	opSearchRisk       = operation{"search_by_risk", errors2.SEARCH_PROFILES_FAILED}
	opSearchNetWorth   = operation{"search_by_net_worth", errors2.SEARCH_PROFILES_FAILED}
	opSearchIncome     = operation{"search_by_income", errors2.SEARCH_PROFILES_FAILED}
	opInitiateCall     = operation{"initiate_call", errors2.CALL_FAILED}
	opConversations    = operation{"get_conversations", errors2.FETCH_CONVERSATIONS_FAILED}
	opPing             = operation{"ping", errors2.SERVICE_UNREACHABLE}
)

// ProfileAPIClient talks to the remote profile API. It is safe for concurrent use.
type ProfileAPIClient struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	breaker     *gobreaker.CircuitBreaker
	metrics     *metrics.Metrics
	now         func() time.Time
}

type Option func(*ProfileAPIClient)

// WithHTTPClient replaces the TLS-configured HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *ProfileAPIClient) {
		c.httpClient = hc
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *ProfileAPIClient) {
		c.metrics = m
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *ProfileAPIClient) {
		c.now = now
	}
}

// NewProfileAPIClient creates a client for the API described by cfg.
func NewProfileAPIClient(cfg config.APIConfig, opts ...Option) (*ProfileAPIClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("profile API base URL is not configured")
	}
	c := &ProfileAPIClient{
		baseURL:     cfg.BaseURL,
		accessToken: cfg.AccessToken,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = constants.DefaultAPITimeout
		}
		hc, err := newOutboundHTTPClient(cfg.TLS, cfg.BaseURL, timeout)
		if err != nil {
			return nil, err
		}
		c.httpClient = hc
	}

	if !cfg.CircuitBreaker.Disabled {
		c.breaker = newBreaker(cfg.CircuitBreaker, c.metrics)
	}

	log.GetLogger().Info("Created profile API client", log.String("base_url", cfg.BaseURL),
		log.Bool("circuit_breaker", c.breaker != nil))
	return c, nil
}

func newBreaker(cfg config.CircuitBreakerConfig, m *metrics.Metrics) *gobreaker.CircuitBreaker {
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = constants.DefaultBreakerFailures
	}
	openInterval := cfg.OpenInterval
	if openInterval == 0 {
		openInterval = constants.DefaultBreakerOpenInterval
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "profile-api",
		MaxRequests: 1,
		Timeout:     openInterval,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			var clientError *errors2.ClientError
			return err == nil || errors.As(err, &clientError) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.GetLogger().Warn("Circuit breaker state change", log.String("name", name),
				log.String("from", from.String()), log.String("to", to.String()))
			m.SetBreakerState(name, float64(to))
		},
	})
}

// GetProfile fetches a profile by user id. A missing profile yields nil without error.
func (c *ProfileAPIClient) GetProfile(ctx context.Context, userId string) (*model.Profile, error) {
	data, err := c.do(ctx, opGetProfile, http.MethodGet, constants.ProfilesPath+url.PathEscape(userId), nil, nil)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	profile, err := model.ParseProfile(data)
	if err != nil {
		return nil, errors2.NewServerError(opGetProfile.err, err)
	}
	return profile, nil
}

func (c *ProfileAPIClient) ListProfiles(ctx context.Context, limit, offset int) (model.ProfileList, error) {
	query := url.Values{}
	query.Set(constants.LimitParam, strconv.Itoa(limit))
	query.Set(constants.OffsetParam, strconv.Itoa(offset))
	return c.search(ctx, opListProfiles, constants.ProfilesPath, query)
}

// CreateProfileRequest is the registration payload for a new client.
type CreateProfileRequest struct {
	UserId    string              `json:"user_id"`
	Id        string              `json:"id"`
	FirstName string              `json:"first_name"`
	LastName  string              `json:"last_name"`
	Status    model.ProfileStatus `json:"status"`
}

// CreateProfile registers a new profile in status "new". The user id doubles as the profile id.
func (c *ProfileAPIClient) CreateProfile(ctx context.Context, userId, firstName, lastName string) (*model.Profile, error) {
	req := CreateProfileRequest{
		UserId:    userId,
		Id:        userId,
		FirstName: firstName,
		LastName:  lastName,
		Status:    model.StatusNew,
	}
	data, err := c.do(ctx, opCreateProfile, http.MethodPost, constants.ProfilesPath, nil, req)
	if err != nil {
		return nil, err
	}
	return parseRequiredProfile(opCreateProfile, data)
}

// UpdateProfile replaces the stored profile and returns the server's authoritative copy.
func (c *ProfileAPIClient) UpdateProfile(ctx context.Context, userId string, profile *model.Profile) (*model.Profile, error) {
	data, err := c.do(ctx, opUpdateProfile, http.MethodPut, constants.ProfilesPath+url.PathEscape(userId), nil, profile)
	if err != nil {
		return nil, err
	}
	return parseRequiredProfile(opUpdateProfile, data)
}

func (c *ProfileAPIClient) SearchByName(ctx context.Context, name string) (model.ProfileList, error) {
	return c.search(ctx, opSearchName, constants.SearchByNamePath, url.Values{constants.NameParam: {name}})
}

func (c *ProfileAPIClient) SearchByStatus(ctx context.Context, status model.ProfileStatus) (model.ProfileList, error) {
	return c.search(ctx, opSearchStatus, constants.SearchByStatusPath, url.Values{constants.StatusParam: {string(status)}})
}

func (c *ProfileAPIClient) SearchByEmployment(ctx context.Context, status model.EmploymentStatus) (model.ProfileList, error) {
	return c.search(ctx, opSearchEmployment, constants.SearchByEmploymentPath,
		url.Values{constants.EmploymentStatusParam: {string(status)}})
}

func (c *ProfileAPIClient) SearchByRisk(ctx context.Context, risk model.RiskAttitude) (model.ProfileList, error) {
	return c.search(ctx, opSearchRisk, constants.SearchByRiskPath, url.Values{constants.RiskAttitudeParam: {string(risk)}})
}

func (c *ProfileAPIClient) SearchByNetWorth(ctx context.Context, min, max float64) (model.ProfileList, error) {
	return c.search(ctx, opSearchNetWorth, constants.SearchByNetWorthPath, url.Values{
		constants.MinNetWorthParam: {formatAmount(min)},
		constants.MaxNetWorthParam: {formatAmount(max)},
	})
}

func (c *ProfileAPIClient) SearchByIncome(ctx context.Context, min, max float64) (model.ProfileList, error) {
	return c.search(ctx, opSearchIncome, constants.SearchByIncomePath, url.Values{
		constants.MinIncomeParam: {formatAmount(min)},
		constants.MaxIncomeParam: {formatAmount(max)},
	})
}

type outboundCallRequest struct {
	ToNumber string `json:"to_number"`
}

// InitiateCall asks the voice agent to phone the user.
func (c *ProfileAPIClient) InitiateCall(ctx context.Context, userId string) error {
	_, err := c.do(ctx, opInitiateCall, http.MethodPost, constants.OutboundCallPath, nil, outboundCallRequest{ToNumber: userId})
	return err
}

func (c *ProfileAPIClient) GetConversations(ctx context.Context, userId string) (model.ConversationList, error) {
	data, err := c.do(ctx, opConversations, http.MethodGet, constants.ConversationsPath+url.PathEscape(userId), nil, nil)
	if err != nil {
		return model.ConversationList{}, err
	}
	return model.ParseConversationList(data), nil
}

// Ping checks that the profile API is reachable.
func (c *ProfileAPIClient) Ping(ctx context.Context) error {
	_, err := c.do(ctx, opPing, http.MethodGet, constants.HealthPath, nil, nil)
	return err
}

func (c *ProfileAPIClient) search(ctx context.Context, op operation, path string, query url.Values) (model.ProfileList, error) {
	data, err := c.do(ctx, op, http.MethodGet, path, query, nil)
	if err != nil {
		return model.ProfileList{}, err
	}
	return model.ParseProfileList(data), nil
}

func (c *ProfileAPIClient) do(ctx context.Context, op operation, method, path string, query url.Values,
	payload interface{}) ([]byte, error) {

	ctx, traceID := hmcontext.EnsureTraceID(ctx)
	logger := log.GetLogger().With(log.String("operation", op.name), log.String("trace_id", traceID))

	if c.accessToken != "" {
		if err := authn.CheckAccessToken(c.accessToken, c.now()); err != nil {
			logger.Warn("Refusing to call profile API with an unusable access token", log.Error(err))
			return nil, err
		}
	}

	var body []byte
	if payload != nil {
		encoded, err := jsonAPI.Marshal(payload)
		if err != nil {
			return nil, errors2.NewServerErrorWithTraceID(errors2.ENCODE_PROFILE_FAILED, err, traceID)
		}
		body = encoded
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	start := time.Now()
	data, err := c.execute(func() ([]byte, error) {
		return c.send(ctx, op, method, endpoint, body, traceID)
	})
	c.metrics.ObserveAPIRequest(op.name, outcome(err), time.Since(start))

	if err != nil {
		if gobreakerRejected(err) {
			logger.Warn("Profile API circuit is open; failing fast")
			return nil, errors2.NewServerErrorWithTraceID(
				errors2.WithDescription(errors2.CIRCUIT_OPEN, op.err.Message),
				pkgerrors.Wrap(errors2.ErrCannotConnect, err.Error()), traceID)
		}
		logger.Debug("Profile API request failed", log.String("method", method), log.String("path", path), log.Error(err))
		return nil, err
	}
	logger.Debug("Profile API request succeeded", log.String("method", method), log.String("path", path))
	return data, nil
}

func (c *ProfileAPIClient) execute(fn func() ([]byte, error)) ([]byte, error) {
	if c.breaker == nil {
		return fn()
	}
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return nil, err
	}
	data, _ := result.([]byte)
	return data, nil
}

func (c *ProfileAPIClient) send(ctx context.Context, op operation, method, endpoint string, body []byte,
	traceID string) ([]byte, error) {

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, errors2.NewServerErrorWithTraceID(op.err, err, traceID)
	}
	req.Header.Set(constants.RequestIDHeader, traceID)
	req.Header.Set("Accept", constants.ContentTypeJSON)
	if body != nil {
		req.Header.Set(constants.ContentTypeHeader, constants.ContentTypeJSON)
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, errors2.NewServerErrorWithTraceID(
			errors2.WithDescription(op.err, errors2.SERVICE_UNREACHABLE.Description),
			pkgerrors.Wrapf(errors2.ErrCannotConnect, "%s %s: %v", method, req.URL.Path, err), traceID)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors2.NewServerErrorWithTraceID(op.err,
			pkgerrors.Wrapf(errors2.ErrCannotConnect, "reading %s response: %v", req.URL.Path, err), traceID)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return data, nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		msg := op.err
		if detail := jsoniter.Get(data, "detail").ToString(); detail != "" {
			msg = errors2.WithDescription(msg, detail)
		}
		return nil, errors2.NewClientErrorWithTraceID(msg, resp.StatusCode, traceID)
	default:
		return nil, errors2.NewServerErrorWithTraceID(op.err,
			fmt.Errorf("profile API returned status %d", resp.StatusCode), traceID)
	}
}

// IsNotFound reports whether err is a 404 from the profile API.
func IsNotFound(err error) bool {
	var clientError *errors2.ClientError
	return errors.As(err, &clientError) && clientError.StatusCode == http.StatusNotFound
}

// IsUnreachable reports whether err stems from a failure to reach the profile API.
func IsUnreachable(err error) bool {
	return errors.Is(err, errors2.ErrCannotConnect)
}

func parseRequiredProfile(op operation, data []byte) (*model.Profile, error) {
	profile, err := model.ParseProfile(data)
	if err != nil {
		return nil, errors2.NewServerError(op.err, err)
	}
	if profile == nil {
		return nil, errors2.NewServerError(op.err, fmt.Errorf("profile API returned an empty body"))
	}
	return profile, nil
}

func gobreakerRejected(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

func outcome(err error) string {
	var clientError *errors2.ClientError
	switch {
	case err == nil:
		return "ok"
	case gobreakerRejected(err):
		return "circuit_open"
	case errors.As(err, &clientError):
		return "client_error"
	case errors.Is(err, errors2.ErrCannotConnect):
		return "unreachable"
	default:
		return "server_error"
	}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
