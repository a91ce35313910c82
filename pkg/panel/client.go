package panel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrymomot/purchasekit/pkg/apiclient"
)

// Panel API endpoints for the read-side screens.
const (
	pathPlanList         = "/v1/user/subscribe/list"
	pathPlanGroupList    = "/v1/user/subscribe/group/list"
	pathSubscriptionList = "/v1/user/subscription/list"
	pathAnnouncementList = "/v1/user/announcement/list"
	pathUserInfo         = "/v1/user/info"
)

// Client is the typed read-side panel API client used by the screens around
// the purchase dialog: the plan catalog, the user's active subscriptions, the
// announcement feed, and the account header. All calls are plain
// fetch-and-decode through the shared transport.
type Client struct {
	api *apiclient.Client
}

// New creates a panel client. Panics if api is nil to fail fast during
// initialization.
func New(api *apiclient.Client) *Client {
	if api == nil {
		panic("panel: apiclient is required")
	}
	return &Client{api: api}
}

// Plan is a purchasable subscription plan as listed in the catalog.
type Plan struct {
	ID          int64  `json:"id"`
	GroupID     int64  `json:"group_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	UnitPrice   int64  `json:"unit_price"`
	UnitTime    string `json:"unit_time"`
	Show        bool   `json:"show"`
}

// PlanGroup clusters plans into catalog sections.
type PlanGroup struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Subscription is one of the user's active subscriptions shown on the
// dashboard. Timestamps are unix milliseconds as served by the panel API.
type Subscription struct {
	ID        int64  `json:"id"`
	Plan      Plan   `json:"subscribe"`
	Traffic   int64  `json:"traffic"`
	Used      int64  `json:"used"`
	StartedAt int64  `json:"start_time"`
	ExpiredAt int64  `json:"expire_time"`
	Status    string `json:"status"`
}

// Announcement is a published site announcement.
type Announcement struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"created_at"`
}

// UserInfo is the authenticated account summary.
type UserInfo struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Balance   int64  `json:"balance"`
	CreatedAt int64  `json:"created_at"`
}

type listPayload[T any] struct {
	Total int64 `json:"total"`
	List  []T   `json:"list"`
}

func get[T any](ctx context.Context, api *apiclient.Client, path string, query url.Values) (T, error) {
	var out T
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	data, err := api.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: path})
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, err
	}
	return out, nil
}

// ListPlans returns the purchasable plan catalog.
func (c *Client) ListPlans(ctx context.Context) ([]Plan, error) {
	payload, err := get[listPayload[Plan]](ctx, c.api, pathPlanList, nil)
	if err != nil {
		return nil, err
	}
	return payload.List, nil
}

// ListPlanGroups returns the catalog sections.
func (c *Client) ListPlanGroups(ctx context.Context) ([]PlanGroup, error) {
	payload, err := get[listPayload[PlanGroup]](ctx, c.api, pathPlanGroupList, nil)
	if err != nil {
		return nil, err
	}
	return payload.List, nil
}

// ListSubscriptions returns the user's active subscriptions.
func (c *Client) ListSubscriptions(ctx context.Context) ([]Subscription, error) {
	payload, err := get[listPayload[Subscription]](ctx, c.api, pathSubscriptionList, nil)
	if err != nil {
		return nil, err
	}
	return payload.List, nil
}

// ListAnnouncements returns a page of site announcements, newest first.
func (c *Client) ListAnnouncements(ctx context.Context, page, size int) ([]Announcement, int64, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	payload, err := get[listPayload[Announcement]](ctx, c.api, pathAnnouncementList, url.Values{
		"page": {strconv.Itoa(page)},
		"size": {strconv.Itoa(size)},
	})
	if err != nil {
		return nil, 0, err
	}
	return payload.List, payload.Total, nil
}

// GetUserInfo returns the authenticated account summary.
func (c *Client) GetUserInfo(ctx context.Context) (*UserInfo, error) {
	info, err := get[UserInfo](ctx, c.api, pathUserInfo, nil)
	if err != nil {
		return nil, err
	}
	return &info, nil
}
