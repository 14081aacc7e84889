package adminapi

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"
)

func TestListSocialAccountsShapes(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    int
		wantIDs []string
	}{
		{name: "bare array", body: `[{"account_id":"a1","platform":"youtube","is_active":true,"is_token_valid":true}]`, want: 1},
		{name: "wrapped", body: `{"accounts":[{"account_id":"a1","platform":"x"},{"account_id":"a2","platform":"facebook"}]}`, want: 2},
		{name: "empty wrapper", body: `{}`, want: 0},
		{
			name:    "numeric and null ids",
			body:    `[{"account_id":17,"platform":"youtube"},{"account_id":"a2","platform":"tiktok"},{"account_id":null,"platform":"facebook"}]`,
			want:    3,
			wantIDs: []string{"17", "a2", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath string
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				_, _ = io.WriteString(w, tt.body)
			}, ClientOptions{})

			accounts, err := c.ListSocialAccounts(context.Background())
			if err != nil {
				t.Fatalf("ListSocialAccounts: %v", err)
			}
			if gotPath != "/social/accounts" {
				t.Errorf("path = %q", gotPath)
			}
			if accounts == nil {
				t.Fatal("accounts should never be nil")
			}
			if len(accounts) != tt.want {
				t.Fatalf("got %d accounts, want %d", len(accounts), tt.want)
			}
			for i, id := range tt.wantIDs {
				if string(accounts[i].AccountID) != id {
					t.Errorf("accounts[%d].AccountID = %q, want %q", i, accounts[i].AccountID, id)
				}
			}
		})
	}
}

func TestListUsers(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = io.WriteString(w, `{
			"data": [
				{"id": 7, "email": "ana@example.com", "full_name": "Ana", "role": "admin", "is_active": true,
				 "created_at": "2024-03-01T10:00:00Z", "last_login": "2024-03-05 08:30:00", "posts_count": 12},
				{"id": "u-2", "email": "bob@example.com", "full_name": "", "is_active": false,
				 "created_at": "2024-02-01T00:00:00Z"}
			],
			"pagination": {"page": 2, "limit": 2, "total": 5, "total_pages": 3}
		}`)
	}, ClientOptions{})

	page, err := c.ListUsers(context.Background(), ListOptions{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if gotQuery != "limit=2&page=2" {
		t.Errorf("query = %q", gotQuery)
	}
	if page.Page != 2 || page.Total != 5 || page.TotalPages != 3 || !page.HasNext() {
		t.Errorf("pagination = %+v", page)
	}
	if len(page.Items) != 2 {
		t.Fatalf("got %d users, want 2", len(page.Items))
	}

	ana := page.Items[0]
	if ana.ID != "7" || ana.FullName != "Ana" || ana.Role != "admin" || !ana.IsActive || ana.PostsCount != 12 {
		t.Errorf("ana = %+v", ana)
	}
	if ana.LastLogin == nil || !ana.LastLogin.Equal(time.Date(2024, 3, 5, 8, 30, 0, 0, time.UTC)) {
		t.Errorf("LastLogin = %v", ana.LastLogin)
	}

	bob := page.Items[1]
	if bob.ID != "u-2" || bob.FullName != UnnamedUser || bob.LastLogin != nil {
		t.Errorf("bob = %+v", bob)
	}
}

func TestListOptionsNormalize(t *testing.T) {
	tests := []struct {
		in   ListOptions
		want ListOptions
	}{
		{in: ListOptions{}, want: ListOptions{Page: 1, Limit: 10}},
		{in: ListOptions{Page: -3, Limit: 500}, want: ListOptions{Page: 1, Limit: 100}},
		{in: ListOptions{Page: 4, Limit: 25}, want: ListOptions{Page: 4, Limit: 25}},
	}

	for _, tt := range tests {
		if got := tt.in.normalize(); got != tt.want {
			t.Errorf("normalize(%+v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestListPostsDefaults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":[{"id":1,"user_id":7,"content":"hello"}]}`)
	}, ClientOptions{})

	page, err := c.ListPosts(context.Background(), ListOptions{})
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if page.Page != 1 || page.Limit != 10 || page.Total != 1 || page.TotalPages != 1 {
		t.Errorf("derived pagination = %+v", page)
	}

	post := page.Items[0]
	if post.Status != DefaultPostStatus {
		t.Errorf("Status = %q, want %q", post.Status, DefaultPostStatus)
	}
	if post.UserID != "7" || post.Platforms == nil || post.ScheduledAt != nil {
		t.Errorf("post = %+v", post)
	}
}

func TestListSubscriptions(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":[
			{"id":"s1","user_id":"u1","plan_id":3,"plan_name":"Pro","status":"active",
			 "current_period_end":"2024-12-31T00:00:00Z","cancel_at_period_end":true,"amount":1999}
		],"pagination":{"page":1,"limit":10,"total":1,"total_pages":1}}`)
	}, ClientOptions{})

	page, err := c.ListSubscriptions(context.Background(), ListOptions{})
	if err != nil {
		t.Fatalf("ListSubscriptions: %v", err)
	}

	sub := page.Items[0]
	if sub.Amount != 19.99 {
		t.Errorf("Amount = %v, want 19.99", sub.Amount)
	}
	if sub.Currency != DefaultCurrency {
		t.Errorf("Currency = %q", sub.Currency)
	}
	if sub.PlanID != "3" || !sub.CancelAtPeriodEnd || sub.CurrentPeriodEnd == nil {
		t.Errorf("subscription = %+v", sub)
	}
}

func TestListPlans(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[
			{"id":1,"name":"Free","price_monthly":0,"price_yearly":0,"max_accounts":1,"max_posts":10},
			{"id":2,"name":"Pro","price_monthly":19,"price_yearly":190,"features":["analytics"],"popular":true}
		]`)
	}, ClientOptions{})

	plans, err := c.ListPlans(context.Background())
	if err != nil {
		t.Fatalf("ListPlans: %v", err)
	}
	if len(plans) != 2 {
		t.Fatalf("got %d plans, want 2", len(plans))
	}
	if plans[0].Features == nil || plans[0].MaxAccounts != 1 {
		t.Errorf("free = %+v", plans[0])
	}
	if !plans[1].Popular || plans[1].PriceYearly != 190 || plans[1].Features[0] != "analytics" {
		t.Errorf("pro = %+v", plans[1])
	}
}
