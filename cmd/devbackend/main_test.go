package main

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"earn-dashboard/internal/client"
)

func TestDevBackendFlow(t *testing.T) {
	app := newApp(newMemStore(150, false))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/user/42", nil))
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != 200 || !strings.Contains(string(body), `"balance":150`) {
		t.Fatalf("user: %d %s", resp.StatusCode, body)
	}

	withdraw := func(amount, id string) int {
		req := httptest.NewRequest("POST", "/api/withdraw",
			strings.NewReader(`{"telegram_id":42,"amount":`+amount+`,"method":"bkash","mobile":"01712345678"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(client.HeaderRequestID, id)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatal(err)
		}
		return resp.StatusCode
	}

	if code := withdraw("120", "r1"); code != 200 {
		t.Fatalf("withdraw status = %d", code)
	}
	// replay is applied once
	if code := withdraw("120", "r1"); code != 200 {
		t.Fatalf("replay status = %d", code)
	}
	if code := withdraw("120", "r2"); code != 400 {
		t.Errorf("overdraw status = %d, want 400", code)
	}

	resp, _ = app.Test(httptest.NewRequest("GET", "/api/user/42", nil))
	body, _ = io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `"balance":30`) {
		t.Errorf("balance after withdraw: %s", body)
	}
}

func TestDevBackendStrict(t *testing.T) {
	app := newApp(newMemStore(150, true))
	resp, _ := app.Test(httptest.NewRequest("GET", "/api/user/1", nil))
	if resp.StatusCode != 404 {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestCredit(t *testing.T) {
	s := newMemStore(10, false)
	s.user(7)
	snap, err := s.credit(7, 5)
	if err != nil || snap.User.Balance != 15 || snap.User.TotalAdsWatched != 1 {
		t.Errorf("credit = %+v, %v", snap, err)
	}
	if _, err := s.credit(8, 5); err == nil {
		t.Error("credit for unknown user succeeded")
	}
}
