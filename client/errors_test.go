package client

import (
	"errors"
	"fmt"
	"testing"
)

func TestHTTPErrorCategory(t *testing.T) {
	cases := []struct {
		status int
		want   ErrorCategory
	}{
		{400, Irrecoverable},
		{401, Irrecoverable},
		{403, Irrecoverable},
		{404, Irrecoverable},
		{408, Recoverable},
		{429, Recoverable},
		{500, Recoverable},
		{502, Recoverable},
		{503, Recoverable},
	}
	for _, tc := range cases {
		if got := httpErrorCategory(tc.status); got != tc.want {
			t.Errorf("httpErrorCategory(%d) = %s, want %s", tc.status, got, tc.want)
		}
	}
}

func TestNetworkErrorIsRecoverable(t *testing.T) {
	err := newNetworkError("get_jobs", fmt.Errorf("connection refused"))
	if err.Category != Recoverable {
		t.Fatalf("category = %s, want Recoverable", err.Category)
	}
	if err.StatusCode != 0 {
		t.Fatalf("status = %d, want 0", err.StatusCode)
	}
}

func TestAPIErrorUnwrap(t *testing.T) {
	underlying := fmt.Errorf("root cause")
	err := &APIError{Category: Irrecoverable, StatusCode: 400, Underlying: underlying}
	if !errors.Is(err, underlying) {
		t.Fatal("errors.Is should reach the underlying error")
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(newHTTPError(404, "", "get_jobs")) {
		t.Error("404 should be IsNotFound")
	}
	if IsNotFound(newHTTPError(400, "", "get_jobs")) {
		t.Error("400 should not be IsNotFound")
	}
	if IsNotFound(fmt.Errorf("plain error")) {
		t.Error("plain error should not be IsNotFound")
	}
}
