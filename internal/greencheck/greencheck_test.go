package greencheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeHost(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "www.example.nl", want: "www.example.nl"},
		{in: "https://WWW.Example.nl/path?q=1", want: "www.example.nl"},
		{in: "example.nl:8443", want: "example.nl"},
		{in: "  ", wantErr: true},
		{in: "https://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeHost(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_Check(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus Status
		wantHost   string
		wantErr    bool
	}{
		{
			name:       "green",
			status:     http.StatusOK,
			body:       `{"url":"www.example.nl","green":true,"hosted_by":"Green Host BV"}`,
			wantStatus: StatusGreen,
			wantHost:   "Green Host BV",
		},
		{
			name:       "not green without provider",
			status:     http.StatusOK,
			body:       `{"url":"www.example.nl","green":false}`,
			wantStatus: StatusNotGreen,
			wantHost:   HostedByUnknown,
		},
		{
			name:       "server error",
			status:     http.StatusInternalServerError,
			body:       `oops`,
			wantStatus: StatusUnknown,
			wantHost:   HostedByUnknown,
			wantErr:    true,
		},
		{
			name:       "bad JSON",
			status:     http.StatusOK,
			body:       `{"green":`,
			wantStatus: StatusUnknown,
			wantHost:   HostedByUnknown,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := NewClient(zerolog.Nop(), WithBaseURL(server.URL))
			res := c.Check(context.Background(), "https://www.example.nl/")

			assert.Equal(t, "/api/v3/greencheck/www.example.nl", gotPath)
			assert.Equal(t, "www.example.nl", res.Host)
			assert.Equal(t, tt.wantStatus, res.Status)
			assert.Equal(t, tt.wantHost, res.HostedBy)
			if tt.wantErr {
				assert.NotEmpty(t, res.Err)
			} else {
				assert.Empty(t, res.Err)
			}
		})
	}
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	c := NewClient(zerolog.Nop(), WithBaseURL(server.URL), WithTimeout(50*time.Millisecond))
	res := c.Check(context.Background(), "example.nl")

	assert.Equal(t, StatusUnknown, res.Status)
	assert.NotEmpty(t, res.Err)
}

func TestWithTimeout_CopiesClient(t *testing.T) {
	shared := &http.Client{Timeout: time.Minute}

	c := NewClient(zerolog.Nop(), WithHTTPClient(shared), WithTimeout(2*time.Second))

	assert.Equal(t, time.Minute, shared.Timeout)
	assert.Equal(t, 2*time.Second, c.httpClient.Timeout)
	assert.NotSame(t, shared, c.httpClient)

	c = NewClient(zerolog.Nop(), WithHTTPClient(http.DefaultClient), WithTimeout(time.Second))
	assert.Zero(t, http.DefaultClient.Timeout)
	assert.Equal(t, time.Second, c.httpClient.Timeout)
}

func TestClient_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(zerolog.Nop(), WithBaseURL("http://127.0.0.1:1"))
	res := c.Check(ctx, "example.nl")
	assert.Equal(t, StatusUnknown, res.Status)
}

func TestClient_EmptyHost(t *testing.T) {
	c := NewClient(zerolog.Nop())
	res := c.Check(context.Background(), "")
	assert.Equal(t, StatusUnknown, res.Status)
	assert.Contains(t, res.Err, "empty host")
}

func TestStatic_Check(t *testing.T) {
	s := Static{"example.nl": {Status: StatusGreen, HostedBy: "Acme"}}

	res := s.Check(context.Background(), "HTTPS://example.nl")
	assert.Equal(t, Result{Host: "example.nl", Status: StatusGreen, HostedBy: "Acme"}, res)

	res = s.Check(context.Background(), "other.nl")
	assert.Equal(t, StatusUnknown, res.Status)

	var _ Checker = s
	var _ Checker = (*Client)(nil)
}
