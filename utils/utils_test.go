package utils

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGenerateETag(t *testing.T) {
	id := primitive.NewObjectID()
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	a := GenerateETag(id, at)
	if a != GenerateETag(id, at) {
		t.Fatal("etag must be deterministic")
	}
	if a == GenerateETag(id, at.Add(time.Nanosecond)) {
		t.Fatal("etag must change with updated_at")
	}
	if a == GenerateETag(primitive.NewObjectID(), at) {
		t.Fatal("etag must change with id")
	}
	if a[0] != '"' || a[len(a)-1] != '"' {
		t.Fatalf("etag %s is not quoted", a)
	}
}

func TestExtractPublicID(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{url: "https://res.cloudinary.com/demo/image/upload/v1234567890/campaigns/abc123.jpg", want: "campaigns/abc123"},
		{url: "https://res.cloudinary.com/demo/image/upload/campaigns/abc123.png", want: "campaigns/abc123"},
		{url: "https://res.cloudinary.com/demo/image/upload/v1/logo.webp", want: "logo"},
		{url: "https://example.com/no/upload-segment.jpg", wantErr: true},
	}
	for _, tt := range tests {
		got, err := extractPublicID(tt.url)
		if tt.wantErr {
			if err == nil {
				t.Errorf("extractPublicID(%q) expected error", tt.url)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("extractPublicID(%q) = %q, %v; want %q", tt.url, got, err, tt.want)
		}
	}
}

func TestNewUploaderDisabled(t *testing.T) {
	u, err := NewUploader("", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := u.Upload(context.Background(), nil, "campaigns"); !errors.Is(err, ErrUploadsDisabled) {
		t.Fatalf("err = %v, want ErrUploadsDisabled", err)
	}
}

func TestZeptoMailer(t *testing.T) {
	var got emailRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	m := NewMailer(srv.URL, "Zoho-enczapikey k", "noreply@edubridge.org")
	if err := m.SendEmail(context.Background(), "ada@example.com", "Ada", "Hi", "<p>hello</p>"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if auth != "Zoho-enczapikey k" {
		t.Errorf("authorization = %q", auth)
	}
	if got.From.Address != "noreply@edubridge.org" || got.Subject != "Hi" || got.HtmlBody != "<p>hello</p>" {
		t.Errorf("payload = %+v", got)
	}
	if len(got.To) != 1 || got.To[0].Email.Address != "ada@example.com" || got.To[0].Email.Name != "Ada" {
		t.Errorf("recipients = %+v", got.To)
	}
}

func TestZeptoMailerErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	m := NewMailer(srv.URL, "key", "from@example.com")
	if err := m.SendEmail(context.Background(), "a@example.com", "", "s", "b"); err == nil {
		t.Fatal("expected error on 401")
	}
}

func TestNewMailerUnconfigured(t *testing.T) {
	if _, ok := NewMailer("", "key", "from").(NopMailer); !ok {
		t.Fatal("expected NopMailer when url is missing")
	}
}
