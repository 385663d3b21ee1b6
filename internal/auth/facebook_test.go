package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newGraphStub spins up a fake Graph API that accepts exactly one token
// issued to the given app. It covers both calls the provider makes:
// /debug_token (checked against the app access token) and /me (checked
// against the Bearer header and the appsecret_proof).
func newGraphStub(t *testing.T, clientID, clientSecret, validToken string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/debug_token":
			if r.URL.Query().Get("access_token") != clientID+"|"+clientSecret {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error":{"message":"Invalid app access token."}}`))
				return
			}
			valid := r.URL.Query().Get("input_token") == validToken
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"data":{"app_id":%q,"is_valid":%t}}`, clientID, valid)

		case "/me":
			if r.Header.Get("Authorization") != "Bearer "+validToken {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error":{"message":"Invalid OAuth access token."}}`))
				return
			}

			mac := hmac.New(sha256.New, []byte(clientSecret))
			mac.Write([]byte(validToken))
			wantProof := hex.EncodeToString(mac.Sum(nil))
			if r.URL.Query().Get("appsecret_proof") != wantProof {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error":{"message":"Invalid appsecret_proof."}}`))
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"10158000000000001","name":"Jane Camper","first_name":"Jane","last_name":"Camper"}`))

		default:
			http.NotFound(w, r)
		}
	}))
}

func TestFacebookProfile_ValidToken(t *testing.T) {
	stub := newGraphStub(t, "app-id", "app-secret", "fb-token-ok")
	defer stub.Close()

	p := NewFacebookProvider("app-id", "app-secret")
	p.GraphURL = stub.URL

	fbUser, err := p.Profile(context.Background(), "fb-token-ok")
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}

	if fbUser.ID != "10158000000000001" {
		t.Errorf("ID = %q, want %q", fbUser.ID, "10158000000000001")
	}
	if fbUser.Name != "Jane Camper" {
		t.Errorf("Name = %q, want %q", fbUser.Name, "Jane Camper")
	}
	if fbUser.FirstName != "Jane" || fbUser.LastName != "Camper" {
		t.Errorf("name parts = %q %q, want Jane Camper", fbUser.FirstName, fbUser.LastName)
	}
}

func TestFacebookProfile_RejectedToken(t *testing.T) {
	stub := newGraphStub(t, "app-id", "app-secret", "fb-token-ok")
	defer stub.Close()

	p := NewFacebookProvider("app-id", "app-secret")
	p.GraphURL = stub.URL

	// /debug_token reports is_valid=false for an unknown token, so the
	// provider must fail before /me is ever consulted.
	_, err := p.Profile(context.Background(), "fb-token-revoked")
	if err == nil {
		t.Fatal("Profile() should fail when the Graph API rejects the token")
	}
}

func TestFacebookProfile_TokenFromAnotherApp(t *testing.T) {
	// The Graph API says the token is perfectly valid — for somebody else's
	// app. It must not authenticate anyone here.
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/debug_token" {
			t.Errorf("unexpected Graph call %s after a foreign-app token", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"app_id":"somebody-elses-app","is_valid":true}}`))
	}))
	defer stub.Close()

	p := NewFacebookProvider("app-id", "app-secret")
	p.GraphURL = stub.URL

	_, err := p.Profile(context.Background(), "fb-token-foreign")
	if err == nil {
		t.Fatal("Profile() should reject a token issued to a different app")
	}
}

func TestFacebookProfile_EmptyToken(t *testing.T) {
	p := NewFacebookProvider("app-id", "app-secret")

	// Must fail before any network call — no stub server is running.
	_, err := p.Profile(context.Background(), "")
	if err == nil {
		t.Fatal("Profile() should reject an empty access token")
	}
}

func TestFacebookProfile_WrongSecretRejected(t *testing.T) {
	stub := newGraphStub(t, "app-id", "app-secret", "fb-token-ok")
	defer stub.Close()

	// Same token, wrong app secret → wrong app access token on /debug_token
	// (and a wrong appsecret_proof after it) → rejected.
	p := NewFacebookProvider("app-id", "some-other-secret")
	p.GraphURL = stub.URL

	_, err := p.Profile(context.Background(), "fb-token-ok")
	if err == nil {
		t.Fatal("Profile() should fail when the app secret doesn't match")
	}
}
