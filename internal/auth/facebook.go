package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
)

// defaultGraphURL is Facebook's Graph API root. Overridable so tests can
// point the provider at a local httptest server.
const defaultGraphURL = "https://graph.facebook.com/v19.0"

// FacebookUser is the portion of the Graph API /me response we care about.
// Facebook returns more; we only unmarshal the fields we store.
type FacebookUser struct {
	ID        string `json:"id"`         // Facebook's profile ID — a numeric string, stable
	Name      string `json:"name"`       // Display name, e.g. "Jane Camper"
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// FacebookProvider validates client-supplied Facebook access tokens and
// fetches the profile behind them.
//
// TOKEN EXCHANGE FLOW (not the redirect code flow):
// The web/mobile client does the Facebook login dance itself and ends up
// holding a Facebook ACCESS TOKEN. It sends that token to us
// (GET /users/facebook/token, Authorization: Bearer <fb token>), and we:
//
//  1. Call the Graph API /debug_token, authenticated with the app access
//     token ("<app id>|<app secret>"), and check that the token is live AND
//     was issued to OUR app — a valid token minted for some other Facebook
//     app must not log anyone in here.
//  2. Call /me with the token to get the profile. golang.org/x/oauth2's
//     StaticTokenSource wraps the raw token in an *http.Client that sets
//     the Authorization header for us.
//  3. Attach an appsecret_proof — HMAC-SHA256 of the access token keyed by
//     our app secret. Facebook rejects server-side Graph calls without it
//     when the app has "Require App Secret" enabled, and it ensures a token
//     stolen from our traffic is useless without the secret.
//
// The caller (AuthService) then maps the Facebook profile ID onto a local
// user, creating one on first sight.
type FacebookProvider struct {
	clientID     string
	clientSecret string

	// GraphURL is the Graph API base. Tests point it at an httptest.Server.
	GraphURL string
}

// NewFacebookProvider creates a FacebookProvider with the app credentials
// from the Facebook developer console.
func NewFacebookProvider(clientID, clientSecret string) *FacebookProvider {
	return &FacebookProvider{
		clientID:     clientID,
		clientSecret: clientSecret,
		GraphURL:     defaultGraphURL,
	}
}

// Profile validates an access token against the Graph API and returns the
// profile it belongs to. Any failure — network, a dead token, a malformed
// response — surfaces as an error; the caller treats them all as an
// authentication failure, with no retry.
func (p *FacebookProvider) Profile(ctx context.Context, accessToken string) (*FacebookUser, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("auth: facebook access token is required")
	}

	if err := p.checkAppToken(ctx, accessToken); err != nil {
		return nil, err
	}

	// StaticTokenSource yields the same token forever — exactly right here,
	// since the client handed us a finished token rather than a code to
	// exchange. oauth2.NewClient returns an *http.Client that adds
	// "Authorization: Bearer <token>" to every request.
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	client := oauth2.NewClient(ctx, src)

	q := url.Values{}
	q.Set("fields", "id,name,first_name,last_name")
	q.Set("appsecret_proof", p.appSecretProof(accessToken))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		p.GraphURL+"/me?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("auth: building facebook /me request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth: calling facebook /me: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// A 400 here almost always means an expired or revoked token.
		return nil, fmt.Errorf("auth: facebook /me returned status %d", resp.StatusCode)
	}

	var fbUser FacebookUser
	if err := json.NewDecoder(resp.Body).Decode(&fbUser); err != nil {
		return nil, fmt.Errorf("auth: decoding facebook /me response: %w", err)
	}

	if fbUser.ID == "" {
		return nil, fmt.Errorf("auth: facebook returned a profile without an id")
	}

	return &fbUser, nil
}

// debugTokenResponse is the data envelope /debug_token wraps its answer in.
type debugTokenResponse struct {
	Data struct {
		AppID   string `json:"app_id"`
		IsValid bool   `json:"is_valid"`
	} `json:"data"`
}

// checkAppToken asks the Graph API whether the access token is live and was
// issued to our app. The call itself authenticates with the app access
// token, which is just "<app id>|<app secret>" — no exchange needed.
func (p *FacebookProvider) checkAppToken(ctx context.Context, accessToken string) error {
	q := url.Values{}
	q.Set("input_token", accessToken)
	q.Set("access_token", p.clientID+"|"+p.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		p.GraphURL+"/debug_token?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("auth: building facebook /debug_token request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("auth: calling facebook /debug_token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("auth: facebook /debug_token returned status %d", resp.StatusCode)
	}

	var dt debugTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&dt); err != nil {
		return fmt.Errorf("auth: decoding facebook /debug_token response: %w", err)
	}

	if !dt.Data.IsValid {
		return fmt.Errorf("auth: facebook access token is expired or revoked")
	}
	if dt.Data.AppID != p.clientID {
		return fmt.Errorf("auth: facebook access token belongs to app %s, not ours", dt.Data.AppID)
	}

	return nil
}

// appSecretProof computes HMAC-SHA256(accessToken) keyed with the app
// secret, hex-encoded, per the Graph API's appsecret_proof scheme.
func (p *FacebookProvider) appSecretProof(accessToken string) string {
	mac := hmac.New(sha256.New, []byte(p.clientSecret))
	mac.Write([]byte(accessToken))
	return hex.EncodeToString(mac.Sum(nil))
}
