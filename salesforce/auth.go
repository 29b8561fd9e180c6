package salesforce

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

// ============================================================================
// AUTHENTICATION: username/password(+token) logins
// ============================================================================
// Both flows end in a Session: a bearer token plus the instance the org
// lives on. Production orgs log in through login.salesforce.com, sandboxes
// through test.salesforce.com.
// ============================================================================

const (
	DefaultAPIVersion = "v29.0"
	productionLogin   = "https://login.salesforce.com"
	sandboxLogin      = "https://test.salesforce.com"
)

// Session is an authenticated connection to one org.
type Session struct {
	Token       string
	InstanceURL string // scheme://host, e.g. https://na1.salesforce.com
}

// Instance returns the host part of InstanceURL.
func (s *Session) Instance() string {
	u, err := url.Parse(s.InstanceURL)
	if err != nil || u.Host == "" {
		return s.InstanceURL
	}
	return u.Host
}

// Authenticator obtains a session.
type Authenticator interface {
	Authenticate(ctx context.Context, hc *http.Client) (*Session, error)
}

func loginHost(sandbox bool, override string) string {
	if override != "" {
		return strings.TrimRight(override, "/")
	}
	if sandbox {
		return sandboxLogin
	}
	return productionLogin
}

// ============================================================================
// SOAP partner login
// ============================================================================

// SOAPLogin authenticates with the partner API login call.
type SOAPLogin struct {
	Username      string
	Password      string
	SecurityToken string
	Sandbox       bool
	APIVersion    string // defaults to DefaultAPIVersion
	LoginURL      string // overrides the login host
}

// URL returns the SOAP endpoint the login is posted to.
func (l *SOAPLogin) URL() string {
	version := l.APIVersion
	if version == "" {
		version = DefaultAPIVersion
	}
	return fmt.Sprintf("%s/services/Soap/u/%s", loginHost(l.Sandbox, l.LoginURL), strings.TrimPrefix(version, "v"))
}

const loginEnvelope = `<?xml version="1.0" encoding="utf-8" ?>
<env:Envelope
        xmlns:xsd="http://www.w3.org/2001/XMLSchema"
        xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
        xmlns:env="http://schemas.xmlsoap.org/soap/envelope/">
    <env:Body>
        <n1:login xmlns:n1="urn:partner.soap.sforce.com">
            <n1:username>%s</n1:username>
            <n1:password>%s</n1:password>
        </n1:login>
    </env:Body>
</env:Envelope>`

// loginResponse matches both the success body and a SOAP fault by local name.
type loginResponse struct {
	XMLName xml.Name `xml:"Envelope"`
	Result  struct {
		ServerURL string `xml:"serverUrl"`
		SessionID string `xml:"sessionId"`
	} `xml:"Body>loginResponse>result"`
	Fault struct {
		Code             string `xml:"faultcode"`
		String           string `xml:"faultstring"`
		ExceptionCode    string `xml:"detail>LoginFault>exceptionCode"`
		ExceptionMessage string `xml:"detail>LoginFault>exceptionMessage"`
	} `xml:"Body>Fault"`
}

// Authenticate posts the login envelope and reads the session id.
func (l *SOAPLogin) Authenticate(ctx context.Context, hc *http.Client) (*Session, error) {
	payload := fmt.Sprintf(loginEnvelope, escapeXML(l.Username), escapeXML(l.Password+l.SecurityToken))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.URL(), strings.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build login request: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=UTF-8")
	req.Header.Set("SOAPAction", "login")

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read login response: %w", err)
	}

	var parsed loginResponse
	if err := xml.Unmarshal(body, &parsed); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, &AuthenticationError{Code: resp.Status, Message: truncate(string(body), 200)}
		}
		return nil, fmt.Errorf("failed to parse login response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		f := parsed.Fault
		code, msg := f.ExceptionCode, f.ExceptionMessage
		if code == "" {
			code = strings.TrimPrefix(f.Code, "sf:")
		}
		if msg == "" {
			msg = f.String
		}
		return nil, &AuthenticationError{Code: code, Message: msg}
	}

	if parsed.Result.SessionID == "" || parsed.Result.ServerURL == "" {
		return nil, fmt.Errorf("%w: login response carried no sessionId/serverUrl", ErrNoSession)
	}

	instanceURL, err := instanceFromServerURL(parsed.Result.ServerURL)
	if err != nil {
		return nil, err
	}
	return &Session{Token: parsed.Result.SessionID, InstanceURL: instanceURL}, nil
}

// instanceFromServerURL reduces the SOAP serverUrl to the instance root,
// dropping the "-api" host suffix the partner endpoint uses.
func instanceFromServerURL(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%w: unusable serverUrl %q", ErrNoSession, serverURL)
	}
	scheme := u.Scheme
	if scheme == "" {
		scheme = "https"
	}
	return scheme + "://" + strings.Replace(u.Host, "-api", "", 1), nil
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	// EscapeText only fails when the writer does.
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// ============================================================================
// OAuth2 username-password grant
// ============================================================================

// PasswordGrant authenticates through a connected app.
type PasswordGrant struct {
	ClientID      string
	ClientSecret  string
	Username      string
	Password      string
	SecurityToken string
	Sandbox       bool
	LoginURL      string // overrides the login host
}

// URL returns the token endpoint.
func (g *PasswordGrant) URL() string {
	return loginHost(g.Sandbox, g.LoginURL) + "/services/oauth2/token"
}

// Authenticate exchanges the credentials for an access token.
func (g *PasswordGrant) Authenticate(ctx context.Context, hc *http.Client) (*Session, error) {
	form := url.Values{
		"grant_type":    {"password"},
		"client_id":     {g.ClientID},
		"client_secret": {g.ClientSecret},
		"username":      {g.Username},
		"password":      {g.Password + g.SecurityToken},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.URL(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	result := gjson.ParseBytes(body)
	if resp.StatusCode != http.StatusOK {
		code := result.Get("error").String()
		if code == "" {
			code = resp.Status
		}
		return nil, &AuthenticationError{Code: code, Message: result.Get("error_description").String()}
	}

	token := result.Get("access_token").String()
	instance := result.Get("instance_url").String()
	if token == "" || instance == "" {
		return nil, fmt.Errorf("%w: token response carried no access_token/instance_url", ErrNoSession)
	}
	return &Session{Token: token, InstanceURL: strings.TrimRight(instance, "/")}, nil
}
