package backend

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// IamCredentialSet is the short-lived credential set issued by /iam/login.
// It is held in memory for the lifetime of one view and never persisted.
type IamCredentialSet struct {
	AccessKeyID     string    `json:"access_key_id"`
	SecretAccessKey string    `json:"secret_access_key"`
	SessionToken    string    `json:"session_token"`
	Expiration      time.Time `json:"expiration"`
	AssumedRoleArn  string    `json:"assumed_role_arn"`
	LoginURL        string    `json:"login_url"`

	// Subject is the identity token subject echoed back by STS, when present.
	Subject string `json:"subject_from_web_identity_token,omitempty"`
}

// User is the subset of the backend user record the client displays.
type User struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email"`
	Roles     []string `json:"roles"`
}

// String renders the user as "(id) name [email]", naming them by username
// when the profile has no first or last name.
func (u User) String() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = u.Username
	}
	return fmt.Sprintf("(%s) %s [%s]", u.ID, name, u.Email)
}

type pingResponse struct {
	Message string `json:"message"`
}

// HTTPError is a non-200 response from the backend.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message())
}

// Message is the display string for the error: the "message" field of a
// JSON error body, a JSON string body, or the trimmed body text otherwise.
func (e *HTTPError) Message() string {
	raw := []byte(e.Body)
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		return body.Message
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}
	return strings.TrimSpace(e.Body)
}
