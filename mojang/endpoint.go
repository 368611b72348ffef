package mojang

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// The batch endpoint accepts at most 10 names per call.
const maxBatchNames = 10

// validUsername reports whether name can exist on Mojang's side:
// 3 to 16 ASCII characters.
func validUsername(name string) bool {
	if len(name) < 3 || len(name) > 16 {
		return false
	}
	for i := 0; i < len(name); i++ {
		if name[i] > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// isNotFound reports whether err is the API's absence signal for lookup
// endpoints: 404, or 204 from the legacy name endpoints.
func isNotFound(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusNotFound || apiErr.Status == http.StatusNoContent
}

// UUIDByName resolves a username to its profile UUID. The second return
// value is false when no profile has that name.
func (c *Client) UUIDByName(ctx context.Context, name string) (uuid.UUID, bool, error) {
	if !validUsername(name) {
		return uuid.Nil, false, fmt.Errorf("%w: %q", ErrInvalidUsername, name)
	}

	body, err := c.do(ctx, http.MethodGet, c.baseURL.Services("/minecraft/profile/lookup/name/"+url.PathEscape(name), nil), nil, nil)
	if err != nil {
		if isNotFound(err) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, err
	}

	id, err := decodeUUIDLookup(body)
	if err != nil {
		return uuid.Nil, false, err
	}
	return id, true, nil
}

// UUIDsByNames resolves up to 10 usernames in one call. The result maps the
// server-returned casing of each resolved name to its UUID; names without a
// profile are simply absent.
func (c *Client) UUIDsByNames(ctx context.Context, names []string) (map[string]uuid.UUID, error) {
	if len(names) > maxBatchNames {
		return nil, fmt.Errorf("%w: got %d", ErrTooManyNames, len(names))
	}
	for _, name := range names {
		if !validUsername(name) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidUsername, name)
		}
	}

	reqBody, err := json.Marshal(names)
	if err != nil {
		return nil, err
	}

	header := make(http.Header)
	header.Set("Content-Type", "application/json")

	body, err := c.do(ctx, http.MethodPost, c.baseURL.API("/profiles/minecraft", nil), header, reqBody)
	if err != nil {
		return nil, err
	}

	return decodeUUIDBatch(body)
}

// NameByUUID resolves a profile UUID to its current username. The second
// return value is false when no profile has that UUID.
func (c *Client) NameByUUID(ctx context.Context, id uuid.UUID) (string, bool, error) {
	body, err := c.do(ctx, http.MethodGet, c.sessionProfileURL(id), nil, nil)
	if err != nil {
		if isNotFound(err) {
			return "", false, nil
		}
		return "", false, err
	}

	name, err := decodeName(body)
	if err != nil {
		return "", false, err
	}
	return name, true, nil
}

// ProfileByUUID fetches the full profile with decoded skin and cape
// textures. Unlike the lookup methods, an unknown UUID is an error here:
// the call returns *Error with status 404.
func (c *Client) ProfileByUUID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	body, err := c.do(ctx, http.MethodGet, c.sessionProfileURL(id), nil, nil)
	if err != nil {
		return nil, err
	}

	return decodeProfile(body)
}

// BlockedServers fetches the SHA-1 hashes of blocked server addresses.
func (c *Client) BlockedServers(ctx context.Context) (map[string]struct{}, error) {
	body, err := c.do(ctx, http.MethodGet, c.baseURL.SessionServer("/blockedservers", nil), nil, nil)
	if err != nil {
		return nil, err
	}

	return decodeBlockedServers(body), nil
}

func (c *Client) sessionProfileURL(id uuid.UUID) string {
	return c.baseURL.SessionServer("/session/minecraft/profile/"+strings.ReplaceAll(id.String(), "-", ""), nil)
}
