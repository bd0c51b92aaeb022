package namegen

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"solvetrack/pkg/apperror"
)

// Source produces candidate display names. Next returns a fresh candidate on
// every call; an exhausted or unreachable source returns an error, which the
// reservation service surfaces as apperror.ErrNameGeneration.
type Source interface {
	Next(ctx context.Context) (string, error)
}

// Static yields the caller-supplied name exactly once. A second call fails,
// which enforces the single-attempt contract for user-chosen names: a
// collision must surface to the caller, never trigger a silent retry.
type Static struct {
	name string
	used bool
}

func NewStatic(name string) *Static {
	return &Static{name: name}
}

func (s *Static) Next(ctx context.Context) (string, error) {
	if s.used {
		return "", fmt.Errorf("static name source exhausted")
	}
	s.used = true
	return s.name, nil
}

// RandomIdentity fetches first/last name pairs from a randomuser.me-style
// endpoint and formats them as FirstLast<0-99>. When the endpoint fails it
// falls back to a timestamp-derived name so signup always makes progress.
type RandomIdentity struct {
	baseURL string
	client  *http.Client
	now     func() time.Time
	intn    func(n int) int
}

func NewRandomIdentity(baseURL string, timeout time.Duration) *RandomIdentity {
	return &RandomIdentity{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		now:     time.Now,
		intn:    rand.Intn,
	}
}

type identityResponse struct {
	Results []struct {
		Name struct {
			First string `json:"first"`
			Last  string `json:"last"`
		} `json:"name"`
	} `json:"results"`
}

func (g *RandomIdentity) Next(ctx context.Context) (string, error) {
	name, err := g.fetch(ctx)
	if err != nil {
		// Endpoint down is not fatal: a timestamp name is unique enough
		// to keep the reservation loop moving.
		return fmt.Sprintf("User%d", g.now().UnixMilli()), nil
	}
	return name, nil
}

func (g *RandomIdentity) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?inc=name", nil)
	if err != nil {
		return "", err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("name api returned status %d", resp.StatusCode)
	}

	var payload identityResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}

	if len(payload.Results) == 0 {
		return "", apperror.ErrNameGeneration
	}

	first := capitalize(payload.Results[0].Name.First)
	last := capitalize(payload.Results[0].Name.Last)
	if first == "" || last == "" {
		return "", apperror.ErrNameGeneration
	}

	return fmt.Sprintf("%s%s%d", first, last, g.intn(100)), nil
}

func capitalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
